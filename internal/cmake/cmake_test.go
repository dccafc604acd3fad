package cmake

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frederic-klein/cclrecipe/internal/recipe"
)

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	failOn string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	if f.failOn != "" && strings.Contains(name+" "+strings.Join(args, " "), f.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func testLayout(t *testing.T) Layout {
	root := t.TempDir()
	return Layout{
		SourceDir:     filepath.Join(root, "src"),
		BuildDir:      filepath.Join(root, "build"),
		GeneratorsDir: filepath.Join(root, "build", "generators"),
		PackageDir:    filepath.Join(root, "package"),
	}
}

func TestDriver_Commands(t *testing.T) {
	// Arrange
	layout := testLayout(t)
	runner := &fakeRunner{}
	d := NewDriver(runner, layout, "Debug")
	ctx := context.Background()

	// Act
	require.NoError(t, d.Configure(ctx))
	require.NoError(t, d.Build(ctx))
	require.NoError(t, d.Test(ctx))
	require.NoError(t, d.Install(ctx))

	// Assert
	require.Len(t, runner.calls, 4)
	assert.Equal(t, "cmake", runner.calls[0].name)
	assert.Contains(t, runner.calls[0].args, "-DCMAKE_TOOLCHAIN_FILE="+layout.ToolchainFile())
	assert.Contains(t, runner.calls[0].args, "-DCMAKE_BUILD_TYPE=Debug")
	assert.Contains(t, runner.calls[0].args, "-DCMAKE_INSTALL_PREFIX="+layout.PackageDir)
	assert.Equal(t, []string{"--build", layout.BuildDir, "--config", "Debug"}, runner.calls[1].args)
	assert.Equal(t, "ctest", runner.calls[2].name)
	assert.Equal(t, []string{"--install", layout.BuildDir, "--config", "Debug"}, runner.calls[3].args)
	for _, c := range runner.calls {
		assert.Equal(t, layout.SourceDir, c.dir)
	}
}

func TestDriver_DefaultBuildType(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDriver(runner, testLayout(t), "")

	require.NoError(t, d.Build(context.Background()))

	assert.Equal(t, "Release", runner.calls[0].args[3])
}

func TestDriver_Failure(t *testing.T) {
	runner := &fakeRunner{failOn: "ctest"}
	d := NewDriver(runner, testLayout(t), "Release")

	err := d.Test(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "running ctest")
}

func TestToolchainGenerator_Generate(t *testing.T) {
	// Arrange
	layout := testLayout(t)
	settings := recipe.Settings{
		"os":              "Linux",
		"arch":            "x86_64",
		"build_type":      "Debug",
		"compiler":        "gcc",
		"compiler.cppstd": "20",
	}
	g := NewToolchainGenerator(layout, settings)

	// Act
	require.NoError(t, g.Generate(context.Background()))
	first, err := os.ReadFile(layout.ToolchainFile())
	require.NoError(t, err)
	require.NoError(t, g.Generate(context.Background()))
	second, err := os.ReadFile(layout.ToolchainFile())
	require.NoError(t, err)

	// Assert
	out := string(first)
	assert.Equal(t, out, string(second))
	assert.True(t, strings.HasPrefix(out, generatedHeader))
	assert.Contains(t, out, `set(CMAKE_BUILD_TYPE "Debug" CACHE STRING "" FORCE)`)
	assert.Contains(t, out, `set(CCL_SETTING_os "Linux")`)
	assert.Contains(t, out, `set(CCL_SETTING_compiler_cppstd "20")`)
	assert.Contains(t, out, `set(CMAKE_CXX_COMPILER "g++")`)
	assert.Contains(t, out, `set(CMAKE_CXX_STANDARD "20")`)
	assert.Contains(t, out, filepath.ToSlash(layout.GeneratorsDir))
}

func TestToolchainGenerator_EscapesValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"quote", `say "hi"`, `set(CCL_SETTING_os "say \"hi\"")`},
		{"backslash", `C:\tools`, `set(CCL_SETTING_os "C:\\tools")`},
		{"variable reference", `${HOME}`, `set(CCL_SETTING_os "\${HOME}")`},
		{"plain", "Linux", `set(CCL_SETTING_os "Linux")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := testLayout(t)
			g := NewToolchainGenerator(layout, recipe.Settings{"os": tt.value})

			require.NoError(t, g.Generate(context.Background()))

			data, err := os.ReadFile(layout.ToolchainFile())
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestToolchainGenerator_NoCompiler(t *testing.T) {
	layout := testLayout(t)
	g := NewToolchainGenerator(layout, recipe.Settings{"os": "Linux"})

	require.NoError(t, g.Generate(context.Background()))

	data, err := os.ReadFile(layout.ToolchainFile())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "CMAKE_CXX_COMPILER")
	assert.Contains(t, string(data), `set(CMAKE_BUILD_TYPE "Release"`)
}

func TestDepsGenerator_Generate(t *testing.T) {
	// Arrange
	layout := testLayout(t)
	opts := NewOptions()
	opts.SetOption("xxhash", "shared", false)
	opts.SetOption("xxhash", "build_utils", false)
	deps := []recipe.Dependency{{Ref: "xxhash/0.8.1"}}
	g := NewDepsGenerator(layout, deps, opts)

	// Act
	err := g.Generate(context.Background())

	// Assert
	require.NoError(t, err)
	config, err := os.ReadFile(filepath.Join(layout.GeneratorsDir, "xxhash-config.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(config), `set(xxhash_VERSION "0.8.1")`)
	assert.Contains(t, string(config), "set(xxhash_OPTION_build_utils OFF)\nset(xxhash_OPTION_shared OFF)")
	assert.Contains(t, string(config), "add_library(xxhash::xxhash INTERFACE IMPORTED)")

	version, err := os.ReadFile(filepath.Join(layout.GeneratorsDir, "xxhash-config-version.cmake"))
	require.NoError(t, err)
	assert.Contains(t, string(version), `set(PACKAGE_VERSION "0.8.1")`)
}

func TestDepsGenerator_NoDependencies(t *testing.T) {
	layout := testLayout(t)
	g := NewDepsGenerator(layout, nil, NewOptions())

	require.NoError(t, g.Generate(context.Background()))

	_, err := os.Stat(layout.GeneratorsDir)
	assert.True(t, os.IsNotExist(err))
}

func TestOptions(t *testing.T) {
	o := NewOptions()
	o.SetOption("xxhash", "shared", false)
	o.SetOption("xxhash", "build_utils", true)

	v, ok := o.Get("xxhash", "shared")
	assert.True(t, ok)
	assert.False(t, v)
	_, ok = o.Get("zlib", "shared")
	assert.False(t, ok)

	assert.Equal(t, map[string]string{
		"xxhash:shared":      "False",
		"xxhash:build_utils": "True",
	}, o.Flatten())

	copied := o.For("xxhash")
	copied["shared"] = true
	v, _ = o.Get("xxhash", "shared")
	assert.False(t, v)
}

func TestCmakeIdent(t *testing.T) {
	assert.Equal(t, "compiler_version", cmakeIdent("compiler.version"))
	assert.Equal(t, "build_type", cmakeIdent("build_type"))
	assert.Equal(t, "a_b_c", cmakeIdent("a-b c"))
}
