package recipe

import (
	"sort"

	"github.com/frederic-klein/cclrecipe/internal/packageid"
)

// DefaultVersionFile is where later revisions declare the library version.
const DefaultVersionFile = "cmake/version.cmake"

func baseMetadata() Metadata {
	return Metadata{
		Name:        "libccl",
		License:     "MIT",
		Author:      "Alfredo Mungo",
		URL:         "https://github.com/moongoal/libccl",
		Description: "CCL Library",
		Topics:      []string{"collections"},
		ExportsSources: []string{
			"include/*",
			"test/*",
			"cmake/*",
			"CMakeLists.txt",
			"README.md",
		},
		Libs: []string{"libccl"},
	}
}

var builtins = map[string]func() *Recipe{
	"initial": func() *Recipe {
		md := baseMetadata()
		md.Settings = []string{"os", "build_type", "arch"}
		return &Recipe{
			Metadata: md,
			Version:  "0.0.1",
			Steps: []Hook{
				HookGenerateToolchain,
				HookBuild,
				HookComputePackageID,
				HookDeclarePackageInfo,
			},
			Build:         BuildPolicy{Test: true, Install: true},
			PackageIDMode: packageid.ModeHeaderOnly,
		}
	},
	"hashed": func() *Recipe {
		md := baseMetadata()
		md.Settings = []string{"os", "compiler", "build_type", "arch"}
		return &Recipe{
			Metadata: md,
			Version:  "0.0.1",
			Requires: []Dependency{{
				Ref:     "xxhash/0.8.1",
				Options: map[string]bool{"shared": false, "build_utils": false},
			}},
			Steps: []Hook{
				HookConfigureDependencies,
				HookGenerateToolchain,
				HookGenerateDepsGraph,
				HookBuild,
				HookComputePackageID,
				HookDeclarePackageInfo,
			},
			Build:         BuildPolicy{Test: false, Install: true},
			PackageIDMode: packageid.ModeHeaderOnly,
		}
	},
	"current": func() *Recipe {
		md := baseMetadata()
		md.Settings = []string{"os", "compiler", "build_type", "arch"}
		return &Recipe{
			Metadata:    md,
			VersionFile: DefaultVersionFile,
			Steps: []Hook{
				HookResolveVersion,
				HookGenerateToolchain,
				HookGenerateDepsGraph,
				HookBuild,
				HookPackage,
				HookComputePackageID,
				HookDeclarePackageInfo,
			},
			Build:         BuildPolicy{Test: true, Install: false},
			PackageIDMode: packageid.ModeClear,
			Package: []CopyRule{
				{Pattern: "*.hpp", Src: "include", Dst: "include"},
			},
		}
	},
}

// Builtin returns a fresh copy of the named revision profile.
func Builtin(name string) (*Recipe, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames returns the built-in profile names sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
