package cmake

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/frederic-klein/cclrecipe/internal/fsutil"
	"github.com/frederic-klein/cclrecipe/internal/recipe"
)

const generatedHeader = "# Generated by cclrecipe. Do not edit.\n"

var toolchainTmpl = template.Must(template.New("toolchain").Parse(generatedHeader + `
set(CMAKE_BUILD_TYPE "{{.BuildType}}" CACHE STRING "" FORCE)
set(CMAKE_INSTALL_PREFIX "{{.PackageDir}}" CACHE PATH "" FORCE)
list(PREPEND CMAKE_PREFIX_PATH "{{.GeneratorsDir}}")
list(PREPEND CMAKE_MODULE_PATH "{{.GeneratorsDir}}")
{{- range .Settings}}
set(CCL_SETTING_{{.Key}} "{{.Value}}")
{{- end}}
{{- if .CC}}
set(CMAKE_C_COMPILER "{{.CC}}")
set(CMAKE_CXX_COMPILER "{{.CXX}}")
{{- end}}
{{- if .CppStd}}
set(CMAKE_CXX_STANDARD "{{.CppStd}}")
set(CMAKE_CXX_STANDARD_REQUIRED ON)
{{- end}}
`))

var depsConfigTmpl = template.Must(template.New("config").Parse(generatedHeader + `
set({{.Name}}_FOUND TRUE)
set({{.Name}}_VERSION "{{.Version}}")
{{- range .Options}}
set({{$.Name}}_OPTION_{{.Key}} {{.Value}})
{{- end}}
if(NOT TARGET {{.Name}}::{{.Name}})
  add_library({{.Name}}::{{.Name}} INTERFACE IMPORTED)
endif()
`))

var depsVersionTmpl = template.Must(template.New("version").Parse(generatedHeader + `
set(PACKAGE_VERSION "{{.Version}}")
if(PACKAGE_FIND_VERSION VERSION_GREATER PACKAGE_VERSION)
  set(PACKAGE_VERSION_COMPATIBLE FALSE)
else()
  set(PACKAGE_VERSION_COMPATIBLE TRUE)
  if(PACKAGE_FIND_VERSION STREQUAL PACKAGE_VERSION)
    set(PACKAGE_VERSION_EXACT TRUE)
  endif()
endif()
`))

type kv struct {
	Key   string
	Value string
}

// ToolchainGenerator writes the toolchain file consumed by Driver.Configure.
type ToolchainGenerator struct {
	layout   Layout
	settings recipe.Settings
}

// NewToolchainGenerator creates a toolchain generator for settings.
func NewToolchainGenerator(layout Layout, settings recipe.Settings) *ToolchainGenerator {
	return &ToolchainGenerator{layout: layout, settings: settings}
}

// Generate writes the toolchain file, replacing any earlier one.
func (g *ToolchainGenerator) Generate(ctx context.Context) error {
	data := struct {
		BuildType     string
		PackageDir    string
		GeneratorsDir string
		Settings      []kv
		CC            string
		CXX           string
		CppStd        string
	}{
		BuildType:     cmakeEscape(g.settings["build_type"]),
		PackageDir:    cmakeEscape(filepath.ToSlash(g.layout.PackageDir)),
		GeneratorsDir: cmakeEscape(filepath.ToSlash(g.layout.GeneratorsDir)),
		CppStd:        cmakeEscape(g.settings["compiler.cppstd"]),
	}
	if data.BuildType == "" {
		data.BuildType = "Release"
	}
	for _, k := range g.settings.Keys() {
		data.Settings = append(data.Settings, kv{Key: cmakeIdent(k), Value: cmakeEscape(g.settings[k])})
	}
	data.CC, data.CXX = compilers(g.settings["compiler"])

	var buf bytes.Buffer
	if err := toolchainTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering toolchain: %w", err)
	}
	if err := fsutil.WriteFileAtomic(g.layout.ToolchainFile(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing toolchain: %w", err)
	}
	return nil
}

// DepsGenerator writes a CMake package config pair for every dependency.
type DepsGenerator struct {
	layout  Layout
	deps    []recipe.Dependency
	options *Options
}

// NewDepsGenerator creates a dependency-graph generator. options is read
// at Generate time, after dependency configuration.
func NewDepsGenerator(layout Layout, deps []recipe.Dependency, options *Options) *DepsGenerator {
	return &DepsGenerator{layout: layout, deps: deps, options: options}
}

// Generate writes <dep>-config.cmake and <dep>-config-version.cmake for
// each dependency, replacing earlier ones.
func (g *DepsGenerator) Generate(ctx context.Context) error {
	for _, d := range g.deps {
		name := d.Name()
		opts := g.options.For(name)

		data := struct {
			Name    string
			Version string
			Options []kv
		}{Name: cmakeIdent(name), Version: cmakeEscape(d.Version())}
		for _, k := range sortedOptionNames(opts) {
			data.Options = append(data.Options, kv{Key: cmakeIdent(k), Value: cmakeBool(opts[k])})
		}

		files := []struct {
			tmpl *template.Template
			path string
		}{
			{depsConfigTmpl, filepath.Join(g.layout.GeneratorsDir, name+"-config.cmake")},
			{depsVersionTmpl, filepath.Join(g.layout.GeneratorsDir, name+"-config-version.cmake")},
		}
		for _, f := range files {
			var buf bytes.Buffer
			if err := f.tmpl.Execute(&buf, data); err != nil {
				return fmt.Errorf("rendering %s: %w", filepath.Base(f.path), err)
			}
			if err := fsutil.WriteFileAtomic(f.path, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", filepath.Base(f.path), err)
			}
		}
	}
	return nil
}

func compilers(compiler string) (cc, cxx string) {
	switch compiler {
	case "gcc":
		return "gcc", "g++"
	case "clang", "apple-clang":
		return "clang", "clang++"
	default:
		return "", ""
	}
}

// cmakeIdent turns a setting key such as compiler.version into compiler_version.
func cmakeIdent(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

var cmakeEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`)

// cmakeEscape makes s safe inside a quoted CMake argument.
func cmakeEscape(s string) string {
	return cmakeEscaper.Replace(s)
}

func cmakeBool(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
