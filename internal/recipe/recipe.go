package recipe

import (
	"fmt"
	"strings"

	"github.com/frederic-klein/cclrecipe/internal/packageid"
)

// Metadata is the static descriptive part of a recipe. It is never mutated
// while a recipe runs.
type Metadata struct {
	Name           string   `yaml:"name"`
	License        string   `yaml:"license,omitempty"`
	Author         string   `yaml:"author,omitempty"`
	URL            string   `yaml:"url,omitempty"`
	Description    string   `yaml:"description,omitempty"`
	Topics         []string `yaml:"topics,omitempty"`
	Settings       []string `yaml:"settings,omitempty"` // axes, e.g. os, compiler, build_type, arch
	ExportsSources []string `yaml:"exports_sources,omitempty"`
	Libs           []string `yaml:"libs,omitempty"`
}

// Dependency is an external package the recipe requires, with boolean
// options forced on it before the build.
type Dependency struct {
	Ref     string          `yaml:"ref"` // e.g. "xxhash/0.8.1"
	Options map[string]bool `yaml:"options,omitempty"`
}

// Name returns the package name part of the reference.
func (d Dependency) Name() string {
	name, _, _ := strings.Cut(d.Ref, "/")
	return name
}

// Version returns the version constraint part of the reference.
func (d Dependency) Version() string {
	_, version, _ := strings.Cut(d.Ref, "/")
	return version
}

// BuildPolicy selects the optional build sub-steps.
type BuildPolicy struct {
	Test    bool `yaml:"test"`
	Install bool `yaml:"install"`
}

// CopyRule selects files by pattern under Src and copies them under Dst.
type CopyRule struct {
	Pattern string `yaml:"pattern"` // matched against the file name, e.g. "*.hpp"
	Src     string `yaml:"src"`     // relative to the source dir
	Dst     string `yaml:"dst"`     // relative to the package dir
}

// Recipe is one revision of the package recipe.
type Recipe struct {
	Metadata `yaml:",inline"`

	Version       string         `yaml:"version,omitempty"`
	VersionFile   string         `yaml:"version_file,omitempty"` // relative to the recipe dir
	Requires      []Dependency   `yaml:"requires,omitempty"`
	Steps         []Hook         `yaml:"steps"`
	Build         BuildPolicy    `yaml:"build"`
	PackageIDMode packageid.Mode `yaml:"package_id_mode"`
	Package       []CopyRule     `yaml:"package,omitempty"`
}

// HasStep reports whether h is part of the recipe's step sequence.
func (r *Recipe) HasStep(h Hook) bool {
	for _, s := range r.Steps {
		if s == h {
			return true
		}
	}
	return false
}

// RequireRefs returns the dependency references in declaration order.
func (r *Recipe) RequireRefs() []string {
	refs := make([]string, 0, len(r.Requires))
	for _, d := range r.Requires {
		refs = append(refs, d.Ref)
	}
	return refs
}

// Validate checks the recipe for structural errors.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe has no name")
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %s declares no steps", r.Name)
	}

	seen := make(map[Hook]bool)
	for _, s := range r.Steps {
		if !s.Valid() {
			return fmt.Errorf("recipe %s: unknown step %q", r.Name, s)
		}
		if seen[s] {
			return fmt.Errorf("recipe %s: step %q listed twice", r.Name, s)
		}
		seen[s] = true
	}

	if r.HasStep(HookComputePackageID) && !r.PackageIDMode.Valid() {
		return fmt.Errorf("recipe %s: unknown package_id_mode %q, want one of %v", r.Name, r.PackageIDMode, packageid.Modes())
	}
	if r.HasStep(HookResolveVersion) && r.VersionFile == "" {
		return fmt.Errorf("recipe %s: resolve-version needs version_file", r.Name)
	}
	if r.HasStep(HookDeclarePackageInfo) && r.Version == "" && !r.HasStep(HookResolveVersion) {
		return fmt.Errorf("recipe %s: no version and no resolve-version step", r.Name)
	}

	for _, d := range r.Requires {
		if d.Name() == "" || d.Version() == "" {
			return fmt.Errorf("recipe %s: dependency %q is not name/version", r.Name, d.Ref)
		}
	}
	for i, c := range r.Package {
		if c.Pattern == "" {
			return fmt.Errorf("recipe %s: package rule %d has no pattern", r.Name, i)
		}
	}
	return nil
}
