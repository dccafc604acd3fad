package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	cerrors "github.com/frederic-klein/cclrecipe/internal/errors"
	"github.com/frederic-klein/cclrecipe/internal/fsutil"
	"github.com/frederic-klein/cclrecipe/internal/manifest"
	"github.com/frederic-klein/cclrecipe/internal/packageid"
	"github.com/frederic-klein/cclrecipe/internal/recipe"
	"github.com/frederic-klein/cclrecipe/internal/versionfile"
)

var (
	// ErrBuildStepFailed wraps a failed configure, compile, test or install.
	ErrBuildStepFailed = errors.New("build step failed")
	// ErrFileSelection wraps a failure to find or copy package files.
	ErrFileSelection = errors.New("file selection failed")
)

// Driver is the external build driver. Each call blocks until the step
// passes or fails.
type Driver interface {
	Configure(ctx context.Context) error
	Build(ctx context.Context) error
	Test(ctx context.Context) error
	Install(ctx context.Context) error
}

// Generator writes build-tool files. Generate must be safe to repeat.
type Generator interface {
	Generate(ctx context.Context) error
}

// Configurator sets boolean options on named dependencies.
type Configurator interface {
	SetOption(dep, name string, value bool)
	Flatten() map[string]string
}

// Lifecycle implements each hook's effect. It does not pick the order;
// that comes from the recipe's steps or the caller.
type Lifecycle struct {
	Driver       Driver
	Toolchain    Generator
	DepsGraph    Generator
	Configurator Configurator
	// Policy overrides the recipe's package_id_mode when set.
	Policy packageid.Policy
}

type handlerFunc func(l *Lifecycle, ctx context.Context, inv *Invocation) error

var handlers = map[recipe.Hook]handlerFunc{
	recipe.HookConfigureDependencies: (*Lifecycle).configureDependencies,
	recipe.HookResolveVersion:        (*Lifecycle).resolveVersion,
	recipe.HookGenerateToolchain:     (*Lifecycle).generateToolchain,
	recipe.HookGenerateDepsGraph:     (*Lifecycle).generateDepsGraph,
	recipe.HookBuild:                 (*Lifecycle).build,
	recipe.HookPackage:               (*Lifecycle).copyPackageFiles,
	recipe.HookComputePackageID:      (*Lifecycle).computePackageID,
	recipe.HookDeclarePackageInfo:    (*Lifecycle).declarePackageInfo,
}

// Run invokes a single hook to completion.
func (l *Lifecycle) Run(ctx context.Context, inv *Invocation, hook recipe.Hook) error {
	h, ok := handlers[hook]
	if !ok {
		return cerrors.New(cerrors.ErrCodeInvalidRecipe, fmt.Sprintf("unknown hook %q", hook))
	}

	logger := inv.Logger.With("hook", string(hook))
	logger.Debug("hook started")
	if err := h(l, ctx, inv); err != nil {
		logger.Error("hook failed", "error", err)
		return cerrors.WrapWithContext(classify(err), fmt.Sprintf("hook %s", hook), err,
			map[string]any{"hook": string(hook), "run": inv.ID})
	}
	logger.Debug("hook finished")
	return nil
}

// Execute validates steps and runs them top to bottom. The first failure
// ends the run; nothing is retried.
func (l *Lifecycle) Execute(ctx context.Context, inv *Invocation, steps []recipe.Hook) error {
	if err := ValidateSequence(steps); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidRecipe, "invalid step sequence", err)
	}

	inv.Logger.Info("running recipe", "steps", len(steps))
	for _, step := range steps {
		if err := l.Run(ctx, inv, step); err != nil {
			return err
		}
	}
	inv.Logger.Info("recipe finished", "package_id", inv.PackageID)
	return nil
}

// ValidateSequence checks the ordering constraints between hooks.
func ValidateSequence(steps []recipe.Hook) error {
	pos := make(map[recipe.Hook]int, len(steps))
	for i, s := range steps {
		if _, ok := handlers[s]; !ok {
			return fmt.Errorf("unknown step %q", s)
		}
		if _, dup := pos[s]; dup {
			return fmt.Errorf("step %q listed twice", s)
		}
		pos[s] = i
	}

	mustPrecede := []struct {
		before, after recipe.Hook
	}{
		{recipe.HookResolveVersion, recipe.HookComputePackageID},
		{recipe.HookResolveVersion, recipe.HookDeclarePackageInfo},
		{recipe.HookConfigureDependencies, recipe.HookGenerateDepsGraph},
		{recipe.HookConfigureDependencies, recipe.HookBuild},
		{recipe.HookGenerateToolchain, recipe.HookBuild},
		{recipe.HookGenerateDepsGraph, recipe.HookBuild},
		{recipe.HookComputePackageID, recipe.HookDeclarePackageInfo},
	}
	for _, c := range mustPrecede {
		b, okB := pos[c.before]
		a, okA := pos[c.after]
		if okB && okA && b > a {
			return fmt.Errorf("step %q must run before %q", c.before, c.after)
		}
	}
	return nil
}

func classify(err error) cerrors.ErrorCode {
	switch {
	case errors.Is(err, versionfile.ErrVersionFieldMissing):
		return cerrors.ErrCodeVersionFieldMissing
	case errors.Is(err, versionfile.ErrDeclarationUnreadable):
		return cerrors.ErrCodeDeclarationUnreadable
	case errors.Is(err, ErrBuildStepFailed):
		return cerrors.ErrCodeBuildStepFailed
	case errors.Is(err, ErrFileSelection):
		return cerrors.ErrCodeFileSelectionFailed
	default:
		return cerrors.ErrCodeInternal
	}
}

func (l *Lifecycle) configureDependencies(ctx context.Context, inv *Invocation) error {
	if l.Configurator == nil {
		return fmt.Errorf("no dependency configurator")
	}
	for _, d := range inv.Recipe.Requires {
		names := make([]string, 0, len(d.Options))
		for k := range d.Options {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			l.Configurator.SetOption(d.Name(), k, d.Options[k])
			inv.Logger.Debug("dependency option set", "dependency", d.Name(), "option", k, "value", d.Options[k])
		}
	}
	return nil
}

func (l *Lifecycle) resolveVersion(ctx context.Context, inv *Invocation) error {
	path := filepath.Join(inv.RecipeDir, inv.Recipe.VersionFile)
	v, err := versionfile.ResolveFile(path)
	if err != nil {
		return err
	}
	if err := inv.SetVersion(v); err != nil {
		return err
	}
	inv.Logger.Info("version resolved", "version", v.String(), "file", path)
	return nil
}

func (l *Lifecycle) generateToolchain(ctx context.Context, inv *Invocation) error {
	if l.Toolchain == nil {
		return fmt.Errorf("no toolchain generator")
	}
	return l.Toolchain.Generate(ctx)
}

func (l *Lifecycle) generateDepsGraph(ctx context.Context, inv *Invocation) error {
	if l.DepsGraph == nil {
		return fmt.Errorf("no dependency graph generator")
	}
	return l.DepsGraph.Generate(ctx)
}

func (l *Lifecycle) build(ctx context.Context, inv *Invocation) error {
	if l.Driver == nil {
		return fmt.Errorf("no build driver")
	}

	type subStep struct {
		name string
		fn   func(context.Context) error
	}
	steps := []subStep{
		{"configure", l.Driver.Configure},
		{"compile", l.Driver.Build},
	}
	if inv.Recipe.Build.Test {
		steps = append(steps, subStep{"test", l.Driver.Test})
	}
	if inv.Recipe.Build.Install {
		steps = append(steps, subStep{"install", l.Driver.Install})
	}

	for _, s := range steps {
		inv.Logger.Info("build step", "step", s.name)
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBuildStepFailed, s.name, err)
		}
	}
	return nil
}

func (l *Lifecycle) copyPackageFiles(ctx context.Context, inv *Invocation) error {
	for _, rule := range inv.Recipe.Package {
		src := filepath.Join(inv.SourceDir, rule.Src)
		dst := filepath.Join(inv.PackageDir, rule.Dst)
		if sameDir(src, dst) {
			return fmt.Errorf("%w: %s would copy %s onto itself", ErrFileSelection, rule.Pattern, src)
		}

		files, err := fsutil.FindFiles(src, rule.Pattern)
		if err != nil {
			return fmt.Errorf("%w: selecting %s in %s: %w", ErrFileSelection, rule.Pattern, src, err)
		}
		for _, rel := range files {
			if err := fsutil.CopyFile(filepath.Join(src, rel), filepath.Join(dst, rel)); err != nil {
				return fmt.Errorf("%w: %w", ErrFileSelection, err)
			}
		}
		inv.Logger.Info("package files copied", "pattern", rule.Pattern, "src", src, "dst", dst, "count", len(files))
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (l *Lifecycle) computePackageID(ctx context.Context, inv *Invocation) error {
	policy := l.Policy
	if policy == nil {
		p, err := packageid.PolicyFor(inv.Recipe.PackageIDMode)
		if err != nil {
			return err
		}
		policy = p
	}

	version, err := inv.Version()
	if err != nil {
		return err
	}

	var options map[string]string
	if l.Configurator != nil {
		options = l.Configurator.Flatten()
	}

	info := packageid.Info{
		Name:     inv.Recipe.Name,
		Version:  version,
		Settings: inv.Settings,
		Options:  options,
		Requires: inv.Recipe.RequireRefs(),
	}
	inv.PackageID = packageid.Compute(policy, info)
	inv.Logger.Info("package identity computed", "mode", policy.Mode(), "package_id", inv.PackageID)
	return nil
}

func (l *Lifecycle) declarePackageInfo(ctx context.Context, inv *Invocation) error {
	version, err := inv.Version()
	if err != nil {
		return err
	}

	rec := inv.Recipe
	m := &manifest.Manifest{
		Name:           rec.Name,
		Version:        version,
		License:        rec.License,
		Author:         rec.Author,
		URL:            rec.URL,
		Description:    rec.Description,
		Topics:         append([]string(nil), rec.Topics...),
		ExportsSources: append([]string(nil), rec.ExportsSources...),
		Requires:       rec.RequireRefs(),
		PackageID:      inv.PackageID,
		// Header-only, yet the conventional library name is still declared.
		Libs: append([]string{}, rec.Libs...),
	}
	if len(inv.Settings) > 0 {
		m.Settings = make(map[string]string, len(inv.Settings))
		for k, v := range inv.Settings {
			m.Settings[k] = v
		}
	}
	if len(m.Requires) == 0 {
		m.Requires = nil
	}

	path := filepath.Join(inv.PackageDir, manifest.FileName)
	if err := manifest.WriteFile(path, m); err != nil {
		return fmt.Errorf("declaring package info: %w", err)
	}
	inv.Manifest = m
	inv.Logger.Info("package info declared", "reference", m.Reference(), "libs", m.Libs)
	return nil
}
