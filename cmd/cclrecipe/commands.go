package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/cclrecipe/internal/archive"
	"github.com/frederic-klein/cclrecipe/internal/cmake"
	"github.com/frederic-klein/cclrecipe/internal/lifecycle"
	"github.com/frederic-klein/cclrecipe/internal/manifest"
	"github.com/frederic-klein/cclrecipe/internal/recipe"
	"github.com/frederic-klein/cclrecipe/internal/versionfile"
)

func newVersionCmd() *cobra.Command {
	var recipeDir, versionFile string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Resolve the library version from its CMake declaration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := versionfile.ResolveFile(filepath.Join(recipeDir, versionFile))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}

	cmd.Flags().StringVar(&recipeDir, "recipe-dir", ".", "Directory the version file is relative to")
	cmd.Flags().StringVar(&versionFile, "version-file", recipe.DefaultVersionFile, "Version declaration file")
	return cmd
}

type createOptions struct {
	recipe     string
	settings   []string
	recipeDir  string
	sourceDir  string
	buildDir   string
	packageDir string
	archiveDir string
}

func newCreateCmd() *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Run the recipe's lifecycle and produce a package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.recipe, "recipe", "r", "current", "Built-in profile name or recipe file")
	cmd.Flags().StringArrayVarP(&opts.settings, "setting", "s", nil, "Setting as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.recipeDir, "recipe-dir", ".", "Recipe directory")
	cmd.Flags().StringVar(&opts.sourceDir, "source", ".", "Library source directory")
	cmd.Flags().StringVar(&opts.buildDir, "build-dir", "./build", "Build directory")
	cmd.Flags().StringVar(&opts.packageDir, "package-dir", "./package", "Package output directory")
	cmd.Flags().StringVar(&opts.archiveDir, "archive", "", "Write a package tarball into this directory")
	return cmd
}

func runCreate(cmd *cobra.Command, opts *createOptions) error {
	rec, err := recipe.Resolve(opts.recipe)
	if err != nil {
		return fmt.Errorf("loading recipe: %w", err)
	}

	settings, err := hostSettings(opts.settings)
	if err != nil {
		return err
	}

	// cmake runs from the source dir, so every path handed to it is absolute.
	dirs := []*string{&opts.recipeDir, &opts.sourceDir, &opts.buildDir, &opts.packageDir}
	if opts.archiveDir != "" {
		dirs = append(dirs, &opts.archiveDir)
	}
	if err := absPaths(dirs...); err != nil {
		return err
	}

	layout := cmake.Layout{
		SourceDir:     opts.sourceDir,
		BuildDir:      opts.buildDir,
		GeneratorsDir: filepath.Join(opts.buildDir, "generators"),
		PackageDir:    opts.packageDir,
	}
	for _, dir := range []string{layout.BuildDir, layout.GeneratorsDir, layout.PackageDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}

	inv := lifecycle.NewInvocation(rec, settings, opts.recipeDir, layout.SourceDir, layout.PackageDir, slog.Default())

	options := cmake.NewOptions()
	runner := cmake.ExecRunner{Stdout: cmd.ErrOrStderr(), Stderr: cmd.ErrOrStderr()}
	lc := &lifecycle.Lifecycle{
		Driver:       cmake.NewDriver(runner, layout, inv.Settings["build_type"]),
		Toolchain:    cmake.NewToolchainGenerator(layout, inv.Settings),
		DepsGraph:    cmake.NewDepsGenerator(layout, rec.Requires, options),
		Configurator: options,
	}

	if err := lc.Execute(cmd.Context(), inv, rec.Steps); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if inv.Manifest != nil {
		fmt.Fprintf(out, "Created %s\n", inv.Manifest.Reference())
	}
	if inv.PackageID != "" {
		fmt.Fprintf(out, "Package ID: %s\n", inv.PackageID)
	}

	if opts.archiveDir != "" {
		ver, err := inv.Version()
		if err != nil {
			return err
		}
		dest := filepath.Join(opts.archiveDir, archive.FileName(rec.Name, ver))
		if err := archive.Create(layout.PackageDir, dest); err != nil {
			return fmt.Errorf("archiving package: %w", err)
		}
		fmt.Fprintf(out, "Archived %s\n", dest)
	}
	return nil
}

func newPackageIDCmd() *cobra.Command {
	var (
		recipeName string
		settings   []string
		recipeDir  string
	)

	cmd := &cobra.Command{
		Use:   "package-id",
		Short: "Compute the package identity for the given settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recipe.Resolve(recipeName)
			if err != nil {
				return fmt.Errorf("loading recipe: %w", err)
			}
			s, err := hostSettings(settings)
			if err != nil {
				return err
			}

			if err := absPaths(&recipeDir); err != nil {
				return err
			}
			inv := lifecycle.NewInvocation(rec, s, recipeDir, "", "", slog.Default())
			lc := &lifecycle.Lifecycle{Configurator: cmake.NewOptions()}

			// Only the hooks the identity depends on.
			var steps []recipe.Hook
			for _, h := range []recipe.Hook{recipe.HookConfigureDependencies, recipe.HookResolveVersion} {
				if rec.HasStep(h) {
					steps = append(steps, h)
				}
			}
			steps = append(steps, recipe.HookComputePackageID)

			if err := lc.Execute(cmd.Context(), inv, steps); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), inv.PackageID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&recipeName, "recipe", "r", "current", "Built-in profile name or recipe file")
	cmd.Flags().StringArrayVarP(&settings, "setting", "s", nil, "Setting as key=value (repeatable)")
	cmd.Flags().StringVar(&recipeDir, "recipe-dir", ".", "Recipe directory")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <manifest>",
		Short: "Print a declared package manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening manifest: %w", err)
			}
			defer f.Close()

			m, err := manifest.NewParser(f).Parse()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				return manifest.NewEmitter(out).Emit(m)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			default:
				return fmt.Errorf("unknown format %q, want yaml or json", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "yaml", "Output format (yaml, json)")
	return cmd
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in recipe profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries := make([]profileSummary, 0)
			for _, name := range recipe.BuiltinNames() {
				rec, _ := recipe.Builtin(name)
				summaries = append(summaries, summarize(name, rec))
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(summaries); err != nil {
				return fmt.Errorf("encoding profiles: %w", err)
			}
			return enc.Close()
		},
	}
}

type profileSummary struct {
	Name          string        `yaml:"name"`
	Version       string        `yaml:"version,omitempty"`
	VersionFile   string        `yaml:"version_file,omitempty"`
	Steps         []recipe.Hook `yaml:"steps"`
	Test          bool          `yaml:"test"`
	Install       bool          `yaml:"install"`
	PackageIDMode string        `yaml:"package_id_mode,omitempty"`
}

func summarize(name string, rec *recipe.Recipe) profileSummary {
	return profileSummary{
		Name:          name,
		Version:       rec.Version,
		VersionFile:   rec.VersionFile,
		Steps:         rec.Steps,
		Test:          rec.Build.Test,
		Install:       rec.Build.Install,
		PackageIDMode: string(rec.PackageIDMode),
	}
}

// absPaths rewrites each path in place as an absolute path.
func absPaths(paths ...*string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}

// hostSettings overlays key=value pairs on the host defaults.
func hostSettings(pairs []string) (recipe.Settings, error) {
	overrides, err := recipe.ParseSettings(pairs)
	if err != nil {
		return nil, err
	}
	return recipe.DefaultSettings().Merge(overrides), nil
}
