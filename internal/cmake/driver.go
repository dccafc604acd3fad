package cmake

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
)

// ToolchainFileName is the toolchain file written into the generators dir.
const ToolchainFileName = "conan_toolchain.cmake"

// Layout names the directories one recipe invocation works in.
type Layout struct {
	SourceDir     string
	BuildDir      string
	GeneratorsDir string
	PackageDir    string
}

// ToolchainFile returns the path of the generated toolchain file.
func (l Layout) ToolchainFile() string {
	return filepath.Join(l.GeneratorsDir, ToolchainFileName)
}

// Runner runs an external command in dir and reports only pass or fail.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	if cmd.Stderr == nil {
		cmd.Stderr = io.Discard
	}
	return cmd.Run()
}

// Driver drives CMake through configure, build, test and install.
type Driver struct {
	runner    Runner
	layout    Layout
	buildType string
}

// NewDriver creates a driver for layout. An empty buildType means Release.
func NewDriver(runner Runner, layout Layout, buildType string) *Driver {
	if buildType == "" {
		buildType = "Release"
	}
	return &Driver{
		runner:    runner,
		layout:    layout,
		buildType: buildType,
	}
}

// Configure runs cmake against the generated toolchain.
func (d *Driver) Configure(ctx context.Context) error {
	return d.run(ctx, "cmake",
		"-S", d.layout.SourceDir,
		"-B", d.layout.BuildDir,
		"-DCMAKE_TOOLCHAIN_FILE="+d.layout.ToolchainFile(),
		"-DCMAKE_BUILD_TYPE="+d.buildType,
		"-DCMAKE_INSTALL_PREFIX="+d.layout.PackageDir,
	)
}

// Build compiles the configured tree.
func (d *Driver) Build(ctx context.Context) error {
	return d.run(ctx, "cmake", "--build", d.layout.BuildDir, "--config", d.buildType)
}

// Test runs the test suite registered with CTest.
func (d *Driver) Test(ctx context.Context) error {
	return d.run(ctx, "ctest", "--test-dir", d.layout.BuildDir, "-C", d.buildType, "--output-on-failure")
}

// Install installs into the package dir.
func (d *Driver) Install(ctx context.Context) error {
	return d.run(ctx, "cmake", "--install", d.layout.BuildDir, "--config", d.buildType)
}

func (d *Driver) run(ctx context.Context, name string, args ...string) error {
	if err := d.runner.Run(ctx, d.layout.SourceDir, name, args...); err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}
