package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/frederic-klein/cclrecipe/internal/manifest"
	"github.com/frederic-klein/cclrecipe/internal/recipe"
	"github.com/frederic-klein/cclrecipe/internal/versionfile"
)

var (
	// ErrVersionUnknown is returned when a hook needs the version before
	// one was resolved and the recipe declares no static version.
	ErrVersionUnknown = errors.New("version not resolved")
	// ErrVersionAlreadyResolved is returned when the version is written twice.
	ErrVersionAlreadyResolved = errors.New("version already resolved")
)

// Invocation is the state of one recipe run, passed explicitly to every
// hook. The resolved version is written once and read afterwards.
type Invocation struct {
	ID         string
	RecipeDir  string
	SourceDir  string
	PackageDir string
	Recipe     *recipe.Recipe
	Settings   recipe.Settings
	Logger     *slog.Logger

	// Set by hooks.
	PackageID string
	Manifest  *manifest.Manifest

	version versionfile.Version
}

// NewInvocation creates an invocation with a fresh run ID. Settings are
// restricted to the axes the recipe declares.
func NewInvocation(rec *recipe.Recipe, settings recipe.Settings, recipeDir, sourceDir, packageDir string, logger *slog.Logger) *Invocation {
	id := uuid.NewString()
	if logger == nil {
		logger = slog.Default()
	}
	return &Invocation{
		ID:         id,
		RecipeDir:  recipeDir,
		SourceDir:  sourceDir,
		PackageDir: packageDir,
		Recipe:     rec,
		Settings:   settings.Restrict(rec.Settings),
		Logger:     logger.With("run", id, "package", rec.Name),
	}
}

// SetVersion records the resolved version. It fails if one was already set.
func (inv *Invocation) SetVersion(v versionfile.Version) error {
	if !inv.version.IsZero() {
		return fmt.Errorf("%w: %s", ErrVersionAlreadyResolved, inv.version)
	}
	inv.version = v
	return nil
}

// ResolvedVersion returns the version written by resolve-version, if any.
func (inv *Invocation) ResolvedVersion() (versionfile.Version, bool) {
	return inv.version, !inv.version.IsZero()
}

// Version returns the resolved version, falling back to the recipe's
// static version.
func (inv *Invocation) Version() (string, error) {
	if !inv.version.IsZero() {
		return inv.version.String(), nil
	}
	if inv.Recipe.Version != "" {
		return inv.Recipe.Version, nil
	}
	return "", ErrVersionUnknown
}
