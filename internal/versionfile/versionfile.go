// Package versionfile resolves the library version from a CMake declaration
// file such as
//
//	set(CCL_VERSION_MAJOR 1)
//	set(CCL_VERSION_MINOR 4)
//	set(CCL_VERSION_PATCH 20)
package versionfile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// ErrVersionFieldMissing is returned when MAJOR, MINOR or PATCH cannot be
	// found in the declaration text.
	ErrVersionFieldMissing = errors.New("could not determine version")
	// ErrDeclarationUnreadable is returned when the declaration file cannot
	// be read at all.
	ErrDeclarationUnreadable = errors.New("version declaration unreadable")
)

// keys in the order they are rendered.
var keys = []string{"MAJOR", "MINOR", "PATCH"}

var (
	fieldRes = map[string]*regexp.Regexp{
		"MAJOR": fieldPattern("MAJOR"),
		"MINOR": fieldPattern("MINOR"),
		"PATCH": fieldPattern("PATCH"),
	}
	digitRe = regexp.MustCompile(`^\d+$`)
)

// fieldPattern matches `( <prefix>KEY <digits> )` with any whitespace. The
// prefix is an identifier tail such as CCL_VERSION_.
func fieldPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`\(\s*[A-Za-z0-9_]*` + key + `\s+(\d+)\s*\)`)
}

// Version is a resolved three-part version. Components keep the exact
// digits found in the declaration.
type Version struct {
	Major string
	Minor string
	Patch string
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return v.Major + "." + v.Minor + "." + v.Patch
}

// IsZero reports whether v has not been resolved.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Resolve extracts the version from declaration text. Each key is searched
// independently over the whole text and the first occurrence wins.
func Resolve(text string) (Version, error) {
	var missing []string
	found := make([]string, len(keys))
	for i, key := range keys {
		m := fieldRes[key].FindStringSubmatch(text)
		if m == nil || !digitRe.MatchString(m[1]) {
			missing = append(missing, key)
			continue
		}
		found[i] = m[1]
	}
	if len(missing) > 0 {
		return Version{}, fmt.Errorf("%w: missing %s", ErrVersionFieldMissing, strings.Join(missing, ", "))
	}
	return Version{Major: found[0], Minor: found[1], Patch: found[2]}, nil
}

// ResolveFile reads path and resolves the version it declares.
func ResolveFile(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Version{}, fmt.Errorf("%w: %w", ErrDeclarationUnreadable, err)
	}
	v, err := Resolve(string(data))
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}
