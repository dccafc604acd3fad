// Package packageid computes the package identity: the key deciding whether
// two builds are the same distributable artifact.
package packageid

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Mode selects how much of the build configuration takes part in the identity.
type Mode string

const (
	// ModeFull keeps settings, options and requires.
	ModeFull Mode = "full"
	// ModeHeaderOnly collapses settings and options, since a header-only
	// artifact has no binary variance.
	ModeHeaderOnly Mode = "header-only"
	// ModeClear discards settings, options and requires.
	ModeClear Mode = "clear"
)

// Modes returns every supported mode.
func Modes() []Mode {
	return []Mode{ModeFull, ModeHeaderOnly, ModeClear}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeFull, ModeHeaderOnly, ModeClear:
		return true
	default:
		return false
	}
}

func (m Mode) String() string {
	return string(m)
}

// Info is the input to the identity computation.
type Info struct {
	Name     string
	Version  string
	Settings map[string]string
	Options  map[string]string // "dep:option" -> value
	Requires []string          // dependency references
}

// Policy rewrites an Info before it is hashed.
type Policy interface {
	Mode() Mode
	Apply(Info) Info
}

type fullPolicy struct{}

func (fullPolicy) Mode() Mode { return ModeFull }

func (fullPolicy) Apply(info Info) Info { return info }

type headerOnlyPolicy struct{}

func (headerOnlyPolicy) Mode() Mode { return ModeHeaderOnly }

func (headerOnlyPolicy) Apply(info Info) Info {
	info.Settings = nil
	info.Options = nil
	return info
}

type clearPolicy struct{}

func (clearPolicy) Mode() Mode { return ModeClear }

func (clearPolicy) Apply(info Info) Info {
	info.Settings = nil
	info.Options = nil
	info.Requires = nil
	return info
}

// PolicyFor returns the policy implementing mode.
func PolicyFor(mode Mode) (Policy, error) {
	switch mode {
	case ModeFull:
		return fullPolicy{}, nil
	case ModeHeaderOnly:
		return headerOnlyPolicy{}, nil
	case ModeClear:
		return clearPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown package id mode %q", mode)
	}
}

// Compute applies p to info and returns the resulting identity.
func Compute(p Policy, info Info) string {
	return p.Apply(info).ID()
}

// ID hashes the canonical rendering of info.
func (info Info) ID() string {
	sum := sha1.Sum([]byte(info.Canonical()))
	return hex.EncodeToString(sum[:])
}

// Canonical renders info with every section sorted so equal inputs always
// produce equal text.
func (info Info) Canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[reference]\n%s/%s\n", info.Name, info.Version)

	b.WriteString("[settings]\n")
	for _, k := range sortedKeys(info.Settings) {
		fmt.Fprintf(&b, "%s=%s\n", k, info.Settings[k])
	}

	b.WriteString("[options]\n")
	for _, k := range sortedKeys(info.Options) {
		fmt.Fprintf(&b, "%s=%s\n", k, info.Options[k])
	}

	b.WriteString("[requires]\n")
	reqs := append([]string(nil), info.Requires...)
	sort.Strings(reqs)
	for _, r := range reqs {
		fmt.Fprintf(&b, "%s\n", r)
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
