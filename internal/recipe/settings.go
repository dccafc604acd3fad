package recipe

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Settings holds the values of the settings axes for one invocation.
// Sub-settings use dotted keys, e.g. compiler.version.
type Settings map[string]string

// ParseSettings parses key=value pairs.
func ParseSettings(pairs []string) (Settings, error) {
	s := make(Settings, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid setting %q, want key=value", p)
		}
		s[k] = strings.TrimSpace(v)
	}
	return s, nil
}

// DefaultSettings describes the host with a Release build type.
func DefaultSettings() Settings {
	return Settings{
		"os":         hostOS(runtime.GOOS),
		"arch":       hostArch(runtime.GOARCH),
		"build_type": "Release",
	}
}

// Merge returns a copy of s overlaid with o.
func (s Settings) Merge(o Settings) Settings {
	out := make(Settings, len(s)+len(o))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Restrict keeps only the declared axes and their sub-settings.
func (s Settings) Restrict(axes []string) Settings {
	out := make(Settings)
	for k, v := range s {
		root, _, _ := strings.Cut(k, ".")
		for _, a := range axes {
			if root == a {
				out[k] = v
				break
			}
		}
	}
	return out
}

// Keys returns the setting names sorted.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hostOS(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "Macos"
	case "windows":
		return "Windows"
	case "freebsd":
		return "FreeBSD"
	default:
		return goos
	}
}

func hostArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "armv8"
	default:
		return goarch
	}
}
