package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    Settings
		wantErr bool
	}{
		{
			name:  "empty",
			pairs: nil,
			want:  Settings{},
		},
		{
			name:  "several",
			pairs: []string{"os=Linux", "compiler=gcc", "compiler.version=13", " build_type = Debug "},
			want:  Settings{"os": "Linux", "compiler": "gcc", "compiler.version": "13", "build_type": "Debug"},
		},
		{
			name:    "missing equals",
			pairs:   []string{"os"},
			wantErr: true,
		},
		{
			name:    "empty key",
			pairs:   []string{"=Linux"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSettings(tt.pairs)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettings_Restrict(t *testing.T) {
	s := Settings{
		"os":               "Linux",
		"compiler":         "gcc",
		"compiler.version": "13",
		"build_type":       "Release",
		"arch":             "x86_64",
	}

	got := s.Restrict([]string{"os", "build_type", "arch"})

	assert.Equal(t, Settings{"os": "Linux", "build_type": "Release", "arch": "x86_64"}, got)
	assert.Equal(t, []string{"arch", "build_type", "os"}, got.Keys())
}

func TestSettings_Merge(t *testing.T) {
	base := Settings{"os": "Linux", "build_type": "Release"}

	got := base.Merge(Settings{"build_type": "Debug"})

	assert.Equal(t, Settings{"os": "Linux", "build_type": "Debug"}, got)
	assert.Equal(t, "Release", base["build_type"])
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.NotEmpty(t, s["os"])
	assert.NotEmpty(t, s["arch"])
	assert.Equal(t, "Release", s["build_type"])
}

func TestHook_Valid(t *testing.T) {
	for _, h := range Hooks() {
		assert.True(t, h.Valid(), h.String())
	}
	assert.False(t, Hook("deploy").Valid())
}
