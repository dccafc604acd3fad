package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func TestCreate(t *testing.T) {
	// Arrange
	src := createTestTree(t, map[string]string{
		"include/ccl/vector.hpp": "#pragma once\n",
		"include/ccl/ring.hpp":   "#pragma once\n",
		"cclpackage.yaml":        "name: libccl\n",
	})
	dest := filepath.Join(t.TempDir(), FileName("libccl", "1.4.20"))

	// Act
	err := Create(src, dest)

	// Assert
	require.NoError(t, err)
	names, err := List(dest)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"cclpackage.yaml",
		"include/ccl/ring.hpp",
		"include/ccl/vector.hpp",
	}, names)
}

func TestCreate_Deterministic(t *testing.T) {
	src := createTestTree(t, map[string]string{
		"a.hpp":     "a",
		"sub/b.hpp": "b",
	})
	out := t.TempDir()
	first := filepath.Join(out, "first.tgz")
	second := filepath.Join(out, "second.tgz")

	require.NoError(t, Create(src, first))
	require.NoError(t, Create(src, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestCreate_MissingSource(t *testing.T) {
	err := Create(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "out.tgz"))

	require.Error(t, err)
}

func TestList_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tgz")
	require.NoError(t, os.WriteFile(path, []byte("not a tarball"), 0644))

	_, err := List(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompressing archive")
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "libccl-0.0.1.tgz", FileName("libccl", "0.0.1"))
}
