package recipe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a YAML recipe.
func Parse(r io.Reader) (*Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rec Recipe
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing recipe: empty document")
		}
		return nil, fmt.Errorf("parsing recipe: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Load reads a recipe from a YAML file.
func Load(path string) (*Recipe, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recipe: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Resolve returns the built-in profile called nameOrPath, or loads it as a
// file when no such profile exists.
func Resolve(nameOrPath string) (*Recipe, error) {
	if rec, ok := Builtin(nameOrPath); ok {
		return rec, nil
	}
	return Load(nameOrPath)
}
