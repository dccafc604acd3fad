// Package manifest writes and reads the package metadata declared to the
// package manager once a recipe has run.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/cclrecipe/internal/fsutil"
)

// FileName is the manifest's name inside the package dir.
const FileName = "cclpackage.yaml"

// Manifest is the declared package metadata surface.
type Manifest struct {
	Name           string            `yaml:"name" json:"name"`
	Version        string            `yaml:"version" json:"version"`
	License        string            `yaml:"license,omitempty" json:"license,omitempty"`
	Author         string            `yaml:"author,omitempty" json:"author,omitempty"`
	URL            string            `yaml:"url,omitempty" json:"url,omitempty"`
	Description    string            `yaml:"description,omitempty" json:"description,omitempty"`
	Topics         []string          `yaml:"topics,omitempty" json:"topics,omitempty"`
	Settings       map[string]string `yaml:"settings,omitempty" json:"settings,omitempty"`
	ExportsSources []string          `yaml:"exports_sources,omitempty" json:"exports_sources,omitempty"`
	Requires       []string          `yaml:"requires,omitempty" json:"requires,omitempty"`
	PackageID      string            `yaml:"package_id,omitempty" json:"package_id,omitempty"`
	Libs           []string          `yaml:"libs" json:"libs"`
}

// Reference returns name/version.
func (m *Manifest) Reference() string {
	return m.Name + "/" + m.Version
}

// Emitter writes manifests as YAML.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a new manifest emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes m. Requires are sorted so equal manifests give equal bytes.
func (e *Emitter) Emit(m *Manifest) error {
	out := *m
	out.Requires = append([]string(nil), m.Requires...)
	sort.Strings(out.Requires)
	if out.Libs == nil {
		out.Libs = []string{}
	}

	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return enc.Close()
}

// Parser reads manifests written by Emitter.
type Parser struct {
	r io.Reader
}

// NewParser creates a new manifest parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Parse decodes one manifest.
func (p *Parser) Parse() (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(p.r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	if m.Name == "" || m.Version == "" {
		return nil, fmt.Errorf("reading manifest: name and version are required")
	}
	return &m, nil
}

// WriteFile emits m to path, replacing any earlier manifest.
func WriteFile(path string, m *Manifest) error {
	var buf bytes.Buffer
	if err := NewEmitter(&buf).Emit(m); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, buf.Bytes(), 0644)
}
