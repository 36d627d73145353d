// Package metadata implements the metadata collaborator of a deliverable:
// identity, version, labels, and free-form information about the model.
package metadata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

// DescriptorVersion is the format version of the metadata descriptor.
const DescriptorVersion = "1.0"

// FileName is the asset written by Serialize.
const FileName = "metadata.yaml"

// Info is the document written to metadata.yaml.
type Info struct {
	ID          string            `yaml:"id"`
	Version     string            `yaml:"version"`
	Description string            `yaml:"description,omitempty"`
	Author      string            `yaml:"author,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Extra       map[string]any    `yaml:"extra,omitempty"`
}

// Descriptor is embedded into the package manifest.
type Descriptor struct {
	Version string `json:"version"`
	File    string `json:"file"`
}

// Builder collects package metadata.
type Builder struct {
	info Info
	deps []string
}

// NewBuilder returns a Builder for the model identified by id at version.
// The version must be a valid semantic version.
func NewBuilder(id, version string) (*Builder, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("metadata id is required")
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid metadata version %q: %w", version, err)
	}

	return &Builder{info: Info{ID: id, Version: v.String()}}, nil
}

// SetDescription sets the human-readable description.
func (b *Builder) SetDescription(s string) { b.info.Description = s }

// SetAuthor sets the author.
func (b *Builder) SetAuthor(s string) { b.info.Author = s }

// SetLabel adds or replaces a label.
func (b *Builder) SetLabel(key, value string) {
	if b.info.Labels == nil {
		b.info.Labels = make(map[string]string)
	}
	b.info.Labels[key] = value
}

// SetExtra stores an arbitrary value under key.
func (b *Builder) SetExtra(key string, value any) {
	if b.info.Extra == nil {
		b.info.Extra = make(map[string]any)
	}
	b.info.Extra[key] = value
}

// AddDependency declares runtime dependencies of the metadata component.
func (b *Builder) AddDependency(names ...string) {
	b.deps = append(b.deps, names...)
}

// Serialize writes metadata.yaml into dir.
func (b *Builder) Serialize(dir string) (any, error) {
	data, err := yaml.Marshal(b.info)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return Descriptor{Version: DescriptorVersion, File: FileName}, nil
}

// Dependencies returns the declared dependencies.
func (b *Builder) Dependencies() []string {
	return append([]string(nil), b.deps...)
}

// Read loads metadata.yaml from a serialized metadata asset directory.
func Read(dir string) (*Info, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var info Info
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &info, nil
}
