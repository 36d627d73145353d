package model

import (
	"fmt"
	"os"
	"strings"
)

// DataDir is the subdirectory of the model asset directory holding the copied files.
const DataDir = "data"

// Descriptor is embedded into the package manifest.
type Descriptor struct {
	Type    string            `json:"type"`
	Version string            `json:"version"`
	Data    string            `json:"data"`
	Files   map[string]string `json:"files"`
}

// Builder copies a model directory into a package.
type Builder struct {
	modelType string
	version   string
	source    string
	deps      []string
	skipped   []string
}

// NewBuilder returns a Builder for a model of the given type (e.g.
// "keras_saved_model") whose files live in source.
func NewBuilder(modelType, version, source string) (*Builder, error) {
	if strings.TrimSpace(modelType) == "" {
		return nil, fmt.Errorf("model type is required")
	}
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("model source directory is required")
	}
	if version == "" {
		version = "1.0"
	}
	return &Builder{modelType: modelType, version: version, source: source}, nil
}

// Type returns the model type.
func (b *Builder) Type() string { return b.modelType }

// Source returns the model source directory.
func (b *Builder) Source() string { return b.source }

// Skipped returns the source entries left out by the last Serialize
// because they are neither directories nor regular files (symlinks,
// sockets, devices).
func (b *Builder) Skipped() []string {
	return append([]string(nil), b.skipped...)
}

// AddDependency declares runtime dependencies required to load the model.
func (b *Builder) AddDependency(names ...string) {
	b.deps = append(b.deps, names...)
}

// Dependencies returns the declared dependencies.
func (b *Builder) Dependencies() []string {
	return append([]string(nil), b.deps...)
}

// Serialize copies the source directory into dir/data and returns a
// descriptor listing every copied file with its checksum.
func (b *Builder) Serialize(dir string) (any, error) {
	info, err := os.Stat(b.source)
	if err != nil {
		return nil, fmt.Errorf("model source %s: %w", b.source, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("model source %s is not a directory", b.source)
	}

	dst := joinData(dir)
	c, err := newCopier(dst)
	if err != nil {
		return nil, err
	}
	if err := c.copyDir(b.source, dst, ""); err != nil {
		return nil, fmt.Errorf("copying %s to %s: %w", b.source, dst, err)
	}
	b.skipped = c.skipped

	return Descriptor{
		Type:    b.modelType,
		Version: b.version,
		Data:    DataDir,
		Files:   c.sums,
	}, nil
}
