package deliverable

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmpack-labs/dmpack/internal/logger"
)

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// Prepare removes any existing directory at exportDir and recreates it empty,
// including missing parents. Prior contents are destroyed.
func Prepare(exportDir string) error {
	if err := checkSafePath(exportDir); err != nil {
		return err
	}

	if err := os.RemoveAll(exportDir); err != nil {
		return &IOError{Op: "remove", Path: exportDir, Err: err}
	}

	if err := os.MkdirAll(exportDir, dirMode); err != nil {
		return &IOError{Op: "mkdir", Path: exportDir, Err: err}
	}

	return nil
}

// checkSafePath rejects paths whose removal would be catastrophic.
func checkSafePath(exportDir string) error {
	if exportDir == "" {
		return &IOError{Op: "remove", Path: exportDir, Err: ErrUnsafePath}
	}

	abs, err := filepath.Abs(exportDir)
	if err != nil {
		return &IOError{Op: "remove", Path: exportDir, Err: err}
	}

	if abs == filepath.VolumeName(abs)+string(filepath.Separator) {
		return &IOError{Op: "remove", Path: exportDir, Err: ErrUnsafePath}
	}

	return nil
}

// Builder accumulates collaborators for a single export directory.
// The zero value is not usable; create one with New.
type Builder struct {
	exportDir  string
	components Components
}

// New prepares exportDir (see Prepare) and returns a Builder targeting it.
func New(exportDir string) (*Builder, error) {
	if err := Prepare(exportDir); err != nil {
		return nil, err
	}
	return &Builder{exportDir: exportDir}, nil
}

// ExportDir returns the package root.
func (b *Builder) ExportDir() string { return b.exportDir }

// AddMetadata registers the metadata collaborator. The last call wins.
func (b *Builder) AddMetadata(c Collaborator) { b.components.Metadata = c }

// AddModel registers the model collaborator. The last call wins.
func (b *Builder) AddModel(c Collaborator) { b.components.Model = c }

// AddProcessor registers the processor collaborator. The last call wins.
func (b *Builder) AddProcessor(c Collaborator) { b.components.Processor = c }

// Save assembles the package from the registered collaborators.
func (b *Builder) Save(ctx context.Context) (*Manifest, error) {
	return Assemble(ctx, b.exportDir, b.components)
}

// Assemble serializes every collaborator into its asset subdirectory of
// exportDir and writes metadata.json. The directory is not wiped; call
// Prepare first for a clean package.
//
// Assembly fails with a *MissingCollaboratorError before touching the
// filesystem if any role is unset. Any later failure aborts assembly and may
// leave the directory partially populated.
func Assemble(ctx context.Context, exportDir string, c Components) (*Manifest, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	ctx = logger.WithKV(logger.WithName(ctx, "assembler"), "export_dir", exportDir)

	dependency := mergeDependencies(
		c.Metadata.Dependencies(),
		c.Model.Dependencies(),
		c.Processor.Dependencies(),
	)
	logger.DebugKV(ctx, "Gathered dependencies", "dependency", dependency)

	descriptors := make(map[Role]any, len(Roles))
	for _, role := range Roles {
		dir := AssetDir(exportDir, role)
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	for _, role := range Roles {
		dir := AssetDir(exportDir, role)
		logger.DebugKV(ctx, "Serializing component", "role", role, "dir", dir)

		desc, err := c.Get(role).Serialize(dir)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", role, err)
		}
		descriptors[role] = desc
	}

	m := &Manifest{
		Version:    FormatVersion,
		Dependency: dependency,
		Processor:  descriptors[RoleProcessor],
		Model:      descriptors[RoleModel],
		Metadata:   descriptors[RoleMetadata],
	}

	if err := writeManifest(exportDir, m); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Wrote manifest", "path", ManifestPath(exportDir), "dependencies", len(dependency))

	return m, nil
}

// writeManifest encodes m as indented JSON into the package root.
func writeManifest(exportDir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	path := ManifestPath(exportDir)
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
