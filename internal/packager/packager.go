package packager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmpack-labs/dmpack/internal/definition"
	"github.com/dmpack-labs/dmpack/internal/deliverable"
	"github.com/dmpack-labs/dmpack/internal/logger"
	"github.com/dmpack-labs/dmpack/internal/metadata"
	"github.com/dmpack-labs/dmpack/internal/model"
	"github.com/dmpack-labs/dmpack/internal/processor"
)

// Options contains inputs for a packaging run.
type Options struct {
	// DefinitionPath is the deliverable definition file (YAML or TOML).
	DefinitionPath string
	// ExportDir is the package root. It is wiped before assembly.
	ExportDir string
}

// ErrInvalidDefinition wraps schema or semantic problems in a definition file.
var ErrInvalidDefinition = errors.New("invalid definition")

// Run validates the definition, prepares the export directory, and
// assembles the package.
func Run(ctx context.Context, opts *Options) (*deliverable.Manifest, error) {
	ctx = logger.WithName(ctx, "packager")

	def, err := Load(opts.DefinitionPath)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Loaded definition", "name", def.Name, "version", def.Version, "path", def.Path)

	if err := checkExportDir(def, opts.ExportDir); err != nil {
		return nil, err
	}

	components, err := Components(def)
	if err != nil {
		return nil, fmt.Errorf("building collaborators: %w", err)
	}

	mdl, _ := components.Model.(*model.Builder)
	if mdl != nil {
		logger.DebugKV(ctx, "Model source", "type", mdl.Type(), "source", mdl.Source())
	}

	b, err := deliverable.New(opts.ExportDir)
	if err != nil {
		return nil, fmt.Errorf("preparing %s: %w", opts.ExportDir, err)
	}

	b.AddMetadata(components.Metadata)
	b.AddModel(components.Model)
	b.AddProcessor(components.Processor)

	m, err := b.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", opts.ExportDir, err)
	}

	if mdl != nil {
		for _, rel := range mdl.Skipped() {
			logger.WarnKV(ctx, "Skipped model entry that is not a regular file", "path", rel)
		}
	}

	logger.InfoKV(ctx, "Package assembled", "export_dir", opts.ExportDir, "dependency", m.Dependency)

	return m, nil
}

// checkExportDir rejects export directories whose wipe would destroy the
// definition or the model source, and those inside the model source, which
// the model copy would otherwise walk into.
func checkExportDir(def *definition.Definition, exportDir string) error {
	export, err := filepath.Abs(exportDir)
	if err != nil {
		return fmt.Errorf("resolving export dir %s: %w", exportDir, err)
	}
	source, err := filepath.Abs(def.ModelSource())
	if err != nil {
		return fmt.Errorf("resolving model source %s: %w", def.ModelSource(), err)
	}
	defDir, err := filepath.Abs(filepath.Dir(def.Path))
	if err != nil {
		return fmt.Errorf("resolving definition dir: %w", err)
	}

	switch {
	case within(export, source):
		return fmt.Errorf("%w %s: export dir %s contains the model source %s", ErrInvalidDefinition, def.Path, export, source)
	case within(export, defDir):
		return fmt.Errorf("%w %s: export dir %s contains the definition file", ErrInvalidDefinition, def.Path, export)
	case within(source, export):
		return fmt.Errorf("%w %s: export dir %s is inside the model source %s", ErrInvalidDefinition, def.Path, export, source)
	}
	return nil
}

// within reports whether path equals parent or lies beneath it. Both must
// be absolute and clean.
func within(parent, path string) bool {
	rel, err := filepath.Rel(parent, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Load parses a definition file and rejects it if schema validation or
// semantic checks fail.
func Load(path string) (*definition.Definition, error) {
	result, err := definition.ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		issues := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			issues = append(issues, issue.String())
		}
		return nil, fmt.Errorf("%w %s:\n  %s", ErrInvalidDefinition, path, strings.Join(issues, "\n  "))
	}

	def, err := definition.Parse(path)
	if err != nil {
		return nil, err
	}

	if err := def.Check(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidDefinition, path, err)
	}

	return def, nil
}

// Components builds the three collaborators described by def.
func Components(def *definition.Definition) (deliverable.Components, error) {
	meta, err := metadata.NewBuilder(def.Name, def.Version)
	if err != nil {
		return deliverable.Components{}, err
	}
	meta.SetDescription(def.Description)
	meta.SetAuthor(def.Author)
	for k, v := range def.Labels {
		meta.SetLabel(k, v)
	}
	for k, v := range def.Extra {
		meta.SetExtra(k, v)
	}
	meta.AddDependency(def.Dependencies...)

	mdl, err := model.NewBuilder(def.Model.Type, def.Model.Version, def.ModelSource())
	if err != nil {
		return deliverable.Components{}, err
	}
	mdl.AddDependency(def.Model.Dependencies...)

	proc := processor.NewBuilder()
	for _, p := range def.Processors {
		if err := proc.Add(processor.Instance{
			Name:         p.Name,
			Class:        p.Class,
			Parameters:   p.Parameters,
			Dependencies: p.Dependencies,
		}); err != nil {
			return deliverable.Components{}, err
		}
	}
	for _, name := range def.Pipeline.Pre {
		if err := proc.AddPre(name); err != nil {
			return deliverable.Components{}, err
		}
	}
	for _, name := range def.Pipeline.Post {
		if err := proc.AddPost(name); err != nil {
			return deliverable.Components{}, err
		}
	}

	return deliverable.Components{
		Metadata:  meta,
		Model:     mdl,
		Processor: proc,
	}, nil
}
