package definition

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/dmpack-labs/dmpack/internal/validate"
	"go.yaml.in/yaml/v3"
)

// FormatOf returns the document format implied by the file extension.
func FormatOf(path string) (validate.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return validate.FormatYAML, nil
	case ".toml":
		return validate.FormatTOML, nil
	case ".json":
		return validate.FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported definition file extension %q", filepath.Ext(path))
	}
}

// Parse reads a definition file. The format is chosen by extension.
func Parse(path string) (*Definition, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	def, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing definition %s: %w", path, err)
	}
	def.Path = path

	return def, nil
}

// Decode parses definition bytes in the given format.
func Decode(data []byte, format validate.Format) (*Definition, error) {
	var def Definition

	switch format {
	case validate.FormatYAML, validate.FormatJSON:
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	case validate.FormatTOML:
		if err := toml.Unmarshal(data, &def); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported definition format %q", format)
	}

	return &def, nil
}

// Check performs semantic checks the schema cannot express: the version is
// a semantic version, processor names are unique, and the pipeline only
// references declared processors.
func (d *Definition) Check() error {
	var errs []error

	if _, err := semver.NewVersion(strings.TrimPrefix(d.Version, "v")); err != nil {
		errs = append(errs, fmt.Errorf("version %q is not a semantic version: %w", d.Version, err))
	}

	declared := make(map[string]bool, len(d.Processors))
	for _, p := range d.Processors {
		if declared[p.Name] {
			errs = append(errs, fmt.Errorf("processor %q declared more than once", p.Name))
		}
		declared[p.Name] = true
	}

	for _, stage := range []struct {
		name  string
		names []string
	}{{"pre", d.Pipeline.Pre}, {"post", d.Pipeline.Post}} {
		for _, name := range stage.names {
			if !declared[name] {
				errs = append(errs, fmt.Errorf("pipeline.%s references undeclared processor %q", stage.name, name))
			}
		}
	}

	return errors.Join(errs...)
}

// ModelSource returns the model source directory. Relative paths are
// resolved against the directory containing the definition file.
func (d *Definition) ModelSource() string {
	if filepath.IsAbs(d.Model.Source) || d.Path == "" {
		return d.Model.Source
	}
	return filepath.Join(filepath.Dir(d.Path), d.Model.Source)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
