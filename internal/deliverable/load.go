package deliverable

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/dmpack-labs/dmpack/internal/validate"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

// supportedFormats is the range of manifest format versions Load accepts.
const supportedFormats = "^1"

var (
	compiledSchema *validate.Schema
	compileOnce    sync.Once
	compileErr     error
)

func getSchema() (*validate.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = validate.Compile("manifest.schema.json", schemaBytes)
	})
	return compiledSchema, compileErr
}

// Load reads and decodes the manifest of the package at exportDir.
// Manifests with a format version outside 1.x are rejected with
// ErrIncompatibleVersion.
func Load(exportDir string) (*Manifest, error) {
	path := ManifestPath(exportDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}

	if err := CheckFormat(m.Version); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	return &m, nil
}

// CheckFormat reports whether version is a supported manifest format version.
func CheckFormat(version string) error {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatibleVersion, version, err)
	}

	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return fmt.Errorf("parsing format constraint: %w", err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleVersion, version, supportedFormats)
	}
	return nil
}

// Validate checks manifest JSON against the embedded manifest schema.
func Validate(data []byte) (*validate.Result, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return schema.Validate(data, validate.FormatJSON)
}

// ValidateDir validates the manifest of the package at exportDir and checks
// that every asset subdirectory exists.
func ValidateDir(exportDir string) (*validate.Result, error) {
	path := ManifestPath(exportDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	result, err := Validate(data)
	if err != nil {
		return nil, err
	}

	for _, role := range Roles {
		dir := AssetDir(exportDir, role)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			result.Valid = false
			result.Issues = append(result.Issues, validate.Issue{
				Path:    "/asset/" + string(role),
				Message: fmt.Sprintf("asset directory %s is missing", dir),
				Keyword: "layout",
			})
		}
	}

	return result, nil
}
