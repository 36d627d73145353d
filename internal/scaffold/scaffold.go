package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/dmpack-labs/dmpack/internal/definition"
)

//go:embed scaffolds/*.tmpl
var scaffoldFS embed.FS

const templatePath = "scaffolds/deliverable.yaml.tmpl"

// Data holds all template variables available to the definition template.
type Data struct {
	Name        string // e.g., "ner-model"
	Version     string // Semver, e.g., "0.1.0"
	Description string
	Author      string
	ModelType   string // e.g., "keras_saved_model"
	ModelSource string // Relative to the definition file
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	Path     string
	Warnings []string
}

// NewData creates Data with defaults for everything but the name.
func NewData(name string) *Data {
	return &Data{
		Name:        name,
		Version:     "0.1.0",
		Description: fmt.Sprintf("Deliverable model %s", name),
		ModelType:   "keras_saved_model",
		ModelSource: "./model",
	}
}

// Generate writes deliverable.yaml into outputDir. It refuses to overwrite
// an existing definition. Schema problems in the rendered file are reported
// as warnings.
func Generate(data *Data, outputDir string) (*Result, error) {
	tmplBytes, err := scaffoldFS.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", templatePath, err)
	}

	tmpl, err := template.New(filepath.Base(templatePath)).Parse(string(tmplBytes))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(outputDir, definition.DefaultFileName)
	if _, err := os.Stat(outPath); err == nil {
		return nil, fmt.Errorf("%s already exists; remove it first", outPath)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outPath, err)
	}

	result := &Result{Path: outPath}

	valResult, valErr := definition.ValidateFile(outPath)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate definition: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			result.Warnings = append(result.Warnings, issue.String())
		}
	}

	return result, nil
}
