package definition

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/dmpack-labs/dmpack/internal/validate"
)

//go:embed schema/definition.schema.json
var schemaBytes []byte

var (
	compiledSchema *validate.Schema
	compileOnce    sync.Once
	compileErr     error
)

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*validate.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = validate.Compile("definition.schema.json", schemaBytes)
	})
	return compiledSchema, compileErr
}

// Validate validates raw definition bytes against the definition JSON schema.
// The error return is for decoding or schema compilation failures.
// Validation issues are returned in the Result.
func Validate(data []byte, format validate.Format) (*validate.Result, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return schema.Validate(data, format)
}

// ValidateFile reads a file and validates it against the definition schema.
func ValidateFile(path string) (*validate.Result, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Validate(data, format)
}
