// Package validate checks YAML, JSON, and TOML documents against an embedded
// JSON Schema and reports leaf-level issues with instance paths.
package validate
