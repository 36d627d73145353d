// Package definition parses and validates deliverable definition files.
// A definition (deliverable.yaml or deliverable.toml) declares the package
// metadata, the model directory to ship, and the processors that surround
// it. Definitions are validated against an embedded JSON Schema before use.
package definition
