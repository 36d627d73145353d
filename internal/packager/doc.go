// Package packager turns a deliverable definition file into an assembled
// package: it validates the definition, builds the metadata, model, and
// processor collaborators, and hands them to the deliverable assembler.
package packager
