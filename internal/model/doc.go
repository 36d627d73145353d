// Package model implements the model collaborator of a deliverable. It copies
// the trained model's files into the package and records a SHA-256 checksum
// for each copied file.
package model
