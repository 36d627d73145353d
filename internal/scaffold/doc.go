// Package scaffold generates a starter deliverable definition from an
// embedded template. It powers the "dmpack init" command.
package scaffold
