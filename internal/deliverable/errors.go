package deliverable

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCollaborator is matched by every *MissingCollaboratorError.
	ErrMissingCollaborator = errors.New("collaborator not registered")

	// ErrUnsafePath is returned when asked to wipe an empty path or a filesystem root.
	ErrUnsafePath = errors.New("refusing to wipe unsafe export path")

	// ErrIncompatibleVersion is returned by Load for manifests outside the supported format range.
	ErrIncompatibleVersion = errors.New("incompatible manifest format version")
)

// MissingCollaboratorError reports a role that was never registered before assembly.
type MissingCollaboratorError struct {
	Role Role
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("%s %s", e.Role, ErrMissingCollaborator)
}

// Is lets errors.Is(err, ErrMissingCollaborator) match.
func (e *MissingCollaboratorError) Is(target error) bool {
	return target == ErrMissingCollaborator
}

// IOError wraps a filesystem failure during preparation or assembly.
type IOError struct {
	Op   string // "remove", "mkdir", "write", "read"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
