package deliverable

import "reflect"

// Collaborator serializes one component of a deliverable.
//
// Serialize writes the component's assets under dir and returns a
// JSON-serializable descriptor of what it wrote. Implementations must not
// write outside dir. Dependencies declares named runtime dependencies;
// order is irrelevant and duplicates are permitted.
type Collaborator interface {
	Serialize(dir string) (any, error)
	Dependencies() []string
}

// Role names a collaborator slot in a package.
type Role string

const (
	RoleMetadata  Role = "metadata"
	RoleModel     Role = "model"
	RoleProcessor Role = "processor"
)

// Roles lists every role in dependency-gathering order.
var Roles = []Role{RoleMetadata, RoleModel, RoleProcessor}

// Components holds the three collaborators of a package.
type Components struct {
	Metadata  Collaborator
	Model     Collaborator
	Processor Collaborator
}

// Get returns the collaborator registered for role, or nil.
func (c Components) Get(role Role) Collaborator {
	switch role {
	case RoleMetadata:
		return c.Metadata
	case RoleModel:
		return c.Model
	case RoleProcessor:
		return c.Processor
	default:
		return nil
	}
}

// check returns a *MissingCollaboratorError for the first unset role.
// A typed nil such as (*metadata.Builder)(nil) counts as unset.
func (c Components) check() error {
	for _, role := range Roles {
		if isNil(c.Get(role)) {
			return &MissingCollaboratorError{Role: role}
		}
	}
	return nil
}

func isNil(c Collaborator) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
