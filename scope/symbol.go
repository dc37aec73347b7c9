package scope

import "barracuda/types"

// Symbol is a single declared name: a `let` binding, a function
// parameter, or a host environment variable.
type Symbol struct {
	Name        string
	Type        types.Type
	Qualifier   types.Qualifier
	Storage     Storage
	Initialized bool

	// Slot is storage-class specific: the user-space offset for a global,
	// the frame slot index for a local/param, or the host-assigned index
	// for an environment variable.
	Slot int
}

// IsMutable reports whether sym may be the target of an AssignStmt.
func (s *Symbol) IsMutable() bool {
	return s.Qualifier == types.MutQualifier
}
