// File: internal/model/errors.go
package model

import "fmt"

// StructuralError reports an invalid registration or call sequence: a
// duplicate gate identifier, a gate added after finalization, or a
// non-empty document handed to report setup. The caller can recover by
// aborting the current run; the model or call order is wrong, not the
// process state.
type StructuralError struct {
	Op     string
	ID     string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("%s: %q: %s", e.Op, e.ID, e.Reason)
}

// InvariantError reports an upstream contract breach: a gate child that is
// neither a registered gate nor a primary event, a cut-set member that does
// not resolve to a known basic event, or a missing probability entry for a
// cut set. Fatal for the current run; never retried.
type InvariantError struct {
	Op string
	ID string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %q violates a model invariant", e.Op, e.ID)
}

// PreconditionError reports a programming error in the caller, such as
// reporting an empty orphan set or writing a section before report setup.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: precondition violated: %s", e.Op, e.Reason)
}
