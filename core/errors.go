package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CyclicDependencyError is returned when the module dependency relation
// contains a cycle. Cycle lists the participants in path order, ending with
// the module that closed the cycle.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Cycle, " -> ")
}

// MissingDependencyError is returned when a module declares a dependency on a
// name that was never registered.
type MissingDependencyError struct {
	Module     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency: %q depends on unknown module %q", e.Module, e.Dependency)
}

// ServiceNotRegisteredError is returned by Resolve when no binding exists for
// the requested token in this scope or any ancestor.
type ServiceNotRegisteredError struct {
	Token any
}

func (e *ServiceNotRegisteredError) Error() string {
	return "no service registered for token " + tokenString(e.Token)
}

// LifecycleError wraps a failure raised by a module's initialize, start, or
// stop hook, carrying the module name and the hook that failed.
type LifecycleError struct {
	Module string
	Phase  string
	Err    error
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("module %q failed during %s: %v", e.Module, e.Phase, e.Err)
}

func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// tokenString renders a token for error messages. String tokens are quoted;
// typed keys rely on %T, which spells out the generic parameter for TypeKey.
func tokenString(token any) string {
	if s, ok := token.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%T", token)
}
