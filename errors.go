package container

import (
	"fmt"
	"strings"
)

// NotBoundError is returned by operations that require an existing binding
// (Extend, Raw, Get, and friends) when nothing is registered under the
// requested identifier.
type NotBoundError struct {
	Abstract string
}

func (e *NotBoundError) Error() string {
	return fmt.Sprintf("container: no binding registered for [%s]", e.Abstract)
}

// NotInstantiableError is returned when Build is asked to construct a name
// that no binding covers and the type descriptor does not know how to
// instantiate (typically an interface or an unregistered type).
type NotInstantiableError struct {
	Concrete string
}

func (e *NotInstantiableError) Error() string {
	return fmt.Sprintf("container: target [%s] is not instantiable", e.Concrete)
}

// UnresolvableDependencyError is returned when a constructor parameter is a
// bare scalar: it names no class or interface type the container could
// resolve on its own.
type UnresolvableDependencyError struct {
	Parameter string // parameter type, e.g. "string"
	Position  int    // zero-based position in the constructor
	Concrete  string // the type being built
}

func (e *UnresolvableDependencyError) Error() string {
	return fmt.Sprintf("container: unresolvable dependency [%s] at position %d while building [%s]",
		e.Parameter, e.Position, e.Concrete)
}

// CircularDependencyError is returned instead of exhausting the call stack
// when a resolution chain revisits an identifier it is already building.
type CircularDependencyError struct {
	Stack []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("container: circular dependency: %s", strings.Join(e.Stack, " -> "))
}
