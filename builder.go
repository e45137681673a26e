package container

import (
	"fmt"
	"reflect"
)

// Build turns a factory or a concrete type name into a value.
//
// Factories are invoked with the container as their sole argument and their
// result returned unmodified — this is the primary extension point, since a
// factory is free to call back into the container. Type names are
// constructed through the TypeDescriptor: each constructor parameter is
// resolved recursively via Make and the constructor invoked with the
// results in declared order.
//
// Build mutates nothing beyond the returned value; caching is exclusively
// Make's responsibility.
func (c *Container) Build(concrete any) (any, error) {
	switch v := concrete.(type) {
	case Factory:
		return v(c)
	case func(*Container) (any, error):
		return v(c)
	case func(*Container) any:
		return v(c), nil
	case string:
		return c.buildType(v)
	default:
		return nil, &NotInstantiableError{Concrete: fmt.Sprintf("%T", concrete)}
	}
}

// buildType constructs the named type from its registered constructor shape.
func (c *Container) buildType(name string) (any, error) {
	shape, ok := c.types.Describe(name)
	if !ok {
		return nil, &NotInstantiableError{Concrete: name}
	}

	args := make([]reflect.Value, 0, len(shape.Params))
	for _, p := range shape.Params {
		if p.Scalar {
			return nil, &UnresolvableDependencyError{
				Parameter: p.ID,
				Position:  p.Position,
				Concrete:  name,
			}
		}

		dep, err := c.Make(p.ID)
		if err != nil {
			return nil, err
		}

		rv := reflect.ValueOf(dep)
		if !rv.IsValid() {
			rv = reflect.Zero(p.Type)
		}
		if !rv.Type().AssignableTo(p.Type) {
			return nil, fmt.Errorf("container: building [%s]: dependency [%s] resolved to %T, not assignable to %s",
				name, p.ID, dep, p.Type)
		}
		args = append(args, rv)
	}

	return shape.call(args)
}
