package container

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeDescriptor is the introspection capability Build consults for bare
// type names: whether a name is directly constructible and, if so, what its
// constructor needs. The container core never implements introspection
// itself; it is supplied here, with TypeRegistry as the default.
type TypeDescriptor interface {
	// Describe returns the constructor shape for name, or false if the
	// name is not directly constructible.
	Describe(name string) (ConstructorShape, bool)
}

// ConstructorShape describes how to build one concrete type: a constructor
// function plus the ordered dependency list derived from its parameters.
type ConstructorShape struct {
	fn     reflect.Value
	Params []Param
}

// Param is one constructor parameter.
type Param struct {
	ID       string       // abstract identifier resolved via Make
	Type     reflect.Type // declared parameter type
	Position int
	Scalar   bool // basic kind carrying no resolvable class or interface type
}

// call invokes the constructor with resolved args. Constructors may return
// (T) or (T, error).
func (s ConstructorShape) call(args []reflect.Value) (any, error) {
	results := s.fn.Call(args)
	if len(results) == 2 {
		if err, _ := results[1].Interface().(error); err != nil {
			return nil, err
		}
	}
	return results[0].Interface(), nil
}

// ShapeOf derives a ConstructorShape from ctor, which must be a
// non-variadic function returning T or (T, error).
func ShapeOf(ctor any) (ConstructorShape, error) {
	if ctor == nil {
		return ConstructorShape{}, fmt.Errorf("container: constructor must be a function, got nil")
	}
	fn := reflect.ValueOf(ctor)
	t := fn.Type()

	if t.Kind() != reflect.Func {
		return ConstructorShape{}, fmt.Errorf("container: constructor must be a function, got %T", ctor)
	}
	if t.IsVariadic() {
		return ConstructorShape{}, fmt.Errorf("container: variadic constructor %s is not supported", t)
	}
	if t.NumOut() == 0 || t.NumOut() > 2 {
		return ConstructorShape{}, fmt.Errorf("container: constructor %s must return T or (T, error)", t)
	}
	if t.NumOut() == 2 && !t.Out(1).Implements(errorInterface) {
		return ConstructorShape{}, fmt.Errorf("container: constructor %s second return value must be error", t)
	}

	params := make([]Param, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		params[i] = Param{
			ID:       typeName(in),
			Type:     in,
			Position: i,
			Scalar:   isScalar(in),
		}
	}
	return ConstructorShape{fn: fn, Params: params}, nil
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

// ── TypeRegistry ──────────────────────────────────────────────────────────────

// TypeRegistry is the default TypeDescriptor: concrete types are declared
// up front with their constructor functions, and the parameter shape is
// derived by reflection at registration time — never during resolution.
type TypeRegistry struct {
	mu     sync.RWMutex
	shapes map[string]ConstructorShape
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{shapes: make(map[string]ConstructorShape)}
}

// Register declares name as constructible through ctor.
func (r *TypeRegistry) Register(name string, ctor any) error {
	shape, err := ShapeOf(ctor)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shapes[name] = shape
	return nil
}

// RegisterType is Register with the name derived from ctor's return type,
// following the TypeKey convention. Returns the derived name.
func (r *TypeRegistry) RegisterType(ctor any) (string, error) {
	shape, err := ShapeOf(ctor)
	if err != nil {
		return "", err
	}
	name := typeName(shape.fn.Type().Out(0))
	r.mu.Lock()
	r.shapes[name] = shape
	r.mu.Unlock()
	return name, nil
}

// Describe implements TypeDescriptor.
func (r *TypeRegistry) Describe(name string) (ConstructorShape, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	shape, ok := r.shapes[name]
	return shape, ok
}

// Known returns the number of registered shapes.
func (r *TypeRegistry) Known() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.shapes)
}

// ── naming ────────────────────────────────────────────────────────────────────

// typeName follows the TypeKey convention: pointers unwrapped,
// package-qualified names for named types, reflect's string form otherwise.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// isScalar reports whether t is a bare value kind that names no class or
// interface type the container could resolve.
func isScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	}
	return false
}
