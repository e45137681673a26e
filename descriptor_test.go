package container_test

import (
	"errors"
	"testing"

	"github.com/illuminate/container"
)

func TestShapeOf_RejectsNonFunction(t *testing.T) {
	if _, err := container.ShapeOf(42); err == nil {
		t.Error("non-function constructor should be rejected")
	}
}

func TestShapeOf_RejectsVariadic(t *testing.T) {
	if _, err := container.ShapeOf(func(rs ...*repo) *service { return nil }); err == nil {
		t.Error("variadic constructor should be rejected")
	}
}

func TestShapeOf_RejectsNoReturn(t *testing.T) {
	if _, err := container.ShapeOf(func() {}); err == nil {
		t.Error("constructor without a return value should be rejected")
	}
}

func TestShapeOf_RejectsNonErrorSecondReturn(t *testing.T) {
	if _, err := container.ShapeOf(func() (*repo, *repo) { return nil, nil }); err == nil {
		t.Error("second return value must be error")
	}
}

func TestShapeOf_RecordsParamsInDeclaredOrder(t *testing.T) {
	shape, err := container.ShapeOf(func(r *repo, s *service) *handler { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if len(shape.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(shape.Params))
	}
	if shape.Params[0].ID != container.TypeKey((*repo)(nil)) {
		t.Errorf("param 0: got %q", shape.Params[0].ID)
	}
	if shape.Params[1].ID != container.TypeKey((*service)(nil)) {
		t.Errorf("param 1: got %q", shape.Params[1].ID)
	}
	for i, p := range shape.Params {
		if p.Scalar {
			t.Errorf("param %d wrongly marked scalar", i)
		}
		if p.Position != i {
			t.Errorf("param %d has position %d", i, p.Position)
		}
	}
}

func TestTypeRegistry_RegisterTypeDerivesName(t *testing.T) {
	reg := container.NewTypeRegistry()
	name, err := reg.RegisterType(newRepo)
	if err != nil {
		t.Fatal(err)
	}
	if name != container.TypeKey((*repo)(nil)) {
		t.Errorf("got %q, want the TypeKey of the return type", name)
	}
	if _, ok := reg.Describe(name); !ok {
		t.Error("registered shape should be describable")
	}
	if reg.Known() != 1 {
		t.Errorf("Known() = %d, want 1", reg.Known())
	}
}

func TestBuild_FactoryInvokedWithContainer(t *testing.T) {
	c := container.New()
	var got *container.Container
	v, err := c.Build(func(inner *container.Container) (any, error) {
		got = inner
		return "built", nil
	})
	if err != nil || v != "built" {
		t.Fatalf("got (%v, %v)", v, err)
	}
	if got != c {
		t.Error("factory should receive the container as its sole argument")
	}
}

func TestBuild_ConstructorErrorPropagatesUnmodified(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")
	if err := c.Types().Register("failing", func() (*repo, error) { return nil, boom }); err != nil {
		t.Fatal(err)
	}

	_, err := c.Build("failing")
	if !errors.Is(err, boom) {
		t.Errorf("constructor error should propagate unmodified, got %v", err)
	}
}

func TestBuild_ZeroParamConstructor(t *testing.T) {
	c := container.New()
	if err := c.Types().Register("plain", newRepo); err != nil {
		t.Fatal(err)
	}

	v, err := c.Build("plain")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*repo); !ok {
		t.Errorf("got %T, want *repo", v)
	}
}

func TestBuild_DoesNotTouchInstanceCache(t *testing.T) {
	c := container.New()
	if err := c.Types().Register("plain", newRepo); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Build("plain"); err != nil {
		t.Fatal(err)
	}
	if c.Resolved("plain") {
		t.Error("Build must never write the instance cache")
	}
}

func TestWithDescriptor_ReplacesDefaultRegistry(t *testing.T) {
	reg := container.NewTypeRegistry()
	if err := reg.Register("custom", newRepo); err != nil {
		t.Fatal(err)
	}

	c := container.New(container.WithDescriptor(reg))
	if c.Types() != reg {
		t.Error("Types() should return the injected registry")
	}
	if _, err := c.Make("custom"); err != nil {
		t.Errorf("names known to the injected descriptor should build: %v", err)
	}
}
