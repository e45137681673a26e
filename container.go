package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// Extender wraps an already-resolved instance with decorator logic.
type Extender func(instance any, c *Container) (any, error)

// binding holds a registered factory and whether it is shared (singleton).
type binding struct {
	factory Factory
	shared  bool
}

// Binding is the exported view of a registry record, as returned by Raw and
// Bindings.
type Binding struct {
	Factory Factory
	Shared  bool
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container. It owns a binding registry, an instance
// cache and an alias table, and resolves abstract identifiers to values on
// demand — recursively constructing dependencies through its TypeDescriptor
// when no binding covers them.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Build / Resolve (generic)
//   - Extend (decorate resolved values)
//   - Contextual binding (when A needs B, give it C)
//   - Tags, rebound and after-resolving callbacks
//   - Map-like access sugar (Has / Get / Set / Delete)
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved shared instance or explicit seed
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// introspection capability consulted by Build for bare type names
	types TypeDescriptor

	// tag → []abstract
	tags map[string][]string

	// contextual: when[concrete][abstract] = factory
	contextual map[string]map[string]Factory

	// rebound callbacks: abstract → []func(any)
	reboundCallbacks map[string][]func(any)

	// resolved event callbacks: []func(abstract, instance)
	afterResolving []func(string, any)

	// abstracts currently being resolved; used for contextual lookup and
	// the cycle guard
	buildStack []string
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithDescriptor replaces the default TypeRegistry with a custom
// introspection capability.
func WithDescriptor(d TypeDescriptor) Option {
	return func(c *Container) { c.types = d }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		bindings:         make(map[string]*binding),
		instances:        make(map[string]any),
		aliases:          make(map[string]string),
		tags:             make(map[string][]string),
		contextual:       make(map[string]map[string]Factory),
		reboundCallbacks: make(map[string][]func(any)),
		types:            NewTypeRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// The container can always resolve itself.
	c.Instance("container", c)
	return c
}

// Types returns the default TypeRegistry, or nil when a custom descriptor
// was installed via WithDescriptor.
func (c *Container) Types() *TypeRegistry {
	r, _ := c.types.(*TypeRegistry)
	return r
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient binding: rebuilt on every Make.
//
// abstract is normally a plain identifier. A one-entry
// map[string]string{abstract: alias} registers the alias in the same call:
//
//	c.Bind(map[string]string{"cache": "cache.store"}, factory)
//
// concrete may be nil (construct abstract itself through the type
// descriptor), a different identifier (delegate to whatever is registered
// under it), or a Factory. Non-factory concretes are normalized into
// factories here, so resolution always has a single code path.
func (c *Container) Bind(abstract any, concrete any) {
	c.register(abstract, concrete, false)
}

// Singleton registers a shared binding: built once on first Make, cached,
// and returned by identity afterwards.
func (c *Container) Singleton(abstract any, concrete any) {
	c.register(abstract, concrete, true)
}

func (c *Container) register(abstract any, concrete any, shared bool) {
	id, alias := splitAbstract(abstract)
	if alias != "" {
		c.Alias(id, alias)
	}

	c.mu.Lock()
	key := c.canonical(id)
	factory := c.normalize(key, concrete)
	_, rebound := c.bindings[key]
	_, shadowed := c.instances[key]
	hasCallbacks := len(c.reboundCallbacks[key]) > 0
	c.bindings[key] = &binding{factory: factory, shared: shared}
	c.mu.Unlock()

	// A seeded instance keeps shadowing the new binding, so observers see
	// no change in that case.
	if rebound && hasCallbacks && !shadowed {
		if v, err := c.Make(key); err == nil {
			c.fireRebound(key, v)
		}
	}
}

// normalize turns whatever was registered as concrete into a Factory.
func (c *Container) normalize(abstract string, concrete any) Factory {
	switch v := concrete.(type) {
	case nil:
		// Self-binding: construct the abstract directly.
		return func(c *Container) (any, error) { return c.Build(abstract) }
	case Factory:
		return v
	case func(*Container) (any, error):
		return v
	case func(*Container) any:
		return func(c *Container) (any, error) { return v(c), nil }
	case string:
		if v == abstract {
			return func(c *Container) (any, error) { return c.Build(v) }
		}
		// Cross-binding: go through Make so anything registered under the
		// target identifier is honored rather than bypassed.
		return func(c *Container) (any, error) { return c.Make(v) }
	default:
		panic(fmt.Sprintf("container: cannot bind [%s] to %T (want nil, string or Factory)", abstract, concrete))
	}
}

// splitAbstract unpacks the optional {abstract: alias} registration sugar.
func splitAbstract(abstract any) (id, alias string) {
	switch v := abstract.(type) {
	case string:
		return v, ""
	case map[string]string:
		if len(v) != 1 {
			panic(fmt.Sprintf("container: alias map must have exactly one entry, got %d", len(v)))
		}
		for k, a := range v {
			return k, a
		}
		return "", ""
	default:
		panic(fmt.Sprintf("container: invalid abstract %T (want string or map[string]string)", abstract))
	}
}

// Instance seeds a pre-built value into the instance cache. It permanently
// shadows any binding registered under the same identifier — later Bind
// calls do not displace it; only Forget does.
func (c *Container) Instance(abstract any, value any) {
	id, alias := splitAbstract(abstract)
	if alias != "" {
		c.Alias(id, alias)
	}

	c.mu.Lock()
	key := c.canonical(id)
	c.instances[key] = value
	c.mu.Unlock()

	c.fireRebound(key, value)
}

// Alias registers an alternative name for an abstract. Resolution follows
// exactly one hop; aliases of aliases are not chased.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = abstract
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract identifier to a value.
//
// Order: one alias hop, instance cache, contextual binding for the consumer
// currently being built, registered binding, and finally — for unbound
// identifiers — direct construction through the type descriptor. Shared
// bindings cache their result on first resolution. A failed resolution
// never writes a cache entry.
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	c.mu.RUnlock()

	// Contextual bindings win over the registry and are never cached.
	if f := c.contextualFor(key); f != nil {
		return c.runFactory(key, f, false)
	}

	c.mu.RLock()
	var (
		factory Factory
		shared  bool
	)
	b, bound := c.bindings[key]
	if bound {
		factory, shared = b.factory, b.shared
	}
	c.mu.RUnlock()

	if !bound {
		// No binding: treat the identifier as a concrete type name.
		return c.runFactory(key, func(c *Container) (any, error) { return c.Build(key) }, false)
	}
	return c.runFactory(key, factory, shared)
}

// MustMake is Make for bootstrap paths where failure is a programming error.
func (c *Container) MustMake(abstract string) any {
	v, err := c.Make(abstract)
	if err != nil {
		panic(err)
	}
	return v
}

// contextualFor returns the contextual factory registered for the consumer
// on top of the build stack, or nil.
func (c *Container) contextualFor(abstract string) Factory {
	if len(c.buildStack) == 0 {
		return nil
	}
	caller := c.buildStack[len(c.buildStack)-1]

	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[caller]; ok {
		return m[abstract]
	}
	return nil
}

// runFactory executes a factory with key on the build stack, caching the
// result when shared.
func (c *Container) runFactory(key string, f Factory, shared bool) (any, error) {
	if slices.Contains(c.buildStack, key) {
		return nil, &CircularDependencyError{Stack: append(slices.Clone(c.buildStack), key)}
	}

	c.buildStack = append(c.buildStack, key)
	instance, err := f(c)
	c.buildStack = c.buildStack[:len(c.buildStack)-1]
	if err != nil {
		return nil, err
	}

	if shared {
		c.mu.Lock()
		c.instances[key] = instance
		c.mu.Unlock()
	}

	c.fireAfterResolving(key, instance)
	return instance, nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved value of an existing binding. The previous
// factory keeps running first; its result is passed through fn on every
// resolution. Repeated calls compose, innermost registered first. The
// shared flag of the binding is untouched.
func (c *Container) Extend(abstract string, fn Extender) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.canonical(abstract)
	b, ok := c.bindings[key]
	if !ok {
		return &NotBoundError{Abstract: abstract}
	}

	prev := b.factory
	b.factory = func(c *Container) (any, error) {
		inner, err := prev(c)
		if err != nil {
			return nil, err
		}
		return fn(inner, c)
	}
	return nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves every abstract registered under tag, in registration
// order.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	abstracts := slices.Clone(c.tags[tag])
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		v, err := c.Make(abs)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ── Introspection ─────────────────────────────────────────────────────────────

// Raw returns the registered binding record without resolving it.
func (c *Container) Raw(abstract string) (Binding, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[c.canonical(abstract)]
	if !ok {
		return Binding{}, &NotBoundError{Abstract: abstract}
	}
	return Binding{Factory: b.factory, Shared: b.shared}, nil
}

// Bindings returns a snapshot of the whole registry.
func (c *Container) Bindings() map[string]Binding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Binding, len(c.bindings))
	for k, b := range c.bindings {
		out[k] = Binding{Factory: b.factory, Shared: b.shared}
	}
	return out
}

// ── Access sugar ──────────────────────────────────────────────────────────────

// Has reports whether a binding exists for abstract. It does not consult
// the instance cache; use Resolved for that.
func (c *Container) Has(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[c.canonical(abstract)]
	return ok
}

// Get resolves abstract, failing with NotBoundError when no binding was
// registered under it.
func (c *Container) Get(abstract string) (any, error) {
	if !c.Has(abstract) {
		return nil, &NotBoundError{Abstract: abstract}
	}
	return c.Make(abstract)
}

// Set binds a value under abstract. Factories are bound as-is; anything
// else is wrapped in a constant factory. Non-shared either way: repeated
// Gets return the same value only because the captured constant never
// changes.
func (c *Container) Set(abstract string, value any) {
	switch v := value.(type) {
	case Factory:
		c.Bind(abstract, v)
	case func(*Container) (any, error):
		c.Bind(abstract, Factory(v))
	case func(*Container) any:
		c.Bind(abstract, func(c *Container) (any, error) { return v(c), nil })
	default:
		c.Bind(abstract, func(*Container) (any, error) { return v, nil })
	}
}

// Delete removes the binding for abstract. Cached instances survive; use
// Forget to drop those too.
func (c *Container) Delete(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, c.canonical(abstract))
}

// ── Lifecycle helpers ─────────────────────────────────────────────────────────

// Resolved reports whether abstract has a cached instance.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes both the binding and any cached instance for abstract.
// This is the only way to un-shadow a seeded instance.
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Flush resets the container to its initial empty state.
func (c *Container) Flush() {
	c.mu.Lock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.tags = make(map[string][]string)
	c.contextual = make(map[string]map[string]Factory)
	c.mu.Unlock()

	c.Instance("container", c)
}

// canonical resolves an alias to its target. Exactly one hop; must be
// called with mu held.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback fired when abstract is bound again after
// an initial registration, or when its instance is re-seeded.
func (c *Container) Rebinding(abstract string, cb func(any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	c.reboundCallbacks[key] = append(c.reboundCallbacks[key], cb)
}

// AfterResolving registers a callback fired after every successful Make.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireRebound(key string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.reboundCallbacks[key])
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(key string, instance any) {
	c.mu.RLock()
	cbs := slices.Clone(c.afterResolving)
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified name of v's type, a stable abstract
// key for interface-driven registrations.
//
//	key := container.TypeKey((*UserRepository)(nil))
//	c.Singleton(key, factory)
func TypeKey(v any) string {
	return typeName(reflect.TypeOf(v))
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	cache, err := container.Resolve[*RedisCache](c, "cache")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: Resolve[%T]: [%s] resolved to %T", zero, abstract, instance)
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap paths.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
