package container

// ContextualBuilder implements the fluent contextual binding API.
//
//	c.When("PhotoController").Needs("Filesystem").Give(func(c *container.Container) (any, error) {
//	    return filesystem.NewS3(), nil
//	})
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// When starts a contextual binding chain for concrete.
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// Needs specifies which abstract the concrete type depends on.
func (b *ContextualBuilder) Needs(abstract string) *ContextualBuilder {
	b.needs = abstract
	return b
}

// Give provides the factory used when the concrete type resolves the
// specified abstract.
func (b *ContextualBuilder) Give(factory Factory) {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.contextual[b.concrete]; !ok {
		c.contextual[b.concrete] = make(map[string]Factory)
	}
	c.contextual[b.concrete][b.needs] = factory
}

// GiveValue is a shorthand for Give when the value is a scalar or a
// pre-built instance.
//
//	c.When("PhotoController").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(*Container) (any, error) { return value, nil })
}
