package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider registers a group of related bindings as a unit.
//
// Every provider must implement at minimum Register(). Boot() is called
// after ALL providers have been registered, making it safe to resolve other
// bindings inside Boot().
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("logger", func(c *container.Container) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return logging.New(cfg), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here — use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container)

	// Provides returns the list of abstract keys this provider registers.
	// Used for deferred (lazy) provider loading.
	// Return nil if the provider is always eager.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily —
	// only when one of its Provides() abstracts is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred(). Embed it in your provider and
// only override what you need.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[string]ServiceProvider // abstract → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[string]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless
// deferred).
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		for _, abstract := range provider.Provides() {
			r.deferred[abstract] = provider
		}
		r.interceptDeferred(provider)
		return
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		provider.Boot(r.app)
	}
}

// interceptDeferred registers a placeholder binding for each deferred
// abstract. The first Make() call triggers real registration + boot, then
// runs the real factory directly — the abstract is already on the build
// stack, so re-entering Make for it would trip the cycle guard.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, abstract := range provider.Provides() {
		abs := abstract
		r.app.Bind(abs, func(c *Container) (any, error) {
			if _, pending := r.deferred[abs]; pending {
				provider.Register(c)
				delete(r.deferred, abs)
				if r.booted {
					provider.Boot(c)
				}
			}

			b, err := c.Raw(abs)
			if err != nil {
				return nil, err
			}
			v, err := b.Factory(c)
			if err != nil {
				return nil, err
			}
			if b.Shared {
				c.Instance(abs, v)
			}
			return v, nil
		})
	}
}

// Boot calls Boot() on all eager providers. Must be called after ALL
// providers have been registered. Idempotent.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
