// Package container provides a Laravel-style IoC (Inversion of Control)
// container for Go: a runtime registry mapping abstract identifiers to
// construction strategies, resolved on demand with recursive dependency
// injection.
//
// # Overview
//
// The container manages the instantiation and lifecycle of an application's
// dependencies. It supports transient bindings, singletons, pre-built
// instances, aliases, tags, contextual bindings, extension (decoration),
// and constructor auto-wiring through a pluggable type-introspection
// capability.
//
// It follows the public surface of Illuminate\Container\Container as
// closely as Go's type system allows. Go has no runtime constructor
// discovery, so auto-wiring works off constructor functions declared in a
// TypeRegistry: the container reflects over their parameters at
// registration time and resolves each one recursively at build time.
//
// # Bindings
//
//	c := container.New()
//
//	// Transient — new value every Make()
//	c.Bind("UserRepository", func(c *container.Container) (any, error) {
//	    return repo.NewInMemory(), nil
//	})
//
//	// Singleton — created once, reused by identity
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return cache.New(cfg), nil
//	})
//
//	// Pre-built value; shadows any binding until Forget
//	c.Instance("config", myConfig)
//
//	// Alias — one hop, never chained
//	c.Alias("cache", "cache.store")
//
//	// Bind one identifier to another; the target's own registration
//	// (including singleton caching) is honored
//	c.Bind("Mailer", "SmtpMailer")
//
// # Resolving
//
//	raw, err := c.Make("cache")
//	typed, err := container.Resolve[*cache.Cache](c, "cache")
//	boot := container.MustResolve[*routing.Router](c, "router")
//
// Resolution failures are typed: *NotBoundError, *NotInstantiableError,
// *UnresolvableDependencyError and *CircularDependencyError all work with
// errors.As. A failed resolution never poisons the instance cache.
//
// # Auto-wiring
//
//	type UserService struct{ Repo *UserRepo }
//
//	c.Types().RegisterType(NewUserRepo)     // func() *UserRepo
//	c.Types().RegisterType(NewUserService)  // func(*UserRepo) *UserService
//
//	svc, err := container.Resolve[*UserService](c, container.TypeKey((*UserService)(nil)))
//
// # Extend / Decorate
//
//	err := c.Extend("logger", func(instance any, c *container.Container) (any, error) {
//	    return logging.WithTimestamps(instance.(*logging.Logger)), nil
//	})
//
// # Contextual Binding
//
//	c.When("PhotoController").
//	    Needs("Filesystem").
//	    Give(func(c *container.Container) (any, error) { return &S3Filesystem{}, nil })
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(c *container.Container) (any, error) {
//	        return mail.NewSMTP(), nil
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// # Concurrency
//
// Registration and lookup are guarded internally, but Make/Build recurse on
// the calling stack with no suspension points; a container is intended for
// single-owner use during resolution. Dependency graphs must be acyclic —
// a cycle fails fast with *CircularDependencyError rather than exhausting
// the stack.
package container
