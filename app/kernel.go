package app

import (
	"log"
	"net/http"

	"github.com/illuminate/container"
	"github.com/illuminate/container/config"
	"github.com/illuminate/container/providers"
	"github.com/illuminate/container/routing"
)

// Application is the top-level kernel. It embeds the IoC Container and the
// ProviderRegistry so wiring code can call app.Bind(), app.Singleton() and
// app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates and bootstraps the application with the framework's core
// providers registered.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg := a.Config()
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("%s listening on %s [%s]", cfg.App.Name, addr, cfg.App.Env)
	return http.ListenAndServe(addr, a.Router())
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
