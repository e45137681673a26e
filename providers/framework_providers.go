package providers

import (
	"github.com/illuminate/container"
	"github.com/illuminate/container/config"
	"github.com/illuminate/container/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container.
//
// Bound abstracts:
//   - "config"        → *config.Config (singleton)
//   - "configuration" → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton(map[string]string{"config": "configuration"}, func(c *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router" → *routing.Router (singleton)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) (any, error) {
		return routing.New(), nil
	})
}
