package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/kubeprops/internal/api"
	"github.com/eugenenazirov/kubeprops/internal/config"
	"github.com/eugenenazirov/kubeprops/internal/discovery"
	"github.com/eugenenazirov/kubeprops/internal/property"
	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

// App encapsulates the resolved discovery settings and the HTTP server
// exposing them.
type App struct {
	registry *property.Registry
	resolver *resolver.Resolver
	settings discovery.Settings
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// Option configures New.
type Option func(*options)

type options struct {
	loadOptions []discovery.LoadOption
}

// WithLoadOptions passes options through to discovery.Load.
func WithLoadOptions(opts ...discovery.LoadOption) Option {
	return func(o *options) {
		o.loadOptions = append(o.loadOptions, opts...)
	}
}

// Resolve builds the catalog and resolves and validates every discovery
// setting from cfg's sources.
func Resolve(cfg config.Config, logger *zap.Logger, opts ...Option) (*property.Registry, *resolver.Resolver, discovery.Settings, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	registry, err := discovery.NewRegistry()
	if err != nil {
		return nil, nil, discovery.Settings{}, fmt.Errorf("build property catalog: %w", err)
	}
	if err := discovery.CheckKeys(registry, cfg.Explicit, cfg.SystemProperties); err != nil {
		return nil, nil, discovery.Settings{}, fmt.Errorf("check configured properties: %w", err)
	}

	res := resolver.New(registry, cfg.Sources())
	loadOpts := append([]discovery.LoadOption{discovery.WithLogger(logger)}, o.loadOptions...)
	settings, err := discovery.Load(res, loadOpts...)
	if err != nil {
		return nil, nil, discovery.Settings{}, fmt.Errorf("resolve discovery properties: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, discovery.Settings{}, err
	}

	return registry, res, settings, nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	registry, res, settings, err := Resolve(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("discovery settings resolved",
		zap.String("mode", string(settings.Mode())),
		zap.String("namespace", settings.Namespace),
		zap.Int("kubernetes_api_retries", settings.KubernetesAPIRetries),
	)

	handler := api.NewHandler(registry, settings)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		registry: registry,
		resolver: res,
		settings: settings,
		handler:  handler,
		router:   router,
		logger:   logger,
		server:   NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Settings returns the resolved discovery settings.
func (a *App) Settings() discovery.Settings {
	return a.settings
}

// Registry returns the property catalog.
func (a *App) Registry() *property.Registry {
	return a.registry
}

// Resolver returns the resolver backing the settings.
func (a *App) Resolver() *resolver.Resolver {
	return a.resolver
}
