package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/kubeprops/internal/application"
	"github.com/eugenenazirov/kubeprops/internal/config"
	"github.com/eugenenazirov/kubeprops/internal/discovery"
	"github.com/eugenenazirov/kubeprops/internal/logging"
	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "kubeprops: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	kingpinApp := kingpin.New("kubeprops", "Kubernetes discovery properties - resolves hazelcast.kubernetes.* settings from configuration, system properties and environment")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	envFile := kingpinApp.Flag("env-file", "Path to an env file layered under the process environment").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	properties := kingpinApp.Flag("property", "System property, e.g. -D hazelcast.kubernetes.service-dns=my-svc (repeatable)").Short('D').PlaceHolder("NAME=VALUE").StringMap()

	serveCmd := kingpinApp.Command("serve", "Serve the resolved properties over HTTP").Default()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	keysCmd := kingpinApp.Command("keys", "List recognised keys with their system property and environment variable names")
	resolveCmd := kingpinApp.Command("resolve", "Resolve individual keys")
	resolveKeys := resolveCmd.Arg("key", "Canonical key, e.g. service-dns").Required().Strings()
	dumpCmd := kingpinApp.Command("dump", "Resolve and validate every key")

	command, err := kingpinApp.Parse(args)
	if err != nil {
		return err
	}

	overrides := &config.CLIOverrides{
		ConfigFile:       *configFile,
		EnvFile:          *envFile,
		SystemProperties: *properties,
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *port != "" {
		overrides.Port = port
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case keysCmd.FullCommand():
		registry, err := discovery.NewRegistry()
		if err != nil {
			return err
		}
		return writeKeys(stdout, registry)

	case resolveCmd.FullCommand():
		registry, err := discovery.NewRegistry()
		if err != nil {
			return err
		}
		if err := discovery.CheckKeys(registry, cfg.Explicit, cfg.SystemProperties); err != nil {
			return err
		}
		res := resolver.New(registry, cfg.Sources())
		values := make([]resolver.ResolvedValue, 0, len(*resolveKeys))
		for _, key := range *resolveKeys {
			v, err := discovery.Resolve(res, key, discovery.WithLogger(logger))
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		return writeValues(stdout, values)

	case dumpCmd.FullCommand():
		registry, _, settings, err := application.Resolve(cfg, logger)
		if err != nil {
			return err
		}
		return writeSettings(stdout, registry, settings)

	case serveCmd.FullCommand():
		app, err := application.New(cfg, logger)
		if err != nil {
			logger.Error("failed to initialize application", zap.Error(err))
			return err
		}

		if err := app.Start(); err != nil {
			logger.Error("failed to start server", zap.Error(err))
			return err
		}

		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
		return nil
	}

	return fmt.Errorf("unknown command %q", command)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
