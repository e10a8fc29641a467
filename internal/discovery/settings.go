package discovery

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

// Mode is the discovery strategy implied by the settings.
type Mode string

const (
	ModeDNSLookup     Mode = "dns-lookup"
	ModeKubernetesAPI Mode = "kubernetes-api"
)

// Settings are the typed values handed to the discovery client.
type Settings struct {
	ServiceDNS                   string
	ServiceDNSTimeout            int
	ServiceName                  string
	ServiceLabelName             string
	ServiceLabelValue            string
	Namespace                    string
	ResolveNotReadyAddresses     bool
	UseNodeNameAsExternalAddress bool
	KubernetesAPIRetries         int
	KubernetesMaster             string
	APIToken                     string
	CACertificate                string
	// ServicePort is zero unless a value greater than zero was configured.
	ServicePort int

	// Values holds every resolution result by key, including absent ones.
	Values map[string]resolver.ResolvedValue
}

// Mode reports DNS lookup when service-dns is set, the Kubernetes API otherwise.
func (s Settings) Mode() Mode {
	if s.ServiceDNS != "" {
		return ModeDNSLookup
	}
	return ModeKubernetesAPI
}

// DNSTimeout returns service-dns-timeout as a duration.
func (s Settings) DNSTimeout() time.Duration {
	return time.Duration(s.ServiceDNSTimeout) * time.Second
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	tokenPath         string
	caCertificatePath string
	readFile          func(string) ([]byte, error)
	logger            *zap.Logger
}

// WithTokenPath overrides the file read for the api-token default.
func WithTokenPath(path string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.tokenPath = path
	}
}

// WithCACertificatePath overrides the file read for the ca-certificate default.
func WithCACertificatePath(path string) LoadOption {
	return func(cfg *loadConfig) {
		cfg.caCertificatePath = path
	}
}

// WithLogger traces where each value came from at debug level.
func WithLogger(logger *zap.Logger) LoadOption {
	return func(cfg *loadConfig) {
		cfg.logger = logger
	}
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{
		tokenPath:         DefaultTokenPath,
		caCertificatePath: DefaultCACertificatePath,
		readFile:          os.ReadFile,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Load resolves every catalog key, applying the documented defaults.
// Conversion failures are returned as is; nothing falls back silently.
func Load(res *resolver.Resolver, opts ...LoadOption) (Settings, error) {
	cfg := newLoadConfig(opts)
	settings := Settings{Values: make(map[string]resolver.ResolvedValue)}

	for _, def := range res.Registry().Definitions() {
		v, err := res.Resolve(def, cfg.defaultFor(def.Key())...)
		if err != nil {
			return Settings{}, err
		}
		cfg.logger.Debug("property resolved",
			zap.String("key", def.Key()),
			zap.Stringer("source", v.Source),
			zap.String("name", v.Name),
		)
		settings.Values[def.Key()] = v
		settings.assign(v)
	}

	return settings, nil
}

// Resolve resolves a single key with its documented default.
func Resolve(res *resolver.Resolver, key string, opts ...LoadOption) (resolver.ResolvedValue, error) {
	cfg := newLoadConfig(opts)
	return res.ResolveKey(key, cfg.defaultFor(key)...)
}

func (cfg loadConfig) defaultFor(key string) []resolver.Option {
	switch key {
	case KeyAPIToken:
		return []resolver.Option{resolver.WithDefaultFunc(cfg.fileDefault(key, cfg.tokenPath))}
	case KeyCACertificate:
		return []resolver.Option{resolver.WithDefaultFunc(cfg.fileDefault(key, cfg.caCertificatePath))}
	}
	if raw, ok := Defaults()[key]; ok {
		return []resolver.Option{resolver.WithDefault(raw)}
	}
	return nil
}

func (cfg loadConfig) fileDefault(key, path string) func() (string, bool, error) {
	return func() (string, bool, error) {
		if path == "" {
			return "", false, nil
		}
		data, err := cfg.readFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				cfg.logger.Debug("default file not found", zap.String("key", key), zap.String("path", path))
				return "", false, nil
			}
			return "", false, fmt.Errorf("read %s: %w", path, err)
		}
		content := string(data)
		if key == KeyAPIToken {
			content = strings.TrimSpace(content)
		}
		return content, content != "", nil
	}
}

func (s *Settings) assign(v resolver.ResolvedValue) {
	if !v.Present() {
		return
	}
	str, _ := v.String()
	n, _ := v.Int()
	b, _ := v.Bool()

	switch v.Definition.Key() {
	case KeyServiceDNS:
		s.ServiceDNS = str
	case KeyServiceDNSTimeout:
		s.ServiceDNSTimeout = n
	case KeyServiceName:
		s.ServiceName = str
	case KeyServiceLabelName:
		s.ServiceLabelName = str
	case KeyServiceLabelValue:
		s.ServiceLabelValue = str
	case KeyNamespace:
		s.Namespace = str
	case KeyResolveNotReadyAddresses:
		s.ResolveNotReadyAddresses = b
	case KeyUseNodeNameAsExternalAddress:
		s.UseNodeNameAsExternalAddress = b
	case KeyKubernetesAPIRetries:
		s.KubernetesAPIRetries = n
	case KeyKubernetesMaster:
		s.KubernetesMaster = str
	case KeyAPIToken:
		s.APIToken = str
	case KeyCACertificate:
		s.CACertificate = str
	case KeyServicePort:
		if n > 0 {
			s.ServicePort = n
		}
	}
}
