// Package discovery holds the catalog of keys understood by the Kubernetes
// peer discovery plugin and turns resolved values into typed Settings.
//
// Every key can be set as explicit configuration ("service-dns"), as a system
// property ("hazelcast.kubernetes.service-dns") or as an environment variable
// ("HAZELCAST_KUBERNETES_SERVICE_DNS").
package discovery

import (
	"strconv"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

// Prefix is prepended to every key to form its system property name.
const Prefix = "hazelcast.kubernetes."

const (
	// KeyServiceDNS is the DNS service lookup domain, e.g.
	// my-svc.my-namespace.svc.cluster.local.
	KeyServiceDNS = "service-dns"
	// KeyServiceDNSTimeout is the DNS lookup timeout in seconds.
	KeyServiceDNSTimeout = "service-dns-timeout"
	// KeyServiceName is the service looked up through the Kubernetes API.
	KeyServiceName       = "service-name"
	KeyServiceLabelName  = "service-label-name"
	KeyServiceLabelValue = "service-label-value"
	KeyNamespace         = "namespace"
	// KeyResolveNotReadyAddresses includes not-ready endpoints on startup.
	KeyResolveNotReadyAddresses = "resolve-not-ready-addresses"
	// KeyUseNodeNameAsExternalAddress uses the node name instead of looking up
	// the external IP through the nodes resource.
	KeyUseNodeNameAsExternalAddress = "use-node-name-as-external-address"
	KeyKubernetesAPIRetries         = "kubernetes-api-retries"
	KeyKubernetesMaster             = "kubernetes-master"
	// KeyAPIToken is the OAuth token for the Kubernetes REST API.
	KeyAPIToken = "api-token"
	// KeyCACertificate is the CA certificate of the Kubernetes master.
	KeyCACertificate = "ca-certificate"
	// KeyServicePort overrides the endpoint port when greater than zero.
	KeyServicePort = "service-port"
)

const (
	DefaultServiceDNSTimeout    = 5
	DefaultKubernetesAPIRetries = 3
	DefaultKubernetesMaster     = "https://kubernetes.default.svc"
	DefaultUseNodeName          = false

	// DefaultTokenPath and DefaultCACertificatePath are the files Kubernetes
	// mounts into every pod for its service account.
	DefaultTokenPath         = "/var/run/secrets/kubernetes.io/serviceaccount/token"
	DefaultCACertificatePath = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"
)

var catalog = []struct {
	key string
	typ property.ValueType
}{
	{KeyServiceDNS, property.String},
	{KeyServiceDNSTimeout, property.Integer},
	{KeyServiceName, property.String},
	{KeyServiceLabelName, property.String},
	{KeyServiceLabelValue, property.String},
	{KeyNamespace, property.String},
	{KeyResolveNotReadyAddresses, property.Boolean},
	{KeyUseNodeNameAsExternalAddress, property.Boolean},
	{KeyKubernetesAPIRetries, property.Integer},
	{KeyKubernetesMaster, property.String},
	{KeyAPIToken, property.String},
	{KeyCACertificate, property.String},
	{KeyServicePort, property.Integer},
}

// NewRegistry builds the catalog. Callers build it once at start and share it.
func NewRegistry() (*property.Registry, error) {
	defs := make([]property.Definition, 0, len(catalog))
	for _, entry := range catalog {
		def, err := property.Define(entry.key, entry.typ, true)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return property.NewRegistry(Prefix, defs...)
}

// Defaults returns the static default raw values by key. File-backed defaults
// for api-token and ca-certificate are not included.
func Defaults() map[string]string {
	return map[string]string{
		KeyServiceDNSTimeout:            strconv.Itoa(DefaultServiceDNSTimeout),
		KeyUseNodeNameAsExternalAddress: strconv.FormatBool(DefaultUseNodeName),
		KeyKubernetesAPIRetries:         strconv.Itoa(DefaultKubernetesAPIRetries),
		KeyKubernetesMaster:             DefaultKubernetesMaster,
	}
}

// IsSecret reports whether the value of key must not be displayed.
func IsSecret(key string) bool {
	return key == KeyAPIToken || key == KeyCACertificate
}
