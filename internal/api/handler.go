package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/kubeprops/internal/discovery"
	"github.com/eugenenazirov/kubeprops/internal/property"
	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const redacted = "<redacted>"

// Handler serves a read-only view of the catalog and the resolved settings.
type Handler struct {
	registry *property.Registry
	settings discovery.Settings

	clock     func() time.Time
	startedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over settings resolved against registry.
func NewHandler(registry *property.Registry, settings discovery.Settings, opts ...HandlerOption) *Handler {
	h := &Handler{
		registry: registry,
		settings: settings,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:     "ok",
		Timestamp:  h.clock(),
		ResolvedAt: h.startedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	_ = r
	defs := h.registry.Definitions()
	resp := propertiesResponse{
		Prefix:     h.registry.Prefix(),
		Properties: make([]propertyResponse, 0, len(defs)),
	}
	for _, def := range defs {
		resp.Properties = append(resp.Properties, h.describe(def))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	def, err := h.registry.Lookup(key)
	if err != nil {
		if errors.Is(err, property.ErrUnknownKey) {
			writeError(w, http.StatusNotFound, "Unknown property", err.Error(), "GET /api/properties lists the recognised keys")
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.describe(def))
}

func (h *Handler) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	_ = r
	s := h.settings
	resp := discoveryResponse{
		Mode:                         string(s.Mode()),
		ServiceDNS:                   s.ServiceDNS,
		ServiceDNSTimeoutSeconds:     s.ServiceDNSTimeout,
		ServiceName:                  s.ServiceName,
		ServiceLabelName:             s.ServiceLabelName,
		ServiceLabelValue:            s.ServiceLabelValue,
		Namespace:                    s.Namespace,
		ResolveNotReadyAddresses:     s.ResolveNotReadyAddresses,
		UseNodeNameAsExternalAddress: s.UseNodeNameAsExternalAddress,
		KubernetesAPIRetries:         s.KubernetesAPIRetries,
		KubernetesMaster:             s.KubernetesMaster,
		APITokenConfigured:           s.APIToken != "",
		CACertificateConfigured:      s.CACertificate != "",
		ServicePort:                  s.ServicePort,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) describe(def property.Definition) propertyResponse {
	resp := propertyResponse{
		Key:                 def.Key(),
		Type:                def.Type(),
		MultiValued:         def.MultiValued(),
		SystemProperty:      h.registry.SystemPropertyName(def),
		EnvironmentVariable: h.registry.EnvironmentVariableName(def),
		Source:              resolver.SourceNone,
	}
	v, ok := h.settings.Values[def.Key()]
	if !ok || !v.Present() {
		return resp
	}
	resp.Source = v.Source
	resp.Value = v.Value()
	if discovery.IsSecret(def.Key()) {
		resp.Value = redacted
	}
	return resp
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type propertyResponse struct {
	Key                 string             `json:"key"`
	Type                property.ValueType `json:"type"`
	MultiValued         bool               `json:"multiValued"`
	SystemProperty      string             `json:"systemProperty"`
	EnvironmentVariable string             `json:"environmentVariable"`
	Value               any                `json:"value"`
	Source              resolver.Source    `json:"source"`
}

type propertiesResponse struct {
	Prefix     string             `json:"prefix"`
	Properties []propertyResponse `json:"properties"`
}

type discoveryResponse struct {
	Mode                         string `json:"mode"`
	ServiceDNS                   string `json:"serviceDns,omitempty"`
	ServiceDNSTimeoutSeconds     int    `json:"serviceDnsTimeoutSeconds"`
	ServiceName                  string `json:"serviceName,omitempty"`
	ServiceLabelName             string `json:"serviceLabelName,omitempty"`
	ServiceLabelValue            string `json:"serviceLabelValue,omitempty"`
	Namespace                    string `json:"namespace,omitempty"`
	ResolveNotReadyAddresses     bool   `json:"resolveNotReadyAddresses"`
	UseNodeNameAsExternalAddress bool   `json:"useNodeNameAsExternalAddress"`
	KubernetesAPIRetries         int    `json:"kubernetesApiRetries"`
	KubernetesMaster             string `json:"kubernetesMaster"`
	APITokenConfigured           bool   `json:"apiTokenConfigured"`
	CACertificateConfigured      bool   `json:"caCertificateConfigured"`
	ServicePort                  int    `json:"servicePort,omitempty"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
