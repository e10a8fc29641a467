package discovery

import (
	"errors"
	"testing"

	"github.com/eugenenazirov/kubeprops/internal/property"
)

func TestCheckKeys(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}

	tests := []struct {
		name     string
		explicit map[string]string
		system   map[string]string
		wantKey  string
	}{
		{
			name:     "KnownKeys",
			explicit: map[string]string{KeyServiceDNS: "svc.local", KeyNamespace: "default"},
			system:   map[string]string{"hazelcast.kubernetes.service-dns-timeout": "10"},
		},
		{
			name:   "ForeignSystemPropertiesIgnored",
			system: map[string]string{"java.net.preferIPv4Stack": "true", "hazelcast.logging.type": "slf4j"},
		},
		{
			name:     "UnderscoreTypo",
			explicit: map[string]string{"service_dns": "my-svc.ns.svc.cluster.local"},
			wantKey:  "service_dns",
		},
		{
			name:     "FirstUnknownKeyInOrder",
			explicit: map[string]string{"service_dns": "a", "servce-name": "typo"},
			wantKey:  "servce-name",
		},
		{
			name:    "PrefixedSystemPropertyTypo",
			system:  map[string]string{"hazelcast.kubernetes.servce-dns": "x"},
			wantKey: "servce-dns",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := CheckKeys(reg, tc.explicit, tc.system)
			if tc.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var unknown *property.UnknownKeyError
			if !errors.As(err, &unknown) || unknown.Key != tc.wantKey {
				t.Fatalf("expected unknown key %q, got %v", tc.wantKey, err)
			}
			if !errors.Is(err, property.ErrUnknownKey) {
				t.Fatalf("expected ErrUnknownKey, got %v", err)
			}
		})
	}
}
