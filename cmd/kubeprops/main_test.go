package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/kubeprops/internal/property"
	"github.com/eugenenazirov/kubeprops/internal/resolver"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	err := run(args, &out)
	return out.String(), err
}

func TestKeysCommand(t *testing.T) {
	out, err := runCommand(t, "keys")
	if err != nil {
		t.Fatalf("keys returned error: %v", err)
	}

	var entries []keyEntry
	if err := yaml.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 13 {
		t.Fatalf("expected 13 keys, got %d", len(entries))
	}
	first := entries[0]
	if first.Key != "service-dns" ||
		first.SystemProperty != "hazelcast.kubernetes.service-dns" ||
		first.EnvironmentVariable != "HAZELCAST_KUBERNETES_SERVICE_DNS" ||
		first.Type != "string" {
		t.Fatalf("unexpected first entry %+v", first)
	}
}

func TestResolveCommand(t *testing.T) {
	t.Setenv("HAZELCAST_KUBERNETES_SERVICE_DNS_TIMEOUT", "10")
	t.Setenv("HAZELCAST_KUBERNETES_NAMESPACE", "from-env")

	out, err := runCommand(t, "-D", "hazelcast.kubernetes.namespace=from-system", "resolve", "service-dns-timeout", "namespace", "use-node-name-as-external-address")
	if err != nil {
		t.Fatalf("resolve returned error: %v", err)
	}

	var entries []valueEntry
	if err := yaml.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Value != 10 || entries[0].Source != "environment" {
		t.Fatalf("unexpected timeout entry %+v", entries[0])
	}
	if entries[1].Value != "from-system" || entries[1].Source != "system-property" {
		t.Fatalf("unexpected namespace entry %+v", entries[1])
	}
	if entries[2].Value != false || entries[2].Source != "default" {
		t.Fatalf("unexpected use-node-name entry %+v", entries[2])
	}
}

func TestResolveCommandErrors(t *testing.T) {
	if _, err := runCommand(t, "resolve", "service-dns-ttl"); !errors.Is(err, property.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}

	t.Setenv("HAZELCAST_KUBERNETES_KUBERNETES_API_RETRIES", "abc")
	_, err := runCommand(t, "resolve", "kubernetes-api-retries")
	if !errors.Is(err, resolver.ErrTypeConversion) {
		t.Fatalf("expected ErrTypeConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), `"abc"`) {
		t.Fatalf("expected raw value in message, got %v", err)
	}

	if _, err := runCommand(t, "resolve"); err == nil {
		t.Fatalf("expected error when no key is given")
	}
}

func TestCommandsRejectMistypedProperties(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("kubernetes:\n  service_dns: my-svc.ns.svc.cluster.local\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name    string
		args    []string
		wantKey string
	}{
		{name: "ResolveWithTypoProperty", args: []string{"resolve", "namespace", "-D", "hazelcast.kubernetes.servce-dns=x"}, wantKey: "servce-dns"},
		{name: "DumpWithTypoProperty", args: []string{"dump", "-D", "hazelcast.kubernetes.namespce=prod"}, wantKey: "namespce"},
		{name: "DumpWithTypoConfigKey", args: []string{"dump", "--config", configPath}, wantKey: "service_dns"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCommand(t, tc.args...)
			var unknown *property.UnknownKeyError
			if !errors.As(err, &unknown) || unknown.Key != tc.wantKey {
				t.Fatalf("expected unknown key %q, got %v", tc.wantKey, err)
			}
		})
	}

	if _, err := runCommand(t, "resolve", "namespace", "-D", "java.net.preferIPv4Stack=true"); err != nil {
		t.Fatalf("foreign system property should be ignored, got %v", err)
	}
}

func TestDumpCommandRedactsSecrets(t *testing.T) {
	t.Setenv("HAZELCAST_KUBERNETES_API_TOKEN", "super-secret")

	out, err := runCommand(t, "dump")
	if err != nil {
		t.Fatalf("dump returned error: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatalf("token leaked in output:\n%s", out)
	}

	var dump settingsDump
	if err := yaml.Unmarshal([]byte(out), &dump); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if dump.Mode != "kubernetes-api" || len(dump.Properties) != 13 {
		t.Fatalf("unexpected dump %+v", dump)
	}
}

func TestDumpCommandValidates(t *testing.T) {
	t.Setenv("HAZELCAST_KUBERNETES_SERVICE_LABEL_NAME", "app")

	if _, err := runCommand(t, "dump"); err == nil {
		t.Fatalf("expected validation error for label name without value")
	}
}
