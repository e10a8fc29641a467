package property

import "strings"

var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// SystemPropertyName returns the name a key is looked up under in system
// properties, e.g. "hazelcast.kubernetes.service-dns".
func SystemPropertyName(prefix, key string) string {
	return prefix + key
}

// EnvironmentVariableName returns the environment variable name for a key:
// prefix and key uppercased, with dots and dashes turned into underscores,
// e.g. "HAZELCAST_KUBERNETES_SERVICE_DNS".
func EnvironmentVariableName(prefix, key string) string {
	return envReplacer.Replace(strings.ToUpper(prefix + key))
}
