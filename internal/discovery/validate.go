package discovery

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// maxServiceDNSTimeout is the largest timeout, in seconds, a time.Duration holds.
const maxServiceDNSTimeout = math.MaxInt64 / int64(time.Second)

// ErrInvalidSettings is matched by every ValidationError.
var ErrInvalidSettings = errors.New("invalid discovery settings")

// ValidationError lists every constraint the settings violate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid discovery settings: %s", strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSettings
}

// Validate checks constraints that span several keys.
func (s Settings) Validate() error {
	var problems []string

	if s.ServiceDNS != "" && (s.ServiceName != "" || s.ServiceLabelName != "" || s.ServiceLabelValue != "") {
		problems = append(problems, fmt.Sprintf("%s cannot be combined with %s, %s or %s",
			KeyServiceDNS, KeyServiceName, KeyServiceLabelName, KeyServiceLabelValue))
	}
	if (s.ServiceLabelName == "") != (s.ServiceLabelValue == "") {
		problems = append(problems, fmt.Sprintf("%s and %s must be set together", KeyServiceLabelName, KeyServiceLabelValue))
	}
	switch {
	case s.ServiceDNSTimeout <= 0:
		problems = append(problems, fmt.Sprintf("%s must be greater than 0, got %d", KeyServiceDNSTimeout, s.ServiceDNSTimeout))
	case int64(s.ServiceDNSTimeout) > maxServiceDNSTimeout:
		problems = append(problems, fmt.Sprintf("%s must not exceed %d, got %d", KeyServiceDNSTimeout, maxServiceDNSTimeout, s.ServiceDNSTimeout))
	}
	if s.KubernetesAPIRetries < 0 {
		problems = append(problems, fmt.Sprintf("%s must not be negative, got %d", KeyKubernetesAPIRetries, s.KubernetesAPIRetries))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
