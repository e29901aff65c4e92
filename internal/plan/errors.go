package plan

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError with errors.Is.
var ErrConfiguration = errors.New("plan could not be generated")

// ConfigurationError means a material cannot be distributed at all.
// No partial plan is returned alongside it.
type ConfigurationError struct {
	MaterialID string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.MaterialID == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s for material %s: %s", ErrConfiguration, e.MaterialID, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func newConfigurationError(materialID, format string, args ...any) error {
	return &ConfigurationError{MaterialID: materialID, Reason: fmt.Sprintf(format, args...)}
}

// WarningKind classifies conditions that degrade a plan without failing it.
type WarningKind string

const (
	// WarningOverload means the deadline was too tight and the last eligible day carries the rest.
	WarningOverload WarningKind = "overload"
	// WarningClampedInput means currentProgress was outside [0, totalAmount] and was clamped.
	WarningClampedInput WarningKind = "clamped_input"
)

// Warning is attached to a Plan instead of being returned as an error.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Date    *Date       `json:"date,omitempty" yaml:"date,omitempty"`
	Message string      `json:"message" yaml:"message"`
}
