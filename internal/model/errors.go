package model

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrConfiguration marks fatal mock configuration problems: a synthetic
	// address that cannot be decoded or whose pair is not registered.
	ErrConfiguration = errors.New("mock configuration error")

	// ErrInvalidRegistry is returned when a registry cannot be built.
	ErrInvalidRegistry = errors.New("invalid mock registry")

	// ErrInvalidManifest is returned when a mock manifest cannot be read.
	ErrInvalidManifest = errors.New("invalid mock manifest")

	// ErrModuleNotFound is returned by hosts when a specifier has no module.
	ErrModuleNotFound = errors.New("module not found")
)

// ConfigurationError reports a synthetic address the load stage cannot serve.
type ConfigurationError struct {
	Address string
	Reason  string
}

// NewConfigurationError builds a ConfigurationError for the wire address.
func NewConfigurationError(address, reason string) *ConfigurationError {
	return &ConfigurationError{Address: address, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("mock address %q cannot be served: %s", e.Address, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) hold for every ConfigurationError.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func errInvalidEscape(key string) error {
	return errors.Newf("invalid escape sequence in key %q", key)
}
