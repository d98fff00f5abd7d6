package payment

import "errors"

var (
	// ErrInvalidRequest is returned for a non-positive amount or blank currency.
	ErrInvalidRequest = errors.New("invalid amount or currency")

	// ErrConfigurationMissing is returned when a routed provider has no endpoint.
	ErrConfigurationMissing = errors.New("provider endpoint not configured")

	// ErrProviderTransport wraps adapter-level failures. It stays inside CallResult.
	ErrProviderTransport = errors.New("provider call failed")

	// ErrAllProvidersUnavailable is returned when primary and fallback both failed.
	ErrAllProvidersUnavailable = errors.New("all payment providers unavailable")
)
