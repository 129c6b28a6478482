package shared

import "errors"

var (
	// ErrNoTenant occurs when a request carries no resolvable owner company.
	ErrNoTenant = errors.New("owner company not resolved")
	// ErrInvalidAPIKey occurs when a tenant API key is unknown or expired.
	ErrInvalidAPIKey = errors.New("invalid api key")
)
