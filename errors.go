package monipoll

import "errors"

var (
	// ErrEmptyRouteNetwork is returned when a route is requested from a network
	// that has none. The agent keeps its previous state and is retried later.
	ErrEmptyRouteNetwork = errors.New("route network has no routes")

	// ErrInvalidZoneRadius rejects zones with a negative or non-finite radius.
	ErrInvalidZoneRadius = errors.New("zone radius must be a finite value >= 0")

	// ErrUnknownCategory rejects zones whose category is not one of the known kinds.
	ErrUnknownCategory = errors.New("unknown zone category")

	// ErrInvalidAgentCount reports a target population that was coerced to 0.
	ErrInvalidAgentCount = errors.New("invalid agent count")

	// ErrInvalidDuration reports a simulation length that was coerced to 0 days.
	ErrInvalidDuration = errors.New("invalid simulation duration")
)
