package topology

import "errors"

// Error kinds surfaced by package topology, matching spec.md §7.
var (
	ErrMalformedTopology = errors.New("topology: malformed topology")
	ErrNoPaths           = errors.New("topology: no sender-to-receiver path exists")
	ErrMalformedPath     = errors.New("topology: malformed path")
)
