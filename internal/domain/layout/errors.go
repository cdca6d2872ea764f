package layout

import "errors"

// Sentinel errors for layout generation.
var (
	ErrUnknownRegion = errors.New("unknown region policy")
)
