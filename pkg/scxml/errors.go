package scxml

import "errors"

// Conversion failures are fail-fast: any of these aborts the run with no
// partial document. Call sites wrap them with the offending element's name
// or id; callers discriminate with errors.Is.
var (
	ErrMissingName         = errors.New("scxml: element has no declared name")
	ErrMissingEndpoint     = errors.New("scxml: transition endpoint missing or unnamed")
	ErrNoInitialState      = errors.New("scxml: no initial state")
	ErrUnresolvedEventName = errors.New("scxml: no event definition in payload ancestry")
)
