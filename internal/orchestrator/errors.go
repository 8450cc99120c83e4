package orchestrator

import "fmt"

// ResourceUnavailableError reports that a selection stage found no backing
// record for its tier. It surfaces to the caller as a request failure and is
// never retried internally.
type ResourceUnavailableError struct {
	Resource string
}

func (e *ResourceUnavailableError) Error() string {
	return fmt.Sprintf("no suitable %s available", e.Resource)
}
