// Package sink fans issued-configuration audit events out to one or more
// backends. Sink failures are a telemetry problem, never a request failure.
package sink

import (
	"context"

	"github.com/quietpath/quietpath/internal/event"
)

type Sink interface {
	Start(ctx context.Context) error
	Enqueue(e event.Issued) error
	Close() error
	Name() string // Returns the sink name for metrics and logging
}
