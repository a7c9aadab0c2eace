// Package publisher ships audit events to their sink.
package publisher

import (
	"context"

	"veridoc/pkg/platform/audit"
)

// Publisher delivers audit events. Implementations must be safe for
// concurrent use; emit failures are the emitter's problem to log, never the
// domain operation's problem to fail on.
type Publisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
