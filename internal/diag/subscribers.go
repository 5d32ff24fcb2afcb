package diag

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Warn publishes w to all Warning subscribers on the bus.
func Warn(ctx context.Context, b *Bus, w Warning) {
	Publish(ctx, b, w)
}

// Collector accumulates warnings for later inspection. Used by tests and for
// the CLI's end-of-run summary.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

// Attach subscribes the collector to b and returns it.
func (c *Collector) Attach(b *Bus) *Collector {
	Subscribe(b, func(_ context.Context, w Warning) {
		c.mu.Lock()
		c.warnings = append(c.warnings, w)
		c.mu.Unlock()
	})
	return c
}

// Warnings returns a copy of everything collected so far.
func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Warning(nil), c.warnings...)
}

// Count returns the number of warnings collected so far.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// AttachLogger subscribes a zap logger that reports every warning and a
// per-operation completion line.
func AttachLogger(b *Bus, log *zap.Logger) {
	Subscribe(b, func(_ context.Context, w Warning) {
		log.Warn(w.WarningMessage(), zap.String("event", fmt.Sprintf("%T", w)))
	})
	Subscribe(b, func(_ context.Context, e OperationFinish) {
		log.Debug("generated",
			zap.String("operation", e.Name),
			zap.String("kind", e.Kind),
			zap.Int("artifacts", e.Artifacts),
			zap.Int("warnings", e.Warnings),
		)
	})
}
