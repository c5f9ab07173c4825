package ports

import (
	"context"
	"time"
)

// Observer receives diagnostic events from the command engine.
// Implementations can be used for logging, metrics, or test instrumentation;
// the engine itself never writes to process-wide logging state.
type Observer interface {
	// OnOperationStart is called before an operation begins execution
	OnOperationStart(ctx context.Context, name string)

	// OnOperationEnd is called after an operation completes (success or failure)
	OnOperationEnd(ctx context.Context, name string, duration time.Duration, err error)

	// OnPersist is called after every write-through save of the backing file
	OnPersist(ctx context.Context, path string, duration time.Duration, err error)
}

// NoOpObserver is an Observer implementation that does nothing.
// Useful as a default or for testing.
type NoOpObserver struct{}

func (NoOpObserver) OnOperationStart(ctx context.Context, name string) {}
func (NoOpObserver) OnOperationEnd(ctx context.Context, name string, duration time.Duration, err error) {
}
func (NoOpObserver) OnPersist(ctx context.Context, path string, duration time.Duration, err error) {}
