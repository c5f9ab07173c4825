package observe

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMetricsObserverCounts(t *testing.T) {
	obs := NewMetricsObserver()
	ctx := context.Background()

	obs.OnOperationStart(ctx, "write_cell")
	obs.OnOperationEnd(ctx, "write_cell", 2*time.Millisecond, nil)
	obs.OnOperationStart(ctx, "read_cell")
	obs.OnOperationEnd(ctx, "read_cell", time.Millisecond, errors.New("boom"))
	obs.OnPersist(ctx, "table.xlsx", 3*time.Millisecond, nil)
	obs.OnPersist(ctx, "table.xlsx", time.Millisecond, errors.New("disk full"))

	m := obs.Snapshot()
	if m.OperationCount != 2 {
		t.Errorf("OperationCount = %d, want 2", m.OperationCount)
	}
	if m.SuccessCount != 1 {
		t.Errorf("SuccessCount = %d, want 1", m.SuccessCount)
	}
	if m.FailureCount != 1 {
		t.Errorf("FailureCount = %d, want 1", m.FailureCount)
	}
	if m.PersistCount != 2 {
		t.Errorf("PersistCount = %d, want 2", m.PersistCount)
	}
	if m.PersistFailures != 1 {
		t.Errorf("PersistFailures = %d, want 1", m.PersistFailures)
	}
	if m.TotalDuration != 3*time.Millisecond {
		t.Errorf("TotalDuration = %v, want 3ms", m.TotalDuration)
	}
}

func TestMetricsObserverSnapshotIsCopy(t *testing.T) {
	obs := NewMetricsObserver()
	ctx := context.Background()

	obs.OnOperationStart(ctx, "add_row")
	first := obs.Snapshot()
	obs.OnOperationStart(ctx, "add_row")

	if first.OperationCount != 1 {
		t.Errorf("snapshot mutated: OperationCount = %d, want 1", first.OperationCount)
	}
	if got := obs.Snapshot().OperationCount; got != 2 {
		t.Errorf("OperationCount = %d, want 2", got)
	}
}
