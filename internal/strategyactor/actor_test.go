package strategyactor

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestDoSerializesAccess(t *testing.T) {
	a := New(uuid.New())
	defer a.Stop()

	var counter int
	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = a.Do(context.Background(), func(ctx context.Context) {
				current := counter
				counter = current + 1
			})
		}()
	}
	wg.Wait()

	if counter != n {
		t.Fatalf("expected counter = %d after %d serialized increments, got %d", n, n, counter)
	}
}

func TestDoReturnsErrDeadAfterStop(t *testing.T) {
	a := New(uuid.New())
	a.Stop()

	err := a.Do(context.Background(), func(context.Context) {})
	if err != ErrDead {
		t.Fatalf("expected ErrDead after Stop, got %v", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	a := New(uuid.New())
	a.Stop()
	a.Stop()
}
