package lifecycle

import (
	"context"
	"testing"
)

func TestGuardStopsAfterClose(t *testing.T) {
	s := NewScope(context.Background())
	calls := 0
	guarded := s.Guard(func() { calls++ })

	guarded()
	s.Close()
	guarded()

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if s.Alive() {
		t.Fatal("scope must not be alive after Close")
	}
}

func TestCloseRunsCleanupsInReverseOnce(t *testing.T) {
	s := NewScope(context.Background())
	var order []int
	s.OnClose(func() { order = append(order, 1) })
	s.OnClose(func() { order = append(order, 2) })

	s.Close()
	s.Close()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected cleanup order: %v", order)
	}

	late := false
	s.OnClose(func() { late = true })
	if !late {
		t.Fatal("cleanup registered after Close must run immediately")
	}
}

func TestGoObservesCancellation(t *testing.T) {
	s := NewScope(context.Background())
	started := make(chan struct{})

	if !s.Go(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}) {
		t.Fatal("expected Go to start on open scope")
	}
	<-started
	s.Close()
	s.Wait()

	if s.Go(func(context.Context) {}) {
		t.Fatal("expected Go to refuse work on closed scope")
	}
}

func TestParentCancellationKillsScope(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewScope(parent)
	cancel()

	if s.Alive() {
		t.Fatal("scope must follow parent cancellation")
	}
}
