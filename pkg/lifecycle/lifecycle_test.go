package lifecycle_test

import (
	"testing"
	"time"

	"github.com/lexgo-ia/lexgo/pkg/lifecycle"
)

func TestShutdownRunsCleanupInOrder(t *testing.T) {
	lc := lifecycle.New()

	var order []int
	lc.OnCleanup(func() { order = append(order, 1) })
	lc.OnCleanup(func() { order = append(order, 2) })

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("cleanup order = %v, want [1 2]", order)
	}
}

func TestShutdownCancelsContext(t *testing.T) {
	lc := lifecycle.New()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after Shutdown")
	}
}

func TestCleanupRunsOnce(t *testing.T) {
	lc := lifecycle.New()

	count := 0
	lc.OnCleanup(func() { count++ })

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("first Shutdown error: %v", err)
	}
	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("second Shutdown error: %v", err)
	}

	if count != 1 {
		t.Errorf("cleanup ran %d times, want 1", count)
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnCleanup(func() { <-release })

	err := lc.Shutdown(10 * time.Millisecond)
	close(release)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}
