package core

import (
	"os"
	"testing"
	"time"
)

func TestGo_RecoversAndCleansUp(t *testing.T) {
	codes := make(chan int, 1)
	exit = func(code int) { codes <- code }
	defer func() { exit = os.Exit }()

	var order []int
	OnCrash(func() { order = append(order, 1) })
	OnCrash(func() { panic("cleanup failure is ignored") })
	OnCrash(func() { order = append(order, 3) })

	Go(func() { panic("boom") })

	select {
	case code := <-codes:
		if code != 1 {
			t.Errorf("Expected exit code 1, got %d", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected crash handler to exit")
	}

	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("Expected cleanups in reverse order [3 1], got %v", order)
	}
}

func TestHandleCrash_NilIsNoop(t *testing.T) {
	called := false
	exit = func(int) { called = true }
	defer func() { exit = os.Exit }()

	HandleCrash(nil)
	if called {
		t.Error("Expected no exit for nil panic value")
	}
}
