package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	var w syncBuffer
	s := newSpinner(context.Background(), &w, "Starting headless browser...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	out := w.String()
	if !strings.Contains(out, "Starting headless browser...") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("Stop() should clear the line, got %q", out)
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should be true after Stop()")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "waiting")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() should return once the parent context is cancelled")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() should follow the parent context")
	}
}

func TestSpin(t *testing.T) {
	want := errors.New("boom")
	var w syncBuffer
	if err := spin(context.Background(), &w, "working", func() error { return want }); err != want {
		t.Errorf("spin() error = %v, want %v", err, want)
	}
	if err := spin(context.Background(), &w, "working", func() error { return nil }); err != nil {
		t.Errorf("spin() error = %v", err)
	}
}
