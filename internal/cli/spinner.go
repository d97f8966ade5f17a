package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// statusSpinner animates a one-line status on a terminal writer while a
// slow step runs, such as starting the browser surface. The animation ends
// when Stop is called or its context is done.
type statusSpinner struct {
	w       io.Writer
	message string
	style   spinner.Spinner

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	once   sync.Once
}

func newSpinner(ctx context.Context, w io.Writer, message string) *statusSpinner {
	ctx, cancel := context.WithCancel(ctx)
	return &statusSpinner{
		w:       w,
		message: message,
		style:   spinner.MiniDot,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start draws frames until the spinner is stopped.
func (s *statusSpinner) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.style.FPS)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.draw(s.style.Frames[i%len(s.style.Frames)])
			select {
			case <-s.ctx.Done():
				s.clear()
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop ends the animation and clears the line. Further calls do nothing.
func (s *statusSpinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}

// Cancelled reports whether the spinner no longer animates.
func (s *statusSpinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

func (s *statusSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", styleSpinner.Render(frame), styleDim.Render(s.message))
}

func (s *statusSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// spin runs fn while a spinner shows message on w.
func spin(ctx context.Context, w io.Writer, message string, fn func() error) error {
	s := newSpinner(ctx, w, message)
	s.Start()
	defer s.Stop()
	return fn()
}
