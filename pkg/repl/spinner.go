package repl

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// Spinner animates a one-line indicator while a store call blocks.
type Spinner struct {
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	writer  io.Writer
	message string
}

// NewSpinner creates a spinner that writes to w
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		writer:  w,
		message: message,
	}
}

// Start begins the animation. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.animate(s.stop, s.done)
}

// Stop ends the animation and clears the line. It waits for the last frame
// to be written so nothing is drawn after it returns.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	fmt.Fprint(s.writer, "\r\033[K")
}

func (s *Spinner) animate(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fmt.Fprintf(s.writer, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], s.message)
		}
	}
}
