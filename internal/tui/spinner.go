package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single status line while a blocking operation
// runs. In CI environments or when animation is disabled it degrades to
// a single static line so logs stay readable.
type Spinner struct {
	writer   io.Writer
	message  string
	animate  bool
	stopChan chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	frame    int
}

// NewSpinner creates a spinner that writes to w. A nil writer defaults
// to os.Stdout.
func NewSpinner(w io.Writer, message string) *Spinner {
	if w == nil {
		w = os.Stdout
	}
	isCI := os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
	return &Spinner{
		writer:   w,
		message:  message,
		animate:  !isCI,
		stopChan: make(chan struct{}),
	}
}

// Start begins the animation. In static mode it prints the message once.
func (s *Spinner) Start() {
	if !s.animate {
		fmt.Fprintf(s.writer, "  %s...\n", s.message)
		return
	}
	go s.loop()
}

// Stop ends the animation and clears the status line. Safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		if s.animate {
			close(s.stopChan)
			fmt.Fprintf(s.writer, "\r%s\r", strings.Repeat(" ", len(s.message)+8))
		}
	})
}

// SetMessage swaps the status text while the spinner keeps running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

func (s *Spinner) loop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.writer, "\r  %s %s", spinnerFrames[s.frame], s.message)
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
		}
	}
}
