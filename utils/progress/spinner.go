package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner shows a terminal spinner while a long-running frame (a
// sub-workflow compile) is in progress, reporting structured milestones
// through this package's Writer/Event types.
type Spinner struct {
	chars    []string
	index    int
	message  string
	stop     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	stopped  bool
	disabled bool
	writer   Writer
}

func NewSpinner() *Spinner {
	return &Spinner{
		chars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		stop:  make(chan struct{}),
	}
}

func (s *Spinner) SetWriter(w Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Disable prevents the spinner from printing, for non-interactive runs
// (piped output, CI, tests).
func (s *Spinner) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled = true
}

func (s *Spinner) Start(message string) {
	s.mu.Lock()
	if s.disabled {
		s.mu.Unlock()
		return
	}
	if s.stopped {
		s.stop = make(chan struct{})
		s.stopped = false
	}
	s.message = message
	s.mu.Unlock()

	if s.writer != nil {
		s.writer.WriteProgress(Event{Type: EventFrameEnter, Message: message})
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		if isTTY {
			fmt.Print("\033[?25l")
		}
		for {
			select {
			case <-s.stop:
				s.mu.Lock()
				msg := fmt.Sprintf("%s... done", s.message)
				disabled := s.disabled
				writer := s.writer
				s.mu.Unlock()

				if !disabled {
					fmt.Printf("\r%s     \n", msg)
				}
				if isTTY {
					fmt.Print("\033[?25h")
				}
				if writer != nil {
					writer.WriteProgress(Event{Type: EventFrameExit, Message: msg})
				}
				return
			default:
				s.mu.Lock()
				if !s.disabled {
					fmt.Printf("\r%s... %s", s.message, s.chars[s.index])
					s.index = (s.index + 1) % len(s.chars)
				}
				s.mu.Unlock()
				time.Sleep(100 * time.Millisecond)
			}
		}
	}()
}

func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
	s.mu.Unlock()
	s.wg.Wait()
}
