package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hookchat/hookchat/internal/render"
)

// spinner draws an animated waiting line on w while a reply is awaited
type spinner struct {
	w       io.Writer
	message string
	theme   render.TUITheme
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(w io.Writer, message string, theme render.TUITheme) *spinner {
	return &spinner{
		w:       w,
		message: message,
		theme:   theme,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// palette returns the colours the animation cycles through
func (s *spinner) palette() []lipgloss.Color {
	return []lipgloss.Color{s.theme.Primary, s.theme.Accent, s.theme.Secondary}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	colors := s.palette()
	spinColor := colors[s.frame%len(colors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := colors[(s.frame+i)%len(colors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.theme.TextMute).Render("○"))
		}
	}

	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, s.message, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows a success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(s.theme.Secondary).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(s.theme.Secondary).Render(message)
	fmt.Fprintf(s.w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner without a message
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
