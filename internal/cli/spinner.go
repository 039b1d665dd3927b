package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// spinner ticks on the given writer while an operation runs. Purely
// cosmetic: it is stopped by closing a channel and never waited on, so it
// carries no correctness obligation.
type spinner struct {
	w        io.Writer
	interval time.Duration

	done     chan struct{}
	stopOnce sync.Once
	started  bool
}

func newSpinner(w io.Writer) *spinner {
	return &spinner{
		w:        w,
		interval: 150 * time.Millisecond,
		done:     make(chan struct{}),
	}
}

func (s *spinner) Start() {
	if s.started {
		return
	}
	s.started = true

	go func() {
		glyphs := `|/-\`
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.w, "\r \r")
				return
			case <-ticker.C:
				fmt.Fprintf(s.w, "\r%c", glyphs[i%len(glyphs)])
			}
		}
	}()
}

// Stop is safe to call multiple times and before Start.
func (s *spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}
