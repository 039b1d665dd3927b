package retry

import (
	"fmt"
	"time"
)

// Logger is the minimal logging surface the retry helper needs.
type Logger interface {
	Warnf(format string, args ...interface{})
}

// Options controls how Do re-invokes a failing operation.
type Options struct {
	// Attempts is the total number of invocations, including the first.
	Attempts int
	// Delay is the wait before the first retry.
	Delay time.Duration
	// Backoff multiplies the delay after each failed attempt.
	Backoff float64
	// RetryIf restricts which errors consume a retry. Errors it rejects
	// propagate immediately. A nil RetryIf retries every error.
	RetryIf func(error) bool
	// Logger receives a warning before each retry. Optional.
	Logger Logger
	// Sleep is swappable for tests. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Do runs op until it succeeds or the attempt budget is spent. The delay
// between attempt k and k+1 is Delay * Backoff^(k-1), with no jitter. The
// last attempt's error is returned unmodified.
func Do(op func() error, opts Options) error {
	if opts.Attempts < 1 {
		return fmt.Errorf("retry: attempts must be >= 1, got %d", opts.Attempts)
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 1
	}

	delay := opts.Delay
	var err error
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if opts.RetryIf != nil && !opts.RetryIf(err) {
			return err
		}
		if attempt == opts.Attempts {
			return err
		}
		if opts.Logger != nil {
			opts.Logger.Warnf("Attempt %d failed: %v. Retrying in %s...", attempt, err, delay)
		}
		sleep(delay)
		delay = time.Duration(float64(delay) * backoff)
	}
	return err
}
