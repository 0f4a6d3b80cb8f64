// Package resilience guards calls to flaky backends with a circuit breaker.
package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrCircuitOpen is returned by Execute while the breaker rejects calls.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned while a half-open breaker already has a
	// trial call in flight.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Breaker trips after a run of consecutive failures and rejects calls until
// openTimeout has passed. Which errors count as failures is decided by the
// Counts predicate.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// Options configures a Breaker.
type Options struct {
	Name        string
	MaxFailures int
	OpenTimeout time.Duration
	// Counts reports whether err should be recorded as a failure. Errors it
	// rejects are passed through without affecting the breaker. Nil counts
	// every error.
	Counts func(err error) bool
}

// NewBreaker returns nil when opts.MaxFailures is not positive; a nil Breaker
// runs every call directly.
func NewBreaker(opts Options, log *slog.Logger) *Breaker {
	if opts.MaxFailures <= 0 {
		return nil
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	maxFailures := uint32(opts.MaxFailures)
	counts := opts.Counts
	settings := gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if counts == nil {
				return false
			}
			return !counts(err)
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Rejected reports whether err came from the breaker refusing the call rather
// than from the call itself.
func Rejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}

// Execute runs fn through the breaker.
func (b *Breaker) Execute(fn func() error) error {
	if b == nil {
		return fn()
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *Breaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}
