package resilience_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/chusbot/internal/resilience"
)

var (
	errDown  = errors.New("connection refused")
	errOther = errors.New("bad request")
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNilBreakerRunsDirectly(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.Options{Name: "off"}, quietLogger())
	require.Nil(t, b)

	calls := 0
	for range 10 {
		err := b.Execute(func() error { calls++; return errDown })
		assert.ErrorIs(t, err, errDown)
	}
	assert.Equal(t, 10, calls)
	assert.Equal(t, "closed", b.State())
}

func TestBreakerTripsOnCountedFailures(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.Options{
		Name:        "ollama",
		MaxFailures: 3,
		OpenTimeout: time.Hour,
		Counts:      func(err error) bool { return errors.Is(err, errDown) },
	}, quietLogger())
	require.NotNil(t, b)

	for range 5 {
		assert.ErrorIs(t, b.Execute(func() error { return errOther }), errOther)
	}
	assert.Equal(t, "closed", b.State(), "uncounted errors must not trip the breaker")

	for range 3 {
		assert.ErrorIs(t, b.Execute(func() error { return errDown }), errDown)
	}
	assert.Equal(t, "open", b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecoversAfterTimeout(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.Options{
		Name:        "ollama",
		MaxFailures: 1,
		OpenTimeout: 20 * time.Millisecond,
	}, quietLogger())

	assert.Error(t, b.Execute(func() error { return errDown }))
	assert.Equal(t, "open", b.State())

	assert.Eventually(t, func() bool { return b.State() == "half-open" }, time.Second, 5*time.Millisecond)
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, "closed", b.State())
}

func TestSuccessResetsConsecutiveFailures(t *testing.T) {
	t.Parallel()

	b := resilience.NewBreaker(resilience.Options{Name: "x", MaxFailures: 2, OpenTimeout: time.Hour}, quietLogger())

	for range 4 {
		_ = b.Execute(func() error { return errDown })
		_ = b.Execute(func() error { return nil })
	}
	assert.Equal(t, "closed", b.State())
}
