package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/chusbot/internal/bot/tasks"
	"github.com/edgard/chusbot/internal/config"
	"github.com/edgard/chusbot/internal/interactionlog"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeIdentity struct {
	user *models.User
	err  error
}

func (f fakeIdentity) GetMe(context.Context) (*models.User, error) {
	return f.user, f.err
}

type blockingPoller struct{ started chan struct{} }

func (p blockingPoller) Start(ctx context.Context) {
	close(p.started)
	<-ctx.Done()
}

type returningPoller struct{}

func (returningPoller) Start(context.Context) {}

func TestFetchBotInfo(t *testing.T) {
	t.Parallel()

	t.Run("identity available", func(t *testing.T) {
		t.Parallel()

		info := FetchBotInfo(context.Background(), fakeIdentity{user: &models.User{
			ID: 123456, IsBot: true, FirstName: "Chus", Username: "chus_bot", SupportInlineQueries: true,
		}}, "llama3.2:1b", "1.0.0")

		assert.Equal(t, interactionlog.BotID("123456"), info.BotID)
		assert.Equal(t, "chus_bot", info.BotUsername)
		assert.Equal(t, "Chus", info.BotName)
		require.NotNil(t, info.IsBot)
		assert.True(t, *info.IsBot)
		require.NotNil(t, info.SupportsInline)
		assert.True(t, *info.SupportsInline)
		assert.Equal(t, "1.0.0", info.Version)
		assert.False(t, info.Degraded())
	})

	t.Run("lookup failure degrades", func(t *testing.T) {
		t.Parallel()

		info := FetchBotInfo(context.Background(), fakeIdentity{err: errors.New("unauthorized")}, "llama3.2:1b", "1.0.0")
		assert.Equal(t, interactionlog.BotInfo{
			BotID: interactionlog.UnknownBotID,
			Model: "llama3.2:1b",
			Error: "unauthorized",
		}, info)
		assert.True(t, info.Degraded())
	})
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()

	noop := func(context.Context) error { return nil }
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"log_stats":       {Enabled: true, Schedule: "0 0 * * * *"},
		"sql_maintenance": {Enabled: false, Schedule: "0 30 3 * * 0"},
		"unregistered":    {Enabled: true, Schedule: "0 0 * * * *"},
		"bad_schedule":    {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"log_stats":       noop,
		"sql_maintenance": noop,
		"bad_schedule":    noop,
	}

	s, err := NewScheduler(discard(), cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	require.Error(t, s.Start(), "double start must fail")

	jobs := s.Jobs()
	sort.Strings(jobs)
	assert.Equal(t, []string{"log_stats"}, jobs)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestSchedulerWrapReportsTaskContext(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discard(), nil, nil)
	require.NoError(t, err)

	var got context.Context
	s.wrap("log_stats", func(ctx context.Context) error {
		got = ctx
		return errors.New("boom")
	})(context.Background())
	assert.NotNil(t, got)
}

func TestBotRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(discard(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)

	poller := blockingPoller{started: make(chan struct{})}
	b := NewBot(discard(), poller, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	select {
	case <-poller.started:
	case <-time.After(5 * time.Second):
		t.Fatal("poller never started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestBotRunFailsWhenListenerExits(t *testing.T) {
	t.Parallel()

	b := NewBot(discard(), returningPoller{}, nil)
	err := b.Run(context.Background())
	require.Error(t, err)
}
