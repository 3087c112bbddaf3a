package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/memory"
	"github.com/justinjudd/league/tournament"
)

func TestFailureLimiterSweepsRefilledClients(t *testing.T) {
	now := time.Date(2025, time.March, 12, 22, 0, 0, 0, time.UTC)
	l := newFailureLimiter(3, time.Hour)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		l.fail("10.0.0.1")
	}
	l.fail("10.0.0.2")
	assert.True(t, l.blocked("10.0.0.1"))
	assert.False(t, l.blocked("10.0.0.2"))
	assert.False(t, l.blocked("10.0.0.3"), "a fresh client has its full budget")
	require.Equal(t, 3, l.size())

	assert.Equal(t, 1, l.sweep(), "only the untouched client is idle")
	assert.Equal(t, 2, l.size())

	now = now.Add(time.Hour)
	assert.False(t, l.blocked("10.0.0.1"), "one attempt refilled")
	assert.Equal(t, 1, l.sweep())
	assert.Equal(t, 1, l.size())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, l.sweep())
	assert.Zero(t, l.size())
}

func TestSweepLoopStopsWithContext(t *testing.T) {
	store := memory.NewStorageEngine()
	rules := models.DefaultRules()
	srv := New(tournament.NewSeason(store, rules, nil), tournament.NewPlayoffs(store, rules, nil), Options{})
	srv.failures.fail("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.SweepLoop(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not stop")
	}
}
