package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/database/dbtest"
	"github.com/iliyamo/myroutine-backend/internal/logging"
)

type signalingPurger struct {
	ledgerPurger
	ran chan struct{}
}

func (p *signalingPurger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := p.ledgerPurger.PurgeOlderThan(ctx, cutoff)
	select {
	case p.ran <- struct{}{}:
	default:
	}
	return n, err
}

func TestPurgeLedgerDropsOldEntries(t *testing.T) {
	env := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	u, _ := env.register(t, "ana@example.com")

	week := 7 * 24 * time.Hour
	now := env.clock.Now()
	require.NoError(t, env.store.InvalidTokens.Record(ctx, u.ID, "old", now.Add(-week-time.Hour)))
	require.NoError(t, env.store.InvalidTokens.Record(ctx, u.ID, "fresh", now.Add(-time.Hour)))

	purger := &signalingPurger{ledgerPurger: env.store.InvalidTokens, ran: make(chan struct{}, 1)}
	done := make(chan struct{})
	go func() {
		PurgeLedger(ctx, purger, week, time.Hour, env.clock.Now, logging.Discard())
		close(done)
	}()
	<-purger.ran
	cancel()
	<-done

	assert.Equal(t, 1, dbtest.Count(t, env.db, "invalid_tokens", ""))
	found, err := env.store.InvalidTokens.Contains(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPurgeLedgerZeroIntervalRunsOnce(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u, _ := env.register(t, "ana@example.com")
	week := 7 * 24 * time.Hour
	require.NoError(t, env.store.InvalidTokens.Record(ctx, u.ID, "old", env.clock.Now().Add(-week-time.Hour)))

	require.NotPanics(t, func() {
		PurgeLedger(ctx, env.store.InvalidTokens, week, 0, env.clock.Now, logging.Discard())
	})
	assert.Equal(t, 0, dbtest.Count(t, env.db, "invalid_tokens", ""))
}
