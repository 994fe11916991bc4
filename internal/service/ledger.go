package service

import (
	"context"
	"log/slog"
	"time"
)

type ledgerPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeLedger deletes ledger entries older than maxAge every interval until
// ctx is done. An entry that old names a token which has expired anyway.
// A non-positive interval purges once and returns.
func PurgeLedger(ctx context.Context, ledger ledgerPurger, maxAge, interval time.Duration, now func() time.Time, log *slog.Logger) {
	if interval <= 0 {
		log.Warn("ledger purge interval not positive, purging once", "interval", interval)
		purgeOnce(ctx, ledger, now().Add(-maxAge), log)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		purgeOnce(ctx, ledger, now().Add(-maxAge), log)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func purgeOnce(ctx context.Context, ledger ledgerPurger, cutoff time.Time, log *slog.Logger) {
	n, err := ledger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("ledger purge failed", "err", err)
		}
		return
	}
	if n > 0 {
		log.Info("ledger purged", "removed", n, "cutoff", cutoff)
	}
}
