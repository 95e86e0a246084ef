package videocache

import (
	"context"
	"errors"
	"time"

	"github.com/weberc2/reels/pkg/types"
)

// Run fetches immediately and then once per interval until ctx is done.
// Pass-level failures are logged and retried on the next tick.
func (f *Fetcher) Run(ctx context.Context, interval time.Duration) error {
	logger := f.logger()
	logger.Info("starting video fetcher", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := f.FetchAll(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			if !errors.Is(err, types.ErrFetchInProgress) {
				logger.Error("running fetch pass", "err", err.Error())
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
