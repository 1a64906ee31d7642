package database

import (
	"context"
	"fmt"
	"time"

	"overlaysvc/pkg/logger"
)

// RetryPolicy controls how often a fresh connection is pinged before giving up.
type RetryPolicy struct {
	Attempts int
	Interval time.Duration
}

// pingWithRetry retries a few times in case of temporary DNS/network blips.
func pingWithRetry(ctx context.Context, p RetryPolicy, ping func(context.Context) error) error {
	attempts := max(p.Attempts, 1)

	var err error
	for i := 1; i <= attempts; i++ {
		if err = ping(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", p.Interval, err)

		select {
		case <-time.After(p.Interval):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during connect: %w", ctx.Err())
		}
	}
	return fmt.Errorf("could not connect after %d attempts: %w", attempts, err)
}
