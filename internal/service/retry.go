package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nikolayk812/surplus/internal/domain"
)

const (
	DefaultMaxAttempts = 3
	defaultBackoff     = 20 * time.Millisecond
)

// retryOnConflict reruns fn while it fails with domain.ErrConcurrencyConflict, waiting a little longer each time.
func retryOnConflict(ctx context.Context, method string, maxAttempts int, backoff time.Duration, fn func() error) error {
	var err error

	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= maxAttempts {
			return err
		}

		slog.Info("Retrying after concurrency conflict",
			"method", method,
			"attempt", attempt,
			"error", err)

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(backoff * time.Duration(attempt)):
		}
	}
}
