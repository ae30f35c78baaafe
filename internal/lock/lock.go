// Package lock serialises deployments of the same REST API stage across
// concurrent runs.
package lock

//go:generate mockgen -package mocks -destination mocks/mock_locker.go github.com/joostfarla/serverless-cors-plugin/internal/lock Locker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joostfarla/serverless-cors-plugin/internal/metrics"
	"github.com/joostfarla/serverless-cors-plugin/internal/redis"
)

// ErrLockTimeout is returned when the lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for deployment lock")

// Locker guards a single deployment target.
type Locker interface {
	Acquire(ctx context.Context, restAPIID, stage string) error
	Release(ctx context.Context) error
}

type locker struct {
	log   logrus.FieldLogger
	cfg   Config
	redis redis.Client
	id    string // Unique instance ID
	key   string // Held key, empty when not held
}

// NewLocker creates a Redis backed Locker.
func NewLocker(log logrus.FieldLogger, cfg Config, redisClient redis.Client) Locker {
	return &locker{
		log:   log.WithField("component", "lock"),
		cfg:   cfg,
		redis: redisClient,
		id:    uuid.New().String(),
	}
}

// Acquire blocks until the lock of the target is held, the wait timeout
// passes or ctx is cancelled.
func (l *locker) Acquire(ctx context.Context, restAPIID, stage string) error {
	key := l.cfg.Key(restAPIID, stage)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, l.cfg.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	loggedWaiting := false

	for {
		acquired, err := l.redis.SetNX(ctx, key, l.id, l.cfg.TTL)
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to acquire deployment lock %s: %w", key, err)
		}

		if acquired {
			l.key = key

			metrics.ObserveLockWait(time.Since(start))

			l.log.WithFields(logrus.Fields{
				"key":         key,
				"instance_id": l.id,
			}).Debug("Acquired deployment lock")

			return nil
		}

		// Only log the current holder once
		if !loggedWaiting && err == nil {
			holder, _ := l.redis.Get(ctx, key)
			l.log.WithFields(logrus.Fields{
				"key":    key,
				"holder": holder,
			}).Info("Waiting for deployment lock")

			loggedWaiting = true
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %s", ErrLockTimeout, key, l.cfg.WaitTimeout)
			}

			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Release frees the lock when this instance still holds it.
func (l *locker) Release(ctx context.Context) error {
	if l.key == "" {
		return nil
	}

	key := l.key
	l.key = ""

	released, err := l.redis.CompareAndDelete(ctx, key, l.id)
	if err != nil {
		return fmt.Errorf("failed to release deployment lock %s: %w", key, err)
	}

	if !released {
		l.log.WithField("key", key).Warn("Deployment lock expired before release")

		return nil
	}

	l.log.WithField("key", key).Debug("Released deployment lock")

	return nil
}

type noop struct{}

// NewNoop returns a Locker that never blocks.
func NewNoop() Locker {
	return noop{}
}

func (noop) Acquire(context.Context, string, string) error { return nil }

func (noop) Release(context.Context) error { return nil }

// Compile-time interface compliance check.
var (
	_ Locker = (*locker)(nil)
	_ Locker = noop{}
)
