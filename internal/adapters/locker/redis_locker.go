// Package locker сериализует прогоны импорта одного источника.
package locker

import (
	"catalog-import-service/internal/contextkeys"
	"catalog-import-service/internal/core/domain"
	"catalog-import-service/internal/core/port"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix   = "catalog-import:"
	retryInterval   = 250 * time.Millisecond
	releaseTimeout  = 5 * time.Second
	defaultLockTTL  = 2 * time.Minute
	defaultAttempts = 20
)

// RedisLocker - распределенная блокировка на источник поверх redislock.
// Пока блокировка удерживается, TTL продлевается в фоне.
type RedisLocker struct {
	client   *redislock.Client
	ttl      time.Duration
	attempts int
}

func NewRedisLocker(rdb redis.Scripter, ttl time.Duration) (*RedisLocker, error) {
	if rdb == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{
		client:   redislock.New(rdb),
		ttl:      ttl,
		attempts: defaultAttempts,
	}, nil
}

func (l *RedisLocker) Lock(ctx context.Context, sourceID string) (func(), error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"source_id": sourceID})
	key := lockKeyPrefix + sourceID

	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), l.attempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceLocked, sourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain source lock: %w", err)
	}
	logger.Debug("Source lock obtained", port.Fields{"key": key, "ttl": l.ttl.String()})

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(lock, logger, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done
			releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Warn("Failed to release source lock", port.Fields{"error": err.Error()})
			}
		})
	}
	return release, nil
}

func (l *RedisLocker) keepAlive(lock *redislock.Lock, logger port.LoggerPort, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			err := lock.Refresh(ctx, l.ttl, nil)
			cancel()
			if err != nil {
				logger.Error("Failed to refresh source lock", err, nil)
				return
			}
		}
	}
}
