package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"

	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

var _ manufacturing.RecordLocker = (*RecordLocker)(nil)

// RecordLocker bloqueo distribuido por clave (una orden de fabricación a la vez entre réplicas).
type RecordLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRecordLocker envuelve un cliente redis. ttl <= 0 usa 30s.
// Se reintenta durante un breve lapso antes de rendirse.
func NewRecordLocker(rdb redislock.RedisClient, ttl time.Duration) *RecordLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RecordLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	}
}

// Lock obtiene la clave o devuelve domain.ErrConcurrencyConflict si otro proceso la tiene.
func (l *RecordLocker) Lock(ctx context.Context, key string) (func(), error) {
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("lock %s: %w", key, domain.ErrConcurrencyConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", key, err)
	}
	return func() {
		// contexto propio: la petición pudo haberse cancelado
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = lock.Release(releaseCtx)
	}, nil
}
