package locker

import (
	"catalog-import-service/internal/core/domain"
	"context"
	"fmt"
	"sync"
)

// LocalLocker - блокировка на источник в пределах одного процесса.
// Используется, когда Redis не настроен.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(sourceID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[sourceID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[sourceID] = ch
	}
	return ch
}

// Lock ждет освобождения источника, пока не отменен ctx
func (l *LocalLocker) Lock(ctx context.Context, sourceID string) (func(), error) {
	ch := l.slot(sourceID)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceLocked, sourceID, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}, nil
}
