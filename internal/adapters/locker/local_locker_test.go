package locker

import (
	"catalog-import-service/internal/core/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameSource(t *testing.T) {
	l := NewLocalLocker()

	release, err := l.Lock(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSourceLocked)

	other, err := l.Lock(context.Background(), "s2")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Lock(context.Background(), "s1")
	require.NoError(t, err)
	again()
}

func TestLocalLocker_WaiterProceedsAfterRelease(t *testing.T) {
	l := NewLocalLocker()
	release, err := l.Lock(context.Background(), "s")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := l.Lock(context.Background(), "s")
		if err == nil {
			r()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(30 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter was not released")
	}
}
