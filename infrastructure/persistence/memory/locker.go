package memory

import (
	"context"
	"sync"

	"storeadmin/application/ports"
)

// Locker hands out in-process leases. Waiters queue on a channel that is
// closed when the holder releases.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]chan struct{})}
}

func (l *Locker) Acquire(ctx context.Context, resource string) (ports.Lock, error) {
	for {
		l.mu.Lock()
		released, busy := l.held[resource]
		if !busy {
			released = make(chan struct{})
			l.held[resource] = released
			l.mu.Unlock()
			return &localLock{locker: l, resource: resource, released: released}, nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type localLock struct {
	locker   *Locker
	resource string
	released chan struct{}
	once     sync.Once
}

func (k *localLock) Release(context.Context) error {
	k.once.Do(func() {
		k.locker.mu.Lock()
		if k.locker.held[k.resource] == k.released {
			delete(k.locker.held, k.resource)
		}
		k.locker.mu.Unlock()
		close(k.released)
	})
	return nil
}
