package handlers

import (
	"context"
	"time"

	"storeadmin/application/cache"
	"storeadmin/application/ports"

	"github.com/jonboulle/clockwork"
)

type recordingInvalidator struct {
	signals []cache.Signal
	evicted []string
	err     error
}

func (r *recordingInvalidator) Invalidate(_ context.Context, sig cache.Signal) error {
	r.signals = append(r.signals, sig)
	return r.err
}

func (r *recordingInvalidator) Evict(_ context.Context, keys ...cache.Key) error {
	for _, k := range keys {
		r.evicted = append(r.evicted, k.String())
	}
	return nil
}

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func testClock() clockwork.Clock {
	return clockwork.NewFakeClockAt(testNow)
}

// recordingLocker grants every lease and records the order of acquisition
type recordingLocker struct {
	acquired []string
	released []string
	err      error
}

func (l *recordingLocker) Acquire(_ context.Context, resource string) (ports.Lock, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired = append(l.acquired, resource)
	return recordedLock{locker: l, resource: resource}, nil
}

type recordedLock struct {
	locker   *recordingLocker
	resource string
}

func (k recordedLock) Release(context.Context) error {
	k.locker.released = append(k.locker.released, k.resource)
	return nil
}
