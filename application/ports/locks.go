package ports

import "context"

// Lock is a held lease on a named resource.
type Lock interface {
	// Release gives the lease up. Releasing twice is harmless.
	Release(ctx context.Context) error
}

// Locker serializes read-modify-write cycles on a resource across
// goroutines, processes and Lambda instances.
type Locker interface {
	// Acquire blocks until the lease is held or gives up with a CONFLICT
	// AppError or the context's error.
	Acquire(ctx context.Context, resource string) (Lock, error)
}
