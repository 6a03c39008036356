package cashdesk

import (
	"context"
	"time"
)

// startShiftLockTTL bounds how long a crashed instance can hold a cashier's lock
const startShiftLockTTL = 10 * time.Second

// Locker serializes a critical section across instances.
// Lock returns shared.ErrConcurrencyConflict when the key is held elsewhere.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

func startShiftLockKey(userID string) string {
	return "cashdesk:start-shift:" + userID
}
