package contracts

import (
	"context"
	"time"
)

// LockerService hands out short-lived distributed locks so only one instance runs a
// background worker pass at a time.
type LockerService interface {
	// TryLock returns the lock token when acquired.
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, lockValue string) error
	// Refresh extends the TTL of a lock if owned by lockValue
	Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error
}
