package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"tindo/internal/core/domain/model/order"
)

// orderNumberMin is the smallest 12-digit value; drawing from
// [orderNumberMin, orderNumberMin+orderNumberSpan) guarantees exactly
// 12 digits without padding.
const (
	orderNumberMin  = int64(100000000000)
	orderNumberSpan = int64(900000000000)

	// defaultMaxAttempts bounds the collision-check loop before the
	// time-derived fallback is used.
	defaultMaxAttempts = 10
)

// OrderNumberChecker reports whether an order number has already been issued.
// Implemented by the order repository so allocation and the uniqueness check
// share the creating transaction.
type OrderNumberChecker interface {
	IsOrderNumberTaken(ctx context.Context, orderNumber string) (bool, error)
}

// OrderNumberAllocator issues public order numbers independent of the
// internal primary key, so the public identifier leaks neither row counts
// nor creation order.
//
// Allocation draws a random 12-digit value and checks it against
// already-issued numbers, retrying up to a bounded attempt count. If every
// attempt collides it falls back to a deterministic time-derived value, so
// allocation itself never fails; only a failing uniqueness check surfaces
// as an error.
type OrderNumberAllocator struct {
	maxAttempts int
	now         func() time.Time
}

// NewOrderNumberAllocator creates an allocator with the default attempt bound.
func NewOrderNumberAllocator() OrderNumberAllocator {
	return OrderNumberAllocator{
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
}

// Allocate returns an order number that the checker reported as free, or the
// time-derived fallback when all attempts collided. Errors from the checker
// are propagated unchanged; they indicate a storage failure, not exhaustion.
func (a OrderNumberAllocator) Allocate(ctx context.Context, checker OrderNumberChecker) (string, error) {
	for range a.maxAttempts {
		candidate := randomOrderNumber()

		taken, err := checker.IsOrderNumberTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return a.fallbackOrderNumber(), nil
}

// fallbackOrderNumber derives a 12-digit value from the current unix
// millisecond timestamp. Collision probability at this point is negligible:
// the random path must have lost ten straws first.
func (a OrderNumberAllocator) fallbackOrderNumber() string {
	millis := fmt.Sprintf("%013d", a.now().UnixMilli())
	return millis[len(millis)-order.OrderNumberLength:]
}

func randomOrderNumber() string {
	return fmt.Sprintf("%d", orderNumberMin+rand.Int64N(orderNumberSpan)) //nolint:gosec // not a secret
}
