package counter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
)

const (
	CountersCollection = "counters"
	BookingCounterID   = "bookingCounter"
	LastNumberField    = "lastNumber"
)

// Allocation is the outcome of one allocation. Degraded numbers come from the
// clock and are not tracked by the counter document.
type Allocation struct {
	Number   int64
	Degraded bool
}

// Allocator hands out booking numbers by read-increment-write on the counter
// document. There is no mutual exclusion: two concurrent calls can read the
// same value and return the same number.
type Allocator struct {
	log   *slog.Logger
	store store.DocumentStore
	now   func() time.Time
}

func NewAllocator(log *slog.Logger, s store.DocumentStore) *Allocator {
	return &Allocator{
		log:   log,
		store: s,
		now:   time.Now,
	}
}

// WithClock replaces the clock used for fallback numbers.
func (a *Allocator) WithClock(now func() time.Time) *Allocator {
	a.now = now
	return a
}

// Allocate never fails. Store errors switch to a millisecond timestamp.
func (a *Allocator) Allocate(ctx context.Context) Allocation {
	next, err := a.increment(ctx)
	if err != nil {
		fallback := a.now().UnixMilli()
		a.log.Warn(fmt.Sprintf("[booking-counter] counter unavailable, using timestamp %d: %v", fallback, err))
		return Allocation{Number: fallback, Degraded: true}
	}

	a.log.Info(fmt.Sprintf("[booking-counter] allocated booking number %d", next))
	return Allocation{Number: next}
}

func (a *Allocator) increment(ctx context.Context) (int64, error) {
	current, err := a.current(ctx)
	if err != nil {
		return 0, err
	}

	next := current + 1
	err = a.store.Set(ctx, CountersCollection, BookingCounterID, store.Document{LastNumberField: next}, true)
	if err != nil {
		return 0, fmt.Errorf("failed to write counter: %w", err)
	}
	return next, nil
}

func (a *Allocator) current(ctx context.Context) (int64, error) {
	doc, err := a.store.Get(ctx, CountersCollection, BookingCounterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return lastNumber(doc[LastNumberField])
}

// lastNumber accepts the numeric shapes the backends hand back.
func lastNumber(v any) (int64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("counter value %v is not a number", x)
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("counter value %q is not a number: %w", x, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("counter value has unsupported type %T", v)
	}
}
