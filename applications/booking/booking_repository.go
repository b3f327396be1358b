package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
)

const BookingsCollection = "bookings"

var ErrPersistenceFailed = errors.New("failed to save booking")

type Repository struct {
	log   *slog.Logger
	store store.DocumentStore
}

func NewRepository(log *slog.Logger, s store.DocumentStore) *Repository {
	return &Repository{
		log:   log,
		store: s,
	}
}

// AddBooking appends the booking and fills in its document id.
func (r *Repository) AddBooking(ctx context.Context, b *Booking) error {
	r.log.Info(fmt.Sprintf("[booking-repo] saving booking number %d", b.BookingNumber))

	id, err := r.store.Add(ctx, BookingsCollection, ToDocument(b))
	if err != nil {
		r.log.Error(fmt.Sprintf("[booking-repo] failed to save booking number %d: %v", b.BookingNumber, err))
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	b.ID = id
	r.log.Info(fmt.Sprintf("[booking-repo] booking number %d saved as %s", b.BookingNumber, id))
	return nil
}

// ListBookings returns every booking, newest first.
func (r *Repository) ListBookings(ctx context.Context) ([]*Booking, error) {
	snaps, err := r.store.Query(ctx, BookingsCollection, store.Query{
		OrderBy:    store.CreatedAtField,
		Descending: true,
	})
	if err != nil {
		r.log.Error(fmt.Sprintf("[booking-repo] listing query failed: %v", err))
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	out := make([]*Booking, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, FromDocument(snap.ID, snap.Data))
	}
	r.log.Info(fmt.Sprintf("[booking-repo] listed %d bookings", len(out)))
	return out, nil
}

// GetBooking wraps store.ErrNotFound when id does not exist.
func (r *Repository) GetBooking(ctx context.Context, id string) (*Booking, error) {
	doc, err := r.store.Get(ctx, BookingsCollection, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return FromDocument(id, doc), nil
}
