package submission

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/counter"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
	"github.com/VigneshSivaKspm/royal-photography-billing/logger"
)

type fakeComposer struct {
	err   error
	calls int
}

func (f *fakeComposer) Compose(_ context.Context, b *booking.Booking) (*invoice.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &invoice.Document{FileName: invoice.FileName(b), PDF: []byte("%PDF-1.3"), PageCount: 1}, nil
}

type fakeSaver struct {
	err   error
	saved []*booking.Booking
}

func (f *fakeSaver) AddBooking(_ context.Context, b *booking.Booking) error {
	if f.err != nil {
		return f.err
	}
	b.ID = "doc-1"
	f.saved = append(f.saved, b)
	return nil
}

type fakeMailer struct {
	err  error
	sent int
}

func (f *fakeMailer) SendInvoice(context.Context, *booking.Booking, *invoice.Document) error {
	f.sent++
	return f.err
}

func form() url.Values {
	return url.Values{
		"contactName":   {"Asha"},
		"email":         {"asha@example.com"},
		"paymentMethod": {"Cash"},
		"totalAmount":   {"1000"},
	}
}

func newUC(s store.DocumentStore, c invoice.Composer, saver BookingSaver) *SubmitBookingUC {
	return NewSubmitBookingUC(logger.Discard(), counter.NewAllocator(logger.Discard(), s), c, saver)
}

func TestAttemptTransitions(t *testing.T) {
	a := NewAttempt()
	if err := a.Transition(StateSuccess); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition from idle, got %v", err)
	}
	if err := a.Transition(StateSubmitting); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Transition(StateFailed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Transition(StateSubmitting); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected failed to be terminal, got %v", err)
	}
}

func TestSubmitSuccess(t *testing.T) {
	s := store.NewMemoryStore()
	saver := &fakeSaver{}
	mailer := &fakeMailer{}
	uc := newUC(s, &fakeComposer{}, saver).WithMailer(mailer)

	res := uc.Invoke(context.Background(), form())
	if res.State != StateSuccess || res.Err != nil {
		t.Fatalf("expected success, got %s (%v)", res.State, res.Err)
	}
	if res.Booking.BookingNumber != 1 || res.Degraded {
		t.Fatalf("expected booking number 1, got %+v", res)
	}
	if res.Document.FileName != "Invoice_1_Asha.pdf" {
		t.Fatalf("unexpected file name %q", res.Document.FileName)
	}
	if len(saver.saved) != 1 || mailer.sent != 1 {
		t.Fatalf("expected one save and one email, got %d and %d", len(saver.saved), mailer.sent)
	}
}

func TestSubmitMailFailureStillSucceeds(t *testing.T) {
	uc := newUC(store.NewMemoryStore(), &fakeComposer{}, &fakeSaver{}).WithMailer(&fakeMailer{err: errors.New("smtp down")})
	if res := uc.Invoke(context.Background(), form()); res.State != StateSuccess {
		t.Fatalf("expected success despite mail failure, got %s (%v)", res.State, res.Err)
	}
}

func TestSubmitCompositionFailure(t *testing.T) {
	saver := &fakeSaver{}
	uc := newUC(store.NewMemoryStore(), &fakeComposer{err: invoice.ErrCompositionFailed}, saver)

	res := uc.Invoke(context.Background(), form())
	if res.State != StateFailed || !errors.Is(res.Err, invoice.ErrCompositionFailed) {
		t.Fatalf("expected composition failure, got %s (%v)", res.State, res.Err)
	}
	if len(saver.saved) != 0 {
		t.Fatal("expected nothing persisted after composition failure")
	}
}

func TestSubmitPersistenceFailureSkipsNumber(t *testing.T) {
	s := store.NewMemoryStore()
	failing := &fakeSaver{err: booking.ErrPersistenceFailed}

	res := newUC(s, &fakeComposer{}, failing).Invoke(context.Background(), form())
	if res.State != StateFailed || !errors.Is(res.Err, booking.ErrPersistenceFailed) {
		t.Fatalf("expected persistence failure, got %s (%v)", res.State, res.Err)
	}
	if res.Document != nil {
		t.Fatal("expected the composed document to be discarded")
	}

	next := newUC(s, &fakeComposer{}, &fakeSaver{}).Invoke(context.Background(), form())
	if next.Booking.BookingNumber != 2 {
		t.Fatalf("expected the failed number to be skipped, got %d", next.Booking.BookingNumber)
	}
}

func TestSubmitInvalidFormStopsEarly(t *testing.T) {
	s := store.NewMemoryStore()
	composer := &fakeComposer{}
	v := form()
	v.Set("couponCode", "X")

	res := newUC(s, composer, &fakeSaver{}).Invoke(context.Background(), v)
	if res.State != StateFailed || !errors.Is(res.Err, booking.ErrUnrecognizedField) {
		t.Fatalf("expected form failure, got %s (%v)", res.State, res.Err)
	}
	if composer.calls != 0 {
		t.Fatal("expected no composition for a rejected form")
	}
	if _, err := s.Get(context.Background(), counter.CountersCollection, counter.BookingCounterID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected counter untouched, got %v", err)
	}
}
