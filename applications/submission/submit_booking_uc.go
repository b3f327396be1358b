package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/counter"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
	"github.com/VigneshSivaKspm/royal-photography-billing/metrics"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

var ErrIllegalTransition = errors.New("illegal submission state transition")

var transitions = map[State][]State{
	StateIdle:       {StateSubmitting},
	StateSubmitting: {StateSuccess, StateFailed},
}

// Attempt tracks one submission through its states.
type Attempt struct {
	state State
}

func NewAttempt() *Attempt {
	return &Attempt{state: StateIdle}
}

func (a *Attempt) State() State { return a.state }

func (a *Attempt) Transition(to State) error {
	for _, allowed := range transitions[a.state] {
		if allowed == to {
			a.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.state, to)
}

// Result is what the caller shows once the attempt settles.
type Result struct {
	State    State
	Booking  *booking.Booking
	Document *invoice.Document
	Degraded bool
	Err      error
}

type NumberAllocator interface {
	Allocate(ctx context.Context) counter.Allocation
}

type BookingSaver interface {
	AddBooking(ctx context.Context, b *booking.Booking) error
}

// Mailer sends the invoice to the customer after a successful submission.
type Mailer interface {
	SendInvoice(ctx context.Context, b *booking.Booking, doc *invoice.Document) error
}

type SubmitBookingUC struct {
	log       *slog.Logger
	allocator NumberAllocator
	composer  invoice.Composer
	saver     BookingSaver
	mailer    Mailer
	metrics   *metrics.Metrics
}

func NewSubmitBookingUC(log *slog.Logger, allocator NumberAllocator, composer invoice.Composer, saver BookingSaver) *SubmitBookingUC {
	return &SubmitBookingUC{
		log:       log,
		allocator: allocator,
		composer:  composer,
		saver:     saver,
	}
}

// WithMailer enables the invoice email. Mail failures never fail a submission.
func (uc *SubmitBookingUC) WithMailer(m Mailer) *SubmitBookingUC {
	uc.mailer = m
	return uc
}

func (uc *SubmitBookingUC) WithMetrics(m *metrics.Metrics) *SubmitBookingUC {
	uc.metrics = m
	return uc
}

// Invoke runs parse, allocate, compose and persist in order and stops at the
// first failure. A number allocated by a failed attempt is never reused.
func (uc *SubmitBookingUC) Invoke(ctx context.Context, form url.Values) *Result {
	attempt := NewAttempt()
	if err := attempt.Transition(StateSubmitting); err != nil {
		return &Result{State: attempt.State(), Err: err}
	}
	uc.log.Info("[submit-booking-uc] submission started")

	b, err := booking.ParseForm(form)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[submit-booking-uc] form rejected: %v", err))
		return uc.fail(attempt, "invalid_form", nil, err)
	}

	alloc := uc.allocator.Allocate(ctx)
	b.BookingNumber = alloc.Number
	if alloc.Degraded {
		uc.metrics.ObserveDegradedAllocation()
	}

	doc, err := uc.composer.Compose(ctx, b)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[submit-booking-uc] booking number %d: composition failed: %v", b.BookingNumber, err))
		return uc.fail(attempt, "composition_failed", b, err)
	}

	if err := uc.saver.AddBooking(ctx, b); err != nil {
		uc.log.Error(fmt.Sprintf("[submit-booking-uc] booking number %d: persistence failed: %v", b.BookingNumber, err))
		return uc.fail(attempt, "persistence_failed", b, err)
	}

	if err := attempt.Transition(StateSuccess); err != nil {
		return &Result{State: attempt.State(), Err: err}
	}
	uc.metrics.ObserveSubmission("success")
	uc.log.Info(fmt.Sprintf("[submit-booking-uc] booking number %d saved as %s", b.BookingNumber, b.ID))

	uc.sendInvoice(ctx, b, doc)

	return &Result{
		State:    StateSuccess,
		Booking:  b,
		Document: doc,
		Degraded: alloc.Degraded,
	}
}

func (uc *SubmitBookingUC) fail(attempt *Attempt, outcome string, b *booking.Booking, err error) *Result {
	if tErr := attempt.Transition(StateFailed); tErr != nil {
		err = errors.Join(err, tErr)
	}
	uc.metrics.ObserveSubmission(outcome)
	return &Result{State: StateFailed, Booking: b, Err: err}
}

func (uc *SubmitBookingUC) sendInvoice(ctx context.Context, b *booking.Booking, doc *invoice.Document) {
	if uc.mailer == nil || b.Email == "" {
		return
	}
	if err := uc.mailer.SendInvoice(ctx, b, doc); err != nil {
		uc.metrics.ObserveEmailFailure()
		uc.log.Warn(fmt.Sprintf("[submit-booking-uc] invoice email for booking number %d failed: %v", b.BookingNumber, err))
	}
}
