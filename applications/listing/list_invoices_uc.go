package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"
	"github.com/VigneshSivaKspm/royal-photography-billing/metrics"
)

// Placeholder fills any field the stored record does not have.
const Placeholder = "N/A"

const BookingsPath = "/api/v1/bookings"

type ListState string

const (
	ListEmpty ListState = "empty"
	ListError ListState = "error"
	ListReady ListState = "ready"
)

// BookingReader is the read side of the booking repository.
type BookingReader interface {
	ListBookings(ctx context.Context) ([]*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
}

// Retry tells the client how to load the list again.
type Retry struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type Card struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	EventDate    string `json:"eventDate"`
	CustomerName string `json:"customerName"`
	Total        string `json:"total"`
	DetailPath   string `json:"detailPath"`
	InvoicePath  string `json:"invoicePath"`
}

type ListView struct {
	State   ListState `json:"state"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	Count   int       `json:"count"`
	Cards   []Card    `json:"cards,omitempty"`
	Retry   *Retry    `json:"retry,omitempty"`
}

type ListInvoicesUC struct {
	log     *slog.Logger
	reader  BookingReader
	metrics *metrics.Metrics
}

func NewListInvoicesUC(log *slog.Logger, reader BookingReader) *ListInvoicesUC {
	return &ListInvoicesUC{
		log:    log,
		reader: reader,
	}
}

func (uc *ListInvoicesUC) WithMetrics(m *metrics.Metrics) *ListInvoicesUC {
	uc.metrics = m
	return uc
}

// Invoke issues exactly one store query. Retrying means calling it again.
func (uc *ListInvoicesUC) Invoke(ctx context.Context) ListView {
	uc.log.Info("[list-invoices-uc] loading invoices")

	bookings, err := uc.reader.ListBookings(ctx)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[list-invoices-uc] failed to load invoices: %v", err))
		uc.metrics.ObserveListing(string(ListError))
		return ListView{
			State:   ListError,
			Title:   "Error Loading Invoices",
			Message: "Failed to load invoices. Please try again.",
			Retry:   &Retry{Method: "GET", Path: BookingsPath},
		}
	}

	if len(bookings) == 0 {
		uc.metrics.ObserveListing(string(ListEmpty))
		return ListView{
			State:   ListEmpty,
			Title:   "No Invoices Found",
			Message: "There are no invoices to display at this time.",
		}
	}

	cards := make([]Card, 0, len(bookings))
	for _, b := range bookings {
		cards = append(cards, newCard(b))
	}
	uc.metrics.ObserveListing(string(ListReady))
	uc.log.Info(fmt.Sprintf("[list-invoices-uc] loaded %d invoices", len(cards)))

	return ListView{
		State: ListReady,
		Title: "Invoices",
		Count: len(cards),
		Cards: cards,
	}
}

func newCard(b *booking.Booking) Card {
	name := b.ContactName
	if name == "" {
		name = "Unnamed Customer"
	}
	return Card{
		ID:           b.ID,
		Number:       "#" + numberOrPlaceholder(b.BookingNumber),
		EventDate:    dateOrPlaceholder(b.EventDate),
		CustomerName: name,
		Total:        format.FormatRupees(b.TotalAmount),
		DetailPath:   BookingsPath + "/" + b.ID,
		InvoicePath:  BookingsPath + "/" + b.ID + "/invoice",
	}
}

func numberOrPlaceholder(n int64) string {
	if n == 0 {
		return Placeholder
	}
	return strconv.FormatInt(n, 10)
}

func dateOrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return format.FormatDate(s)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
