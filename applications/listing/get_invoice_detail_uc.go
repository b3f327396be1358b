package listing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"
)

type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type DetailSection struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

type DetailView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	EventDate   string          `json:"eventDate"`
	Total       string          `json:"total"`
	Sections    []DetailSection `json:"sections"`
	InvoicePath string          `json:"invoicePath"`
}

type GetInvoiceDetailUC struct {
	log    *slog.Logger
	reader BookingReader
}

func NewGetInvoiceDetailUC(log *slog.Logger, reader BookingReader) *GetInvoiceDetailUC {
	return &GetInvoiceDetailUC{
		log:    log,
		reader: reader,
	}
}

// Invoke returns store.ErrNotFound (wrapped) for unknown ids.
func (uc *GetInvoiceDetailUC) Invoke(ctx context.Context, id string) (*DetailView, error) {
	b, err := uc.reader.GetBooking(ctx, id)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[invoice-detail-uc] booking %s: %v", id, err))
		return nil, err
	}
	return NewDetailView(b), nil
}

// NewDetailView groups a booking into the five detail sections.
func NewDetailView(b *booking.Booking) *DetailView {
	address := joinNonEmpty(", ", b.Address, b.City, b.Zip)

	createdAt := Placeholder
	if !b.CreatedAt.IsZero() {
		createdAt = format.FormatTimestamp(b.CreatedAt)
	}

	return &DetailView{
		ID:          b.ID,
		Title:       "Invoice #" + numberOrPlaceholder(b.BookingNumber),
		EventDate:   dateOrPlaceholder(b.EventDate),
		Total:       format.FormatRupees(b.TotalAmount),
		InvoicePath: BookingsPath + "/" + b.ID + "/invoice",
		Sections: []DetailSection{
			{
				Title: "Customer Details",
				Fields: []Field{
					{"Name", orPlaceholder(b.ContactName)},
					{"Contact", orPlaceholder(b.Phone)},
					{"Email", orPlaceholder(b.Email)},
					{"Address", orPlaceholder(address)},
				},
			},
			{
				Title: "Event Details",
				Fields: []Field{
					{"Event Type", orPlaceholder(b.EventType)},
					{"Event For", orPlaceholder(b.EventFor)},
					{"Event Date", dateOrPlaceholder(b.EventDate)},
					{"Start Time", orPlaceholder(b.StartTime)},
					{"Finish Time", orPlaceholder(b.FinishTime)},
					{"Venue", orPlaceholder(b.FunctionRoom)},
					{"Organization", orPlaceholder(b.Organization)},
					{"Company Name", orPlaceholder(b.CompanyName)},
					{"System Name", orPlaceholder(b.SystemName)},
				},
			},
			{
				Title: "Equipment",
				Fields: []Field{
					{"Other Systems", orPlaceholder(equipmentSummary(b.Equipment))},
					{"Details", orPlaceholder(b.SpecialInstructions)},
				},
			},
			{
				Title: "Payment",
				Fields: []Field{
					{"Advance Paid", format.FormatRupees(b.AdvanceAmount)},
					{"Total Amount", format.FormatRupees(b.TotalAmount)},
					{"Balance Due", format.FormatRupees(b.BalanceDue())},
					{"Payment Method", orPlaceholder(string(b.PaymentMethod))},
					{"Transfer Ref", orPlaceholder(b.TransferRef)},
					{"Transfer Date", dateOrPlaceholder(b.TransferDate)},
					{"Transfer Recipient", orPlaceholder(b.TransferRecipient)},
				},
			},
			{
				Title: "Other Information",
				Fields: []Field{
					{"Referral Name", orPlaceholder(b.ReferralName)},
					{"Reference", orPlaceholder(b.ReferenceNote)},
					{"Created At", createdAt},
				},
			},
		},
	}
}

func equipmentSummary(sel []booking.EquipmentSelection) string {
	names := make([]string, 0, len(sel))
	for _, s := range sel {
		names = append(names, strings.TrimPrefix(s.Line(), "• "))
	}
	return strings.Join(names, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
