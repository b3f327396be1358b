package booking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
	"github.com/VigneshSivaKspm/royal-photography-billing/logger"
)

func validForm() url.Values {
	return url.Values{
		"contactName":   {"Asha Menon"},
		"phone":         {"9876543210"},
		"email":         {"asha@example.com"},
		"address":       {"House No 42, Temple Street Near Market"},
		"eventType":     {"Wedding"},
		"eventDate":     {"2025-03-05"},
		"paymentMethod": {"Cash"},
		"totalAmount":   {"₹25,000"},
		"advanceAmount": {"5000"},
	}
}

func TestBalanceDue(t *testing.T) {
	cases := []struct {
		total, advance, want float64
	}{
		{25000, 5000, 20000},
		{1000, 1000, 0},
		{1000, 1500, -500},
	}
	for _, tc := range cases {
		b := &Booking{TotalAmount: tc.total, AdvanceAmount: tc.advance}
		if got := b.BalanceDue(); got != tc.want {
			t.Fatalf("expected %v, got %v", tc.want, got)
		}
	}
}

func TestEquipmentLine(t *testing.T) {
	cases := []struct {
		in   EquipmentSelection
		want string
	}{
		{EquipmentSelection{System: "Drone"}, "• Drone"},
		{EquipmentSelection{System: "Drone", Count: "2"}, "• Drone (Count: 2)"},
		{EquipmentSelection{System: "Drone", Description: "4K"}, "• Drone - 4K"},
		{EquipmentSelection{System: "LED Wall", Count: "1", Description: "10x8"}, "• LED Wall (Count: 1) - 10x8"},
	}
	for _, tc := range cases {
		if got := tc.in.Line(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}

func TestParsePaymentMethod(t *testing.T) {
	cases := map[string]PaymentMethod{
		"Cash":      PaymentCash,
		"Upid/Gpay": PaymentTransfer,
		"UPI":       PaymentTransfer,
		"transfer":  PaymentTransfer,
		"":          "",
	}
	for in, want := range cases {
		got, err := ParsePaymentMethod(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestParseFormBasic(t *testing.T) {
	b, err := ParseForm(validForm())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ContactName != "Asha Menon" || b.EventType != "Wedding" {
		t.Fatalf("unexpected booking: %+v", b)
	}
	if b.TotalAmount != 25000 || b.AdvanceAmount != 5000 {
		t.Fatalf("expected amounts 25000/5000, got %v/%v", b.TotalAmount, b.AdvanceAmount)
	}
	if b.BookingNumber != 0 {
		t.Fatalf("expected no booking number yet, got %d", b.BookingNumber)
	}
}

func TestParseFormCashDropsTransferFields(t *testing.T) {
	v := validForm()
	v.Set("upidNumber", "UPI-123")
	v.Set("upidDate", "2025-03-01")
	v.Set("upidRecipient", "Royal")

	b, err := ParseForm(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.TransferRef != "" || b.TransferDate != "" || b.TransferRecipient != "" {
		t.Fatalf("expected transfer fields dropped, got %+v", b)
	}

	doc := ToDocument(b)
	for _, key := range []string{"transferRef", "transferDate", "transferRecipient"} {
		if _, ok := doc[key]; ok {
			t.Fatalf("expected %s absent from stored document", key)
		}
	}
}

func TestParseFormTransferKeepsFields(t *testing.T) {
	v := validForm()
	v.Set("paymentMethod", "Upid/Gpay")
	v.Set("upidNumber", "UPI-123")
	v.Set("upidRecipient", "Royal")

	b, err := ParseForm(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PaymentMethod != PaymentTransfer || b.TransferRef != "UPI-123" || b.TransferRecipient != "Royal" {
		t.Fatalf("expected transfer details kept, got %+v", b)
	}
	doc := ToDocument(b)
	if doc["transferRef"] != "UPI-123" {
		t.Fatalf("expected transferRef stored, got %v", doc["transferRef"])
	}
}

func TestParseFormEquipmentOrder(t *testing.T) {
	v := validForm()
	v["otherSystems"] = []string{"LED Wall (10x8)", "Drone"}
	v.Set("otherSystemCount_LED_Wall__10x8_", "2")
	v.Set("otherSystemDesc_LED_Wall__10x8_", "stage left")
	v.Set("otherSystemDesc_Drone", "aerial")
	v.Set("otherSystemCount_Crane", "9")

	b, err := ParseForm(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []EquipmentSelection{
		{System: "LED Wall (10x8)", Count: "2", Description: "stage left"},
		{System: "Drone", Description: "aerial"},
	}
	if len(b.Equipment) != len(want) {
		t.Fatalf("expected %d selections, got %d", len(want), len(b.Equipment))
	}
	for i := range want {
		if b.Equipment[i] != want[i] {
			t.Fatalf("selection %d: expected %+v, got %+v", i, want[i], b.Equipment[i])
		}
	}
}

func TestParseFormRejectsUnknownField(t *testing.T) {
	v := validForm()
	v.Set("discountCode", "FREE")
	if _, err := ParseForm(v); !errors.Is(err, ErrUnrecognizedField) {
		t.Fatalf("expected ErrUnrecognizedField, got %v", err)
	}
}

func TestParseFormValidation(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value string
	}{
		{"missing name", "contactName", ""},
		{"bad email", "email", "not-an-email"},
		{"bad payment method", "paymentMethod", "cheque"},
		{"instructions too long", "details", strings.Repeat("a", 2001)},
		{"reference note too long", "reference", strings.Repeat("a", 501)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := validForm()
			v.Set(tc.field, tc.value)
			if _, err := ParseForm(v); !errors.Is(err, ErrInvalidForm) {
				t.Fatalf("expected ErrInvalidForm, got %v", err)
			}
		})
	}
}

func TestParseFormLimitsEquipmentCount(t *testing.T) {
	v := validForm()
	for i := 0; i < 31; i++ {
		v.Add("otherSystems", fmt.Sprintf("System %d", i))
	}
	if _, err := ParseForm(v); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("expected ErrInvalidForm for 31 selections, got %v", err)
	}

	v["otherSystems"] = v["otherSystems"][:30]
	if _, err := ParseForm(v); err != nil {
		t.Fatalf("expected 30 selections to pass, got %v", err)
	}
}

func TestFromDocumentLegacyShape(t *testing.T) {
	doc := store.Document{
		"bookingNumber": "17",
		"contactName":   "Ravi",
		"paymentMethod": "Upid/Gpay",
		"upidNumber":    "REF-9",
		"totalAmount":   "₹12,000",
		"advanceAmount": float64(2000),
		"details":       "Bring extra lights",
		"otherSystemsDetails": []any{
			map[string]any{"system": "Drone", "count": "1", "desc": "aerial"},
		},
		store.CreatedAtField: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
	}

	b := FromDocument("doc-1", doc)
	if b.ID != "doc-1" || b.BookingNumber != 17 {
		t.Fatalf("unexpected identity: %+v", b)
	}
	if b.PaymentMethod != PaymentTransfer || b.TransferRef != "REF-9" {
		t.Fatalf("expected legacy transfer fields, got %+v", b)
	}
	if b.TotalAmount != 12000 || b.BalanceDue() != 10000 {
		t.Fatalf("expected total 12000 and balance 10000, got %v / %v", b.TotalAmount, b.BalanceDue())
	}
	if b.SpecialInstructions != "Bring extra lights" {
		t.Fatalf("expected legacy details, got %q", b.SpecialInstructions)
	}
	if len(b.Equipment) != 1 || b.Equipment[0].Description != "aerial" {
		t.Fatalf("expected legacy equipment, got %+v", b.Equipment)
	}
	if b.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be read")
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := store.NewMemoryStore().WithClock(func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	})
	repo := NewRepository(logger.Discard(), s)

	for n, name := range []string{"Older", "Newer"} {
		b, err := ParseForm(url.Values{"contactName": {name}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b.BookingNumber = int64(n + 1)
		if err := repo.AddBooking(ctx, b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.ID == "" {
			t.Fatal("expected id to be set")
		}
	}

	list, err := repo.ListBookings(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].ContactName != "Newer" || list[0].BookingNumber != 2 {
		t.Fatalf("expected newest first, got %+v", list)
	}

	got, err := repo.GetBooking(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ContactName != "Older" {
		t.Fatalf("expected Older, got %q", got.ContactName)
	}

	if _, err := repo.GetBooking(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type addFailStore struct{ store.DocumentStore }

func (addFailStore) Add(context.Context, string, store.Document) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestRepositoryAddFailure(t *testing.T) {
	repo := NewRepository(logger.Discard(), addFailStore{store.NewMemoryStore()})
	err := repo.AddBooking(context.Background(), &Booking{ContactName: "X", BookingNumber: 3})
	if !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
}
