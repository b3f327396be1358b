package booking

import (
	"fmt"
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Cash"
	PaymentTransfer PaymentMethod = "Transfer"
)

// ParsePaymentMethod accepts the labels the booking form has used over time.
// An empty value stays unspecified.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "cash":
		return PaymentCash, nil
	case "transfer", "upid/gpay", "upi", "gpay", "upi/gpay":
		return PaymentTransfer, nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

type EquipmentSelection struct {
	System      string `json:"system"`
	Count       string `json:"count,omitempty"`
	Description string `json:"description,omitempty"`
}

// Line renders the selection as shown on the invoice.
func (e EquipmentSelection) Line() string {
	line := "• " + e.System
	if e.Count != "" {
		line += fmt.Sprintf(" (Count: %s)", e.Count)
	}
	if e.Description != "" {
		line += " - " + e.Description
	}
	return line
}

type Booking struct {
	ID            string `json:"id,omitempty"`
	BookingNumber int64  `json:"bookingNumber"`

	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Zip         string `json:"zip"`

	EventType    string `json:"eventType"`
	EventFor     string `json:"eventFor"`
	EventDate    string `json:"eventDate"`
	StartTime    string `json:"startTime"`
	FinishTime   string `json:"finishTime"`
	FunctionRoom string `json:"functionRoom"`
	Organization string `json:"organization"`
	CompanyName  string `json:"companyName,omitempty"`
	SystemName   string `json:"systemName,omitempty"`

	Equipment []EquipmentSelection `json:"equipmentSelections"`

	SpecialInstructions string `json:"specialInstructions,omitempty"`
	ReferralName        string `json:"referralName,omitempty"`
	ReferenceNote       string `json:"referenceNote,omitempty"`

	PaymentMethod     PaymentMethod `json:"paymentMethod"`
	TransferRef       string        `json:"transferRef,omitempty"`
	TransferDate      string        `json:"transferDate,omitempty"`
	TransferRecipient string        `json:"transferRecipient,omitempty"`

	TotalAmount   float64   `json:"totalAmount"`
	AdvanceAmount float64   `json:"advanceAmount"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// BalanceDue is never clamped; overpayment yields a negative balance.
func (b *Booking) BalanceDue() float64 {
	return b.TotalAmount - b.AdvanceAmount
}

// HasTransferDetails reports whether transfer sub-fields apply to this record.
func (b *Booking) HasTransferDetails() bool {
	return b.PaymentMethod == PaymentTransfer
}

// clearTransferDetails keeps the transfer fields absent for non-transfer payments.
func (b *Booking) clearTransferDetails() {
	if b.HasTransferDetails() {
		return
	}
	b.TransferRef = ""
	b.TransferDate = ""
	b.TransferRecipient = ""
}
