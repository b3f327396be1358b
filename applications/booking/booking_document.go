package booking

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"
)

// ToDocument maps a booking onto its stored field names. createdAt is left to
// the store and transfer fields are only written for transfer payments.
func ToDocument(b *Booking) store.Document {
	equipment := make([]any, 0, len(b.Equipment))
	for _, e := range b.Equipment {
		equipment = append(equipment, map[string]any{
			"system":      e.System,
			"count":       e.Count,
			"description": e.Description,
		})
	}

	doc := store.Document{
		"bookingNumber":       b.BookingNumber,
		"contactName":         b.ContactName,
		"phone":               b.Phone,
		"email":               b.Email,
		"address":             b.Address,
		"city":                b.City,
		"zip":                 b.Zip,
		"eventType":           b.EventType,
		"eventFor":            b.EventFor,
		"eventDate":           b.EventDate,
		"startTime":           b.StartTime,
		"finishTime":          b.FinishTime,
		"functionRoom":        b.FunctionRoom,
		"organization":        b.Organization,
		"companyName":         b.CompanyName,
		"systemName":          b.SystemName,
		"equipmentSelections": equipment,
		"specialInstructions": b.SpecialInstructions,
		"referralName":        b.ReferralName,
		"referenceNote":       b.ReferenceNote,
		"paymentMethod":       string(b.PaymentMethod),
		"totalAmount":         b.TotalAmount,
		"advanceAmount":       b.AdvanceAmount,
	}
	if b.HasTransferDetails() {
		doc["transferRef"] = b.TransferRef
		doc["transferDate"] = b.TransferDate
		doc["transferRecipient"] = b.TransferRecipient
	}
	return doc
}

// FromDocument reads a stored booking. Records written by the older booking
// page (otherSystemsDetails, upid* fields, string numbers) are accepted too.
func FromDocument(id string, doc store.Document) *Booking {
	method, err := ParsePaymentMethod(stringField(doc, "paymentMethod"))
	if err != nil {
		method = PaymentMethod(stringField(doc, "paymentMethod"))
	}

	b := &Booking{
		ID:                  id,
		BookingNumber:       intField(doc["bookingNumber"]),
		ContactName:         stringField(doc, "contactName"),
		Phone:               stringField(doc, "phone"),
		Email:               stringField(doc, "email"),
		Address:             stringField(doc, "address"),
		City:                stringField(doc, "city"),
		Zip:                 stringField(doc, "zip"),
		EventType:           stringField(doc, "eventType"),
		EventFor:            stringField(doc, "eventFor"),
		EventDate:           stringField(doc, "eventDate"),
		StartTime:           stringField(doc, "startTime"),
		FinishTime:          stringField(doc, "finishTime"),
		FunctionRoom:        stringField(doc, "functionRoom"),
		Organization:        stringField(doc, "organization"),
		CompanyName:         stringField(doc, "companyName"),
		SystemName:          stringField(doc, "systemName"),
		Equipment:           equipmentField(doc),
		SpecialInstructions: stringField(doc, "specialInstructions", "details"),
		ReferralName:        stringField(doc, "referralName"),
		ReferenceNote:       stringField(doc, "referenceNote", "reference"),
		PaymentMethod:       method,
		TransferRef:         stringField(doc, "transferRef", "upidNumber"),
		TransferDate:        stringField(doc, "transferDate", "upidDate"),
		TransferRecipient:   stringField(doc, "transferRecipient", "upidRecipient"),
		TotalAmount:         format.ParseAmount(doc["totalAmount"]),
		AdvanceAmount:       format.ParseAmount(doc["advanceAmount"]),
		CreatedAt:           timeField(doc[store.CreatedAtField]),
	}
	b.clearTransferDetails()
	return b
}

// stringField returns the first non-empty value among keys.
func stringField(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := toString(doc[key]); s != "" {
			return s
		}
	}
	return ""
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func intField(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int64(x)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func timeField(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			return t
		}
	}
	return time.Time{}
}

func equipmentField(doc map[string]any) []EquipmentSelection {
	raw, ok := doc["equipmentSelections"].([]any)
	if !ok {
		raw, _ = doc["otherSystemsDetails"].([]any)
	}

	var out []EquipmentSelection
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sel := EquipmentSelection{
			System:      stringField(m, "system"),
			Count:       stringField(m, "count"),
			Description: stringField(m, "description", "desc"),
		}
		if sel.System == "" {
			continue
		}
		out = append(out, sel)
	}
	return out
}
