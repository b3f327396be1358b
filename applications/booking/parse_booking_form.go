package booking

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidForm       = errors.New("invalid booking form")
	ErrUnrecognizedField = errors.New("unrecognized form field")

	validate = validator.New()
)

const (
	equipmentCountPrefix  = "otherSystemCount_"
	equipmentDetailPrefix = "otherSystemDesc_"
)

// Form field names as posted by the booking page.
const (
	fieldContactName   = "contactName"
	fieldPhone         = "phone"
	fieldEmail         = "email"
	fieldAddress       = "address"
	fieldCity          = "city"
	fieldZip           = "zip"
	fieldEventType     = "eventType"
	fieldEventFor      = "eventFor"
	fieldEventDate     = "eventDate"
	fieldStartTime     = "startTime"
	fieldFinishTime    = "finishTime"
	fieldFunctionRoom  = "functionRoom"
	fieldOrganization  = "organization"
	fieldCompanyName   = "companyName"
	fieldSystemName    = "systemName"
	fieldOtherSystems  = "otherSystems"
	fieldDetails       = "details"
	fieldReferralName  = "referralName"
	fieldReference     = "reference"
	fieldPaymentMethod = "paymentMethod"
	fieldUpidNumber    = "upidNumber"
	fieldUpidDate      = "upidDate"
	fieldUpidRecipient = "upidRecipient"
	fieldTotalAmount   = "totalAmount"
	fieldAdvanceAmount = "advanceAmount"
)

var knownFields = map[string]bool{
	fieldContactName: true, fieldPhone: true, fieldEmail: true, fieldAddress: true,
	fieldCity: true, fieldZip: true, fieldEventType: true, fieldEventFor: true,
	fieldEventDate: true, fieldStartTime: true, fieldFinishTime: true,
	fieldFunctionRoom: true, fieldOrganization: true, fieldCompanyName: true,
	fieldSystemName: true, fieldOtherSystems: true, fieldDetails: true,
	fieldReferralName: true, fieldReference: true, fieldPaymentMethod: true,
	fieldUpidNumber: true, fieldUpidDate: true, fieldUpidRecipient: true,
	fieldTotalAmount: true, fieldAdvanceAmount: true,
}

type bookingForm struct {
	ContactName         string               `validate:"required,max=200"`
	Phone               string               `validate:"max=40"`
	Email               string               `validate:"omitempty,email"`
	Address             string               `validate:"max=300"`
	Equipment           []EquipmentSelection `validate:"max=30"`
	SpecialInstructions string               `validate:"max=2000"`
	ReferralName        string               `validate:"max=200"`
	ReferenceNote       string               `validate:"max=500"`
	PaymentMethod       string               `validate:"omitempty,oneof=Cash Transfer"`
	TotalAmount         float64              `validate:"gte=0"`
	AdvanceAmount       float64              `validate:"gte=0"`
}

// ParseForm turns a submitted booking form into a Booking without a number.
// Equipment keeps the order of the otherSystems values. Non-transfer payments
// drop the transfer fields.
func ParseForm(values url.Values) (*Booking, error) {
	if err := checkFields(values); err != nil {
		return nil, err
	}

	method, err := ParsePaymentMethod(first(values, fieldPaymentMethod))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	b := &Booking{
		ContactName:         first(values, fieldContactName),
		Phone:               first(values, fieldPhone),
		Email:               first(values, fieldEmail),
		Address:             first(values, fieldAddress),
		City:                first(values, fieldCity),
		Zip:                 first(values, fieldZip),
		EventType:           first(values, fieldEventType),
		EventFor:            first(values, fieldEventFor),
		EventDate:           first(values, fieldEventDate),
		StartTime:           first(values, fieldStartTime),
		FinishTime:          first(values, fieldFinishTime),
		FunctionRoom:        first(values, fieldFunctionRoom),
		Organization:        first(values, fieldOrganization),
		CompanyName:         first(values, fieldCompanyName),
		SystemName:          first(values, fieldSystemName),
		Equipment:           parseEquipment(values),
		SpecialInstructions: first(values, fieldDetails),
		ReferralName:        first(values, fieldReferralName),
		ReferenceNote:       first(values, fieldReference),
		PaymentMethod:       method,
		TransferRef:         first(values, fieldUpidNumber),
		TransferDate:        first(values, fieldUpidDate),
		TransferRecipient:   first(values, fieldUpidRecipient),
		TotalAmount:         format.ParseAmount(first(values, fieldTotalAmount)),
		AdvanceAmount:       format.ParseAmount(first(values, fieldAdvanceAmount)),
	}
	b.clearTransferDetails()

	form := bookingForm{
		ContactName:         b.ContactName,
		Phone:               b.Phone,
		Email:               b.Email,
		Address:             b.Address,
		Equipment:           b.Equipment,
		SpecialInstructions: b.SpecialInstructions,
		ReferralName:        b.ReferralName,
		ReferenceNote:       b.ReferenceNote,
		PaymentMethod:       string(b.PaymentMethod),
		TotalAmount:         b.TotalAmount,
		AdvanceAmount:       b.AdvanceAmount,
	}
	if err := validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return b, nil
}

func checkFields(values url.Values) error {
	var unknown []string
	for key := range values {
		if knownFields[key] || strings.HasPrefix(key, equipmentCountPrefix) || strings.HasPrefix(key, equipmentDetailPrefix) {
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %s", ErrUnrecognizedField, strings.Join(unknown, ", "))
}

func parseEquipment(values url.Values) []EquipmentSelection {
	var out []EquipmentSelection
	for _, system := range values[fieldOtherSystems] {
		system = strings.TrimSpace(system)
		if system == "" {
			continue
		}
		label := format.SanitizeLabel(system)
		out = append(out, EquipmentSelection{
			System:      system,
			Count:       first(values, equipmentCountPrefix+label),
			Description: first(values, equipmentDetailPrefix+label),
		})
	}
	return out
}

func first(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}
