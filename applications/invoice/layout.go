package invoice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"
)

// A4 in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	contentWidth = PageWidth - 2*Margin
	rowStep      = 13.0

	// PaymentLatestY is the lowest start of the payment heading that keeps
	// every payment row and the customer signature above the footer.
	PaymentLatestY = PageHeight - Margin - 205

	equipmentStep      = 15.0
	instructionsStep   = 12.0
	instructionsMinLen = 15 + instructionsStep
)

type Section string

const (
	SectionCorners      Section = "corners"
	SectionHeader       Section = "header"
	SectionCustomer     Section = "customer_event"
	SectionEquipment    Section = "equipment"
	SectionInstructions Section = "instructions"
	SectionReferral     Section = "referral"
	SectionPayment      Section = "payment"
	SectionSignature    Section = "signature"
	SectionFooter       Section = "footer"
)

type OpKind int

const (
	OpLine OpKind = iota
	OpRect
	OpCircle
	OpText
	OpImage
)

type Align string

const (
	AlignLeft   Align = "L"
	AlignRight  Align = "R"
	AlignCenter Align = "C"
)

// Asset names an image slot on the invoice.
type Asset string

const (
	AssetLogo        Asset = "logo"
	AssetInstagramQR Asset = "instagram_qr"
	AssetPaymentQR   Asset = "payment_qr"
	AssetSignature   Asset = "signature"
)

var allAssets = []Asset{AssetLogo, AssetInstagramQR, AssetPaymentQR, AssetSignature}

type Color struct {
	R, G, B int
}

// ParseColor reads #RRGGBB or #RGB.
func ParseColor(hex string) Color {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil || len(h) != 6 {
		return Color{}
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

var (
	colorGold      = ParseColor("#EFBF04")
	colorDarkGreen = ParseColor("#0B3D2E")
	colorTextDark  = ParseColor("#232323")
	colorWhite     = ParseColor("#fff")
)

type Font struct {
	Family string
	Style  string
	Size   float64
}

var (
	fontTitle   = Font{Family: "Times", Style: "B", Size: 22}
	fontSub     = Font{Family: "Helvetica", Size: 13}
	fontHeading = Font{Family: "Helvetica", Style: "B", Size: 12}
	fontBody    = Font{Family: "Helvetica", Size: 10}
	fontBold    = Font{Family: "Helvetica", Style: "B", Size: 10}
	fontBrand   = Font{Family: "Times", Style: "B", Size: 11}
	fontContact = Font{Family: "Helvetica", Size: 9}
)

// Op is one drawing instruction. Coordinates are points from the top left;
// text Y is the baseline.
type Op struct {
	Kind    OpKind
	Section Section

	X, Y   float64
	X2, Y2 float64 // line end
	W, H   float64
	R      float64 // corner or circle radius

	Color     Color
	LineWidth float64

	Text  string
	Font  Font
	Align Align

	Asset Asset
}

type Layout struct {
	Width, Height float64
	Ops           []Op
}

// Sections lists sections in first-drawn order.
func (l *Layout) Sections() []Section {
	var out []Section
	seen := map[Section]bool{}
	for _, op := range l.Ops {
		if !seen[op.Section] {
			seen[op.Section] = true
			out = append(out, op.Section)
		}
	}
	return out
}

// Texts returns the text ops of one section in drawing order.
func (l *Layout) Texts(s Section) []Op {
	var out []Op
	for _, op := range l.Ops {
		if op.Section == s && op.Kind == OpText {
			out = append(out, op)
		}
	}
	return out
}

// TextMeasurer reports the rendered width of text in points.
type TextMeasurer interface {
	Width(text string, font Font) float64
}

type Branding struct {
	Name           string
	Subtitle       string
	ContactLine    string
	SignatoryTitle string
	SignatoryOrg   string
}

type LayoutInput struct {
	Booking     *booking.Booking
	Brand       Branding
	GeneratedAt time.Time
}

type layoutBuilder struct {
	ops     []Op
	section Section
	measure TextMeasurer
}

func (lb *layoutBuilder) text(x, y float64, s string, f Font, c Color, a Align) {
	lb.ops = append(lb.ops, Op{Kind: OpText, Section: lb.section, X: x, Y: y, Text: s, Font: f, Color: c, Align: a})
}

func (lb *layoutBuilder) line(x1, y1, x2, y2, width float64, c Color) {
	lb.ops = append(lb.ops, Op{Kind: OpLine, Section: lb.section, X: x1, Y: y1, X2: x2, Y2: y2, LineWidth: width, Color: c})
}

func (lb *layoutBuilder) roundedRect(x, y, w, h, r float64, c Color) {
	lb.ops = append(lb.ops, Op{Kind: OpRect, Section: lb.section, X: x, Y: y, W: w, H: h, R: r, Color: c})
}

func (lb *layoutBuilder) circle(x, y, r float64, c Color) {
	lb.ops = append(lb.ops, Op{Kind: OpCircle, Section: lb.section, X: x, Y: y, R: r, Color: c})
}

func (lb *layoutBuilder) image(a Asset, x, y, w, h float64) {
	lb.ops = append(lb.ops, Op{Kind: OpImage, Section: lb.section, X: x, Y: y, W: w, H: h, Asset: a})
}

// row draws "label : value" with the value column at valueX.
func (lb *layoutBuilder) row(x, valueX, y float64, label, value string) {
	lb.text(x, y, label, fontBody, colorTextDark, AlignLeft)
	lb.text(valueX, y, ": "+value, fontBody, colorTextDark, AlignLeft)
}

func (lb *layoutBuilder) heading(y float64, title string) {
	lb.text(Margin+12, y+15, title, fontHeading, colorDarkGreen, AlignLeft)
}

// BuildLayout places every element of the invoice. It does no I/O; the same
// input and measurer always give the same layout.
func BuildLayout(in LayoutInput, measure TextMeasurer) *Layout {
	b := in.Booking
	lb := &layoutBuilder{measure: measure}

	lb.section = SectionCorners
	drawCorners(lb)

	lb.section = SectionHeader
	drawHeader(lb, in)

	lb.section = SectionCustomer
	y := drawCustomerAndEvent(lb, b, Margin+90)

	hasReferral := b.ReferralName != "" || b.ReferenceNote != ""
	var reserveInstructions, reserveReferral float64
	if b.SpecialInstructions != "" {
		reserveInstructions = instructionsMinLen
	}
	if hasReferral {
		reserveReferral = 42 + 10
		if b.ReferralName != "" {
			reserveReferral += rowStep
		}
		if b.ReferenceNote != "" {
			reserveReferral += rowStep
		}
	}

	// Optional sections share the room above PaymentLatestY; whatever does
	// not fit is cut with an ellipsis line.
	if len(b.Equipment) > 0 {
		lb.section = SectionEquipment
		lb.heading(y, "EQUIPMENTS")
		y += 42
		room := fitCount(PaymentLatestY-y-5-reserveInstructions-reserveReferral, equipmentStep)
		for _, l := range equipmentLines(b.Equipment, room) {
			lb.text(Margin+28, y, l, fontBody, colorTextDark, AlignLeft)
			y += equipmentStep
		}
		y += 5
	}

	if b.SpecialInstructions != "" {
		lb.section = SectionInstructions
		lb.text(Margin+12, y, "Special Instructions:", fontBold, colorTextDark, AlignLeft)
		lines := wrapText(b.SpecialInstructions, contentWidth-40, fontBody, measure)
		lines = clampLines(lines, fitCount(PaymentLatestY-y-15-reserveReferral, instructionsStep))
		for i, l := range lines {
			lb.text(Margin+28, y+15+float64(i)*instructionsStep, l, fontBody, colorTextDark, AlignLeft)
		}
		y += 15 + float64(len(lines))*instructionsStep
	}

	if hasReferral {
		lb.section = SectionReferral
		y = drawReferral(lb, b, y)
	}

	lb.section = SectionPayment
	y = drawPayment(lb, b, y)

	lb.section = SectionSignature
	drawSignature(lb, in.Brand, y)

	lb.section = SectionFooter
	drawFooter(lb, in.Brand)

	return &Layout{Width: PageWidth, Height: PageHeight, Ops: lb.ops}
}

func drawCorners(lb *layoutBuilder) {
	const pad, length, width = 8.0, 40.0, 1.2
	pw, ph := PageWidth, PageHeight

	lb.line(pad, pad, pad+length, pad, width, colorDarkGreen)
	lb.line(pad, pad, pad, pad+length, width, colorDarkGreen)
	lb.line(pw-pad, pad, pw-pad-length, pad, width, colorDarkGreen)
	lb.line(pw-pad, pad, pw-pad, pad+length, width, colorDarkGreen)
	lb.line(pad, ph-pad, pad+length, ph-pad, width, colorDarkGreen)
	lb.line(pad, ph-pad, pad, ph-pad-length, width, colorDarkGreen)
	lb.line(pw-pad, ph-pad, pw-pad-length, ph-pad, width, colorDarkGreen)
	lb.line(pw-pad, ph-pad, pw-pad, ph-pad-length, width, colorDarkGreen)
}

func drawHeader(lb *layoutBuilder, in LayoutInput) {
	m := Margin
	lb.roundedRect(m, m, contentWidth, 70, 16, colorDarkGreen)
	lb.circle(m+35, m+35, 28, colorGold)
	lb.image(AssetLogo, m+10, m+10, 50, 50)

	lb.text(m+75, m+38, in.Brand.Name, fontTitle, colorWhite, AlignLeft)
	lb.text(m+75, m+58, in.Brand.Subtitle, fontSub, colorWhite, AlignLeft)

	number := ""
	if in.Booking.BookingNumber != 0 {
		number = strconv.FormatInt(in.Booking.BookingNumber, 10)
	}
	rightX := PageWidth - m - 25
	lb.text(rightX, m+25, "Booking Date : "+format.FormatGeneratedDate(in.GeneratedAt), fontBody, colorWhite, AlignRight)
	lb.text(rightX, m+40, "Event Date : "+format.FormatDate(in.Booking.EventDate), fontBody, colorWhite, AlignRight)
	lb.text(rightX, m+55, "Booking No : "+number, fontBody, colorWhite, AlignRight)
}

func drawCustomerAndEvent(lb *layoutBuilder, b *booking.Booking, y float64) float64 {
	lb.heading(y, "CUSTOMER & EVENT DETAILS")
	y += 42

	col1 := Margin + 12
	col2 := Margin + contentWidth/2 + 12

	lb.text(col1, y, "Customer", fontBold, colorTextDark, AlignLeft)
	clientY := y + 15
	lb.row(col1, col1+78, clientY, "Name", b.ContactName)
	clientY += rowStep
	lb.row(col1, col1+78, clientY, "Phone", b.Phone)
	clientY += rowStep
	lb.row(col1, col1+78, clientY, "Email", b.Email)
	clientY += rowStep

	addr := format.SplitAddress(b.Address)
	lb.row(col1, col1+78, clientY, "Address", addr[0])
	if len(addr) > 1 {
		clientY += rowStep
		lb.text(col1+78, clientY, "  "+addr[1], fontBody, colorTextDark, AlignLeft)
	}
	clientY += rowStep
	lb.row(col1, col1+78, clientY, "City", b.City)
	clientY += rowStep
	lb.row(col1, col1+78, clientY, "Zip Code", b.Zip)

	lb.text(col2, y, "Event", fontBold, colorTextDark, AlignLeft)
	eventY := y + 15
	rows := []struct{ label, value string }{
		{"Type", b.EventType},
		{"For", b.EventFor},
		{"Date", format.FormatDate(b.EventDate)},
		{"Starting", format.FormatDateTime(b.StartTime)},
		{"Ending", format.FormatDateTime(b.FinishTime)},
		{"Venue", b.FunctionRoom},
		{"Organization", b.Organization},
	}
	for i, r := range rows {
		if i > 0 {
			eventY += rowStep
		}
		lb.row(col2, col2+78, eventY, r.label, r.value)
	}

	return math.Max(clientY, eventY) + 10
}

func drawReferral(lb *layoutBuilder, b *booking.Booking, y float64) float64 {
	lb.heading(y, "REFERRAL DETAILS")
	y += 42

	refY := y
	if b.ReferralName != "" {
		lb.row(Margin+12, Margin+90, refY, "Referred By", b.ReferralName)
		refY += rowStep
	}
	if b.ReferenceNote != "" {
		lb.text(Margin+12, refY, "Reference Note", fontBody, colorTextDark, AlignLeft)
		lb.text(Margin+90, refY, ":", fontBody, colorTextDark, AlignLeft)
		lines := wrapText(b.ReferenceNote, contentWidth-100, fontBody, lb.measure)
		lines = clampLines(lines, fitCount(PaymentLatestY-refY-10, rowStep))
		for i, l := range lines {
			lb.text(Margin+95, refY+float64(i)*rowStep, l, fontBody, colorTextDark, AlignLeft)
		}
		refY += float64(len(lines)) * rowStep
	}
	return refY + 10
}

func drawPayment(lb *layoutBuilder, b *booking.Booking, y float64) float64 {
	lb.heading(y, "PAYMENT DETAILS")
	y += 42

	labelX, valueX := Margin+12, Margin+100
	payY := y
	add := func(label, value string) {
		lb.row(labelX, valueX, payY, label, value)
		payY += rowStep
	}

	add("Total Amount", format.FormatCurrency(b.TotalAmount))
	add("Advance Paid", format.FormatCurrency(b.AdvanceAmount))
	add("Payment Method", string(b.PaymentMethod))
	if b.HasTransferDetails() {
		if b.TransferRef != "" {
			add("Transfer Ref", b.TransferRef)
		}
		if b.TransferDate != "" {
			add("Transfer Date", format.FormatDate(b.TransferDate))
		}
		if b.TransferRecipient != "" {
			add("Recipient", b.TransferRecipient)
		}
	}
	lb.row(labelX, valueX, payY, "Balance Due", format.FormatCurrency(b.BalanceDue()))
	return payY + 20
}

func drawSignature(lb *layoutBuilder, brand Branding, y float64) {
	pw, ph, m := PageWidth, PageHeight, Margin

	lb.line(pw-m-150, y, pw-m, y, 1, colorGold)
	lb.text(pw-m-75, y+20, "Customer Signature", fontBody, colorTextDark, AlignCenter)

	signX, signY := pw-m-100, ph-m-130
	lb.image(AssetSignature, signX, signY, 80, 40)
	labelX, labelY := signX+40, signY+50
	lb.text(labelX, labelY, brand.SignatoryTitle, fontBody, colorTextDark, AlignCenter)
	lb.text(labelX, labelY+14, brand.SignatoryOrg, fontBody, colorTextDark, AlignCenter)
}

func drawFooter(lb *layoutBuilder, brand Branding) {
	const qrSize, qrGap, extraRight = 30.0, 10.0, 20.0
	m := Margin
	y := PageHeight - m - 40

	lb.roundedRect(m, y, contentWidth, 40, 10, colorDarkGreen)
	lb.text(m+12, y+18, brand.Name, fontBrand, colorWhite, AlignLeft)
	lb.text(m+12, y+33, brand.ContactLine, fontContact, colorWhite, AlignLeft)

	lb.image(AssetInstagramQR, PageWidth-m-qrSize*2-qrGap-extraRight, y+5, qrSize, qrSize)
	lb.image(AssetPaymentQR, PageWidth-m-qrSize-extraRight, y+5, qrSize, qrSize)
}

// wrapText breaks text into lines no wider than width, on spaces where
// possible. Explicit newlines always break.
func wrapText(text string, width float64, f Font, measure TextMeasurer) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, w := range words {
			candidate := w
			if current != "" {
				candidate = current + " " + w
			}
			if measure.Width(candidate, f) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = ""
			for _, piece := range breakWord(w, width, f, measure) {
				if current != "" {
					lines = append(lines, current)
				}
				current = piece
			}
		}
		lines = append(lines, current)
	}
	return trimTrailingEmpty(lines)
}

// fitCount is how many rows of height step fit in room, never less than one.
func fitCount(room, step float64) int {
	n := int(math.Floor(room / step))
	if n < 1 {
		return 1
	}
	return n
}

// equipmentLines renders the selections, replacing the tail with a count
// line when more than room rows are needed.
func equipmentLines(sel []booking.EquipmentSelection, room int) []string {
	lines := make([]string, 0, len(sel))
	if len(sel) <= room {
		for _, e := range sel {
			lines = append(lines, e.Line())
		}
		return lines
	}
	shown := room - 1
	for _, e := range sel[:shown] {
		lines = append(lines, e.Line())
	}
	return append(lines, fmt.Sprintf("• ... and %d more", len(sel)-shown))
}

// clampLines keeps at most room lines, the last one becoming "..." when text
// is dropped.
func clampLines(lines []string, room int) []string {
	if len(lines) <= room {
		return lines
	}
	out := append([]string(nil), lines[:room-1]...)
	return append(out, "...")
}

// breakWord splits a single word that is wider than width.
func breakWord(w string, width float64, f Font, measure TextMeasurer) []string {
	if measure.Width(w, f) <= width {
		return []string{w}
	}
	var out []string
	var b strings.Builder
	for _, r := range w {
		next := b.String() + string(r)
		if b.Len() > 0 && measure.Width(next, f) > width {
			out = append(out, b.String())
			b.Reset()
		}
		b.WriteRune(r)
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (k OpKind) String() string {
	switch k {
	case OpLine:
		return "line"
	case OpRect:
		return "rect"
	case OpCircle:
		return "circle"
	case OpText:
		return "text"
	case OpImage:
		return "image"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}
