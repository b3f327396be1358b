package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/format"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
)

const ResendAPI = "https://api.resend.com/emails"

// ---- Resend payloads ----

type Attachment struct {
	Filename string `json:"filename"`
	// Resend expects base64-encoded content
	Content string `json:"content"`
}

type ResendEmail struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	Html        string       `json:"html"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ResendMailer sends invoices through the Resend HTTP API. Without an API key
// it only logs the message.
type ResendMailer struct {
	log      *slog.Logger
	apiKey   string
	from     string
	brand    string
	endpoint string
	client   *http.Client
}

func NewResendMailer(log *slog.Logger, apiKey, from, brand string) *ResendMailer {
	return &ResendMailer{
		log:      log,
		apiKey:   apiKey,
		from:     from,
		brand:    brand,
		endpoint: ResendAPI,
		client:   http.DefaultClient,
	}
}

// WithEndpoint points the mailer at another API base, e.g. a test server.
func (m *ResendMailer) WithEndpoint(endpoint string, client *http.Client) *ResendMailer {
	m.endpoint = endpoint
	if client != nil {
		m.client = client
	}
	return m
}

// SendInvoice mails the composed PDF to the booking's contact address.
func (m *ResendMailer) SendInvoice(ctx context.Context, b *booking.Booking, doc *invoice.Document) error {
	m.log.Info(fmt.Sprintf("[notify] Sending invoice %s to %s", doc.FileName, b.Email))

	body := fmt.Sprintf(`
		<h2>%s</h2>
		<p>Dear %s,</p>
		<p>Thank you for your booking. Your invoice is attached.</p>
		<p><b>Booking No:</b> %d<br><b>Event Date:</b> %s<br><b>Total:</b> %s<br><b>Balance Due:</b> %s</p>
	`,
		html.EscapeString(m.brand),
		html.EscapeString(b.ContactName),
		b.BookingNumber,
		html.EscapeString(format.FormatDate(b.EventDate)),
		format.FormatRupees(b.TotalAmount),
		format.FormatRupees(b.BalanceDue()),
	)

	att := Attachment{
		Filename: doc.FileName,
		Content:  base64.StdEncoding.EncodeToString(doc.PDF),
	}
	subject := fmt.Sprintf("%s booking confirmation #%d", m.brand, b.BookingNumber)
	return m.send(ctx, b.Email, subject, body, "", att)
}

// single helper for sending (optionally with attachments)
func (m *ResendMailer) send(ctx context.Context, to, subject, htmlBody, textBody string, atts ...Attachment) error {
	if m.apiKey == "" {
		m.log.Warn(fmt.Sprintf("[notify] Missing RESEND_API_KEY, mock email to %s (%q, %d attachments).", to, subject, len(atts)))
		return nil
	}

	payload := ResendEmail{
		From:        m.from,
		To:          to,
		Subject:     subject,
		Html:        htmlBody,
		Text:        textBody,
		Attachments: atts,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend API error: %s", resp.Status)
	}

	m.log.Info(fmt.Sprintf("[notify] Email sent to %s via Resend.", to))
	return nil
}
