package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
	"github.com/VigneshSivaKspm/royal-photography-billing/logger"
)

func sample() (*booking.Booking, *invoice.Document) {
	b := &booking.Booking{BookingNumber: 12, ContactName: "Asha", Email: "asha@example.com", TotalAmount: 1000}
	return b, &invoice.Document{FileName: "Invoice_12_Asha.pdf", PDF: []byte("%PDF-1.3")}
}

func TestSendInvoice(t *testing.T) {
	var got ResendEmail
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewResendMailer(logger.Discard(), "key", "Studio <a@b.c>", "ROYAL PHOTOGRAPHY").WithEndpoint(srv.URL, srv.Client())
	b, doc := sample()
	if err := m.SendInvoice(context.Background(), b, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer key" {
		t.Fatalf("expected bearer key, got %q", auth)
	}
	if got.To != "asha@example.com" || !strings.Contains(got.Subject, "#12") {
		t.Fatalf("unexpected email %+v", got)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Filename != "Invoice_12_Asha.pdf" {
		t.Fatalf("unexpected attachments %+v", got.Attachments)
	}
	pdf, _ := base64.StdEncoding.DecodeString(got.Attachments[0].Content)
	if string(pdf) != "%PDF-1.3" {
		t.Fatalf("expected the pdf bytes attached, got %q", pdf)
	}
}

func TestSendInvoiceAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewResendMailer(logger.Discard(), "key", "a@b.c", "X").WithEndpoint(srv.URL, nil)
	b, doc := sample()
	if err := m.SendInvoice(context.Background(), b, doc); err == nil {
		t.Fatal("expected an error for a 422 response")
	}
}

func TestSendInvoiceWithoutKeyIsMocked(t *testing.T) {
	m := NewResendMailer(logger.Discard(), "", "a@b.c", "X").WithEndpoint("http://127.0.0.1:1", nil)
	b, doc := sample()
	if err := m.SendInvoice(context.Background(), b, doc); err != nil {
		t.Fatalf("expected mock send to succeed, got %v", err)
	}
}
