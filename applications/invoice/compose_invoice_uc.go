package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/metrics"
)

var ErrCompositionFailed = errors.New("failed to compose invoice")

// Document is a rendered invoice ready for download.
type Document struct {
	FileName    string
	PDF         []byte
	PageCount   int
	GeneratedAt time.Time
}

// Composer is shared by the submission workflow and the listing view.
type Composer interface {
	Compose(ctx context.Context, b *booking.Booking) (*Document, error)
}

// AssetRefs are the references handed to the AssetLoader for each slot.
type AssetRefs struct {
	Logo        string
	InstagramQR string
	PaymentQR   string
	Signature   string
}

func (a AssetRefs) ref(asset Asset) string {
	switch asset {
	case AssetLogo:
		return a.Logo
	case AssetInstagramQR:
		return a.InstagramQR
	case AssetPaymentQR:
		return a.PaymentQR
	case AssetSignature:
		return a.Signature
	default:
		return ""
	}
}

type ComposerOptions struct {
	Assets   AssetRefs
	Brand    Branding
	Compress bool
	Metrics  *metrics.Metrics
}

type InvoiceComposer struct {
	log      *slog.Logger
	loader   AssetLoader
	assets   AssetRefs
	brand    Branding
	renderer *PDFRenderer
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewInvoiceComposer(log *slog.Logger, loader AssetLoader, opts ComposerOptions) *InvoiceComposer {
	return &InvoiceComposer{
		log:      log,
		loader:   loader,
		assets:   opts.Assets,
		brand:    opts.Brand,
		renderer: NewPDFRenderer(opts.Compress),
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for the generation date.
func (c *InvoiceComposer) WithClock(now func() time.Time) *InvoiceComposer {
	c.now = now
	return c
}

// Compose loads the assets one after another, lays out the page and renders
// it. Any failure yields ErrCompositionFailed and no document.
func (c *InvoiceComposer) Compose(ctx context.Context, b *booking.Booking) (*Document, error) {
	start := time.Now()
	generatedAt := c.now()
	c.log.Info(fmt.Sprintf("[invoice-composer] composing invoice for booking number %d", b.BookingNumber))

	images := make(map[Asset][]byte, len(allAssets))
	for _, asset := range allAssets {
		ref := c.assets.ref(asset)
		data, err := c.loader.Fetch(ctx, ref)
		if err != nil {
			c.log.Error(fmt.Sprintf("[invoice-composer] failed to load %s (%s): %v", asset, ref, err))
			return nil, fmt.Errorf("%w: loading %s: %w", ErrCompositionFailed, asset, err)
		}
		images[asset] = data
	}

	layout := BuildLayout(LayoutInput{Booking: b, Brand: c.brand, GeneratedAt: generatedAt}, newFontMeasurer())

	pdf, pages, err := c.renderer.Render(layout, images, generatedAt)
	if err != nil {
		c.log.Error(fmt.Sprintf("[invoice-composer] render failed for booking number %d: %v", b.BookingNumber, err))
		return nil, fmt.Errorf("%w: %w", ErrCompositionFailed, err)
	}

	c.metrics.ObserveComposition(time.Since(start).Seconds())
	c.log.Info(fmt.Sprintf("[invoice-composer] invoice for booking number %d rendered (%d bytes, %d page)", b.BookingNumber, len(pdf), pages))

	return &Document{
		FileName:    FileName(b),
		PDF:         pdf,
		PageCount:   pages,
		GeneratedAt: generatedAt,
	}, nil
}

// FileName is Invoice_<number>_<customer>.pdf.
func FileName(b *booking.Booking) string {
	name := strings.TrimSpace(b.ContactName)
	if name == "" {
		name = "customer"
	}
	name = strings.NewReplacer("/", "_", "\\", "_", "\"", "_").Replace(name)
	return fmt.Sprintf("Invoice_%d_%s.pdf", b.BookingNumber, name)
}
