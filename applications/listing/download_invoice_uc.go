package listing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/invoice"
)

// DownloadInvoiceUC re-composes the PDF of a stored booking on demand.
type DownloadInvoiceUC struct {
	log      *slog.Logger
	reader   BookingReader
	composer invoice.Composer
}

func NewDownloadInvoiceUC(log *slog.Logger, reader BookingReader, composer invoice.Composer) *DownloadInvoiceUC {
	return &DownloadInvoiceUC{
		log:      log,
		reader:   reader,
		composer: composer,
	}
}

func (uc *DownloadInvoiceUC) Invoke(ctx context.Context, id string) (*invoice.Document, error) {
	b, err := uc.reader.GetBooking(ctx, id)
	if err != nil {
		uc.log.Warn(fmt.Sprintf("[download-invoice-uc] booking %s: %v", id, err))
		return nil, err
	}

	doc, err := uc.composer.Compose(ctx, b)
	if err != nil {
		uc.log.Error(fmt.Sprintf("[download-invoice-uc] booking %s: %v", id, err))
		return nil, err
	}
	uc.log.Info(fmt.Sprintf("[download-invoice-uc] booking %s rendered as %s", id, doc.FileName))
	return doc, nil
}
