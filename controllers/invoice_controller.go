package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/listing"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/store"

	"github.com/labstack/echo/v4"
)

type InvoiceController struct {
	log      *slog.Logger
	list     *listing.ListInvoicesUC
	detail   *listing.GetInvoiceDetailUC
	download *listing.DownloadInvoiceUC
}

func NewInvoiceController(log *slog.Logger, list *listing.ListInvoicesUC, detail *listing.GetInvoiceDetailUC, download *listing.DownloadInvoiceUC) *InvoiceController {
	return &InvoiceController{
		log:      log,
		list:     list,
		detail:   detail,
		download: download,
	}
}

// GetAllInvoicesController handles GET /bookings. The error state still
// carries a view so the client can render its retry button.
func (ic *InvoiceController) GetAllInvoicesController(c echo.Context) error {
	view := ic.list.Invoke(c.Request().Context())
	if view.State == listing.ListError {
		return c.JSON(http.StatusInternalServerError, view)
	}
	return c.JSON(http.StatusOK, view)
}

// GetInvoiceController handles GET /bookings/:bookingID
func (ic *InvoiceController) GetInvoiceController(c echo.Context) error {
	bookingID := c.Param("bookingID")

	view, err := ic.detail.Invoke(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Booking not found."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve booking: " + err.Error()})
	}
	return c.JSON(http.StatusOK, view)
}

// DownloadInvoiceController handles GET /bookings/:bookingID/invoice. With
// ?inline=1 the PDF is served for in-browser preview.
func (ic *InvoiceController) DownloadInvoiceController(c echo.Context) error {
	bookingID := c.Param("bookingID")

	doc, err := ic.download.Invoke(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Booking not found."})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error generating invoice: " + err.Error()})
	}

	disposition := "attachment"
	if c.QueryParam("inline") == "1" {
		disposition = "inline"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	return c.Blob(http.StatusOK, "application/pdf", doc.PDF)
}
