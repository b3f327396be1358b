package controllers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/VigneshSivaKspm/royal-photography-billing/applications/booking"
	"github.com/VigneshSivaKspm/royal-photography-billing/applications/submission"

	"github.com/labstack/echo/v4"
)

// SubmitResponse is returned once a booking is saved.
type SubmitResponse struct {
	State         submission.State `json:"state"`
	BookingID     string           `json:"bookingId"`
	BookingNumber int64            `json:"bookingNumber"`
	FileName      string           `json:"fileName"`
	DownloadPath  string           `json:"downloadPath"`
	PreviewPDF    string           `json:"previewPdf"`
}

// FailureResponse carries the message and tells the form to reload.
type FailureResponse struct {
	State submission.State `json:"state"`
	Error string           `json:"error"`
	Retry string           `json:"retry"`
}

type BookingController struct {
	log    *slog.Logger
	submit *submission.SubmitBookingUC
}

func NewBookingController(log *slog.Logger, submit *submission.SubmitBookingUC) *BookingController {
	return &BookingController{
		log:    log,
		submit: submit,
	}
}

// SubmitBookingController handles POST /bookings with a form-encoded body.
func (bc *BookingController) SubmitBookingController(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		bc.log.Warn(fmt.Sprintf("[booking-controller] unreadable form: %v", err))
		return c.JSON(http.StatusBadRequest, FailureResponse{
			State: submission.StateFailed,
			Error: "Invalid request payload.",
			Retry: "reload",
		})
	}

	res := bc.submit.Invoke(c.Request().Context(), form)
	if res.State != submission.StateSuccess {
		status := http.StatusInternalServerError
		if errors.Is(res.Err, booking.ErrInvalidForm) || errors.Is(res.Err, booking.ErrUnrecognizedField) {
			status = http.StatusBadRequest
		}
		return c.JSON(status, FailureResponse{
			State: submission.StateFailed,
			Error: "Error submitting form: " + res.Err.Error(),
			Retry: "reload",
		})
	}

	return c.JSON(http.StatusCreated, SubmitResponse{
		State:         res.State,
		BookingID:     res.Booking.ID,
		BookingNumber: res.Booking.BookingNumber,
		FileName:      res.Document.FileName,
		DownloadPath:  "/api/v1/bookings/" + res.Booking.ID + "/invoice",
		PreviewPDF:    base64.StdEncoding.EncodeToString(res.Document.PDF),
	})
}
