package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *handler) createBooking(c *gin.Context) {
	bookerID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var draft models.BookingDraft
	if err := bindJSON(c, &draft); err != nil {
		respondError(c, h.logger, err)
		return
	}
	booking, err := h.svc.Bookings.CreateBooking(c.Request.Context(), bookerID, &draft)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *handler) approveBooking(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	raw := c.Query("approved")
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		respondError(c, h.logger, domain.Validationf("invalid approved %q", raw))
		return
	}
	booking, err := h.svc.Bookings.ApproveBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *handler) getBooking(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	booking, err := h.svc.Bookings.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *handler) bookerBookings(c *gin.Context) {
	h.listBookings(c, h.svc.Bookings.GetBookerBookings)
}

func (h *handler) ownerBookings(c *gin.Context) {
	h.listBookings(c, h.svc.Bookings.GetOwnerBookings)
}

type bookingLister func(ctx context.Context, userID int64, state string, from, size int) ([]*models.BookingView, error)

func (h *handler) listBookings(c *gin.Context, list bookingLister) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	from, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	bookings, err := list(c.Request.Context(), userID, c.DefaultQuery("state", string(models.DefaultState)), from, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *handler) exportOwnerBookings(c *gin.Context) {
	userID, err := sharerID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	state := c.DefaultQuery("state", string(models.DefaultState))
	data, err := h.svc.Bookings.ExportOwnerBookings(c.Request.Context(), userID, state)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	filename := fmt.Sprintf("bookings_%d_%s.xlsx", userID, strings.ToLower(state))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
