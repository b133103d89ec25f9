package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *slog.Logger
}

type cancelBookingRequest struct {
	PassengerEmail string `json:"passenger_email"`
}

type listBookingsQuery struct {
	PassengerEmail string `form:"passenger_email"`
	Status         string `form:"status"`
	IncludePast    bool   `form:"include_past"`
}

func NewBookingHandler(service booking.BookingUseCase, log *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.listByEmail)
	router.GET("/:reference", h.get)
	router.POST("/:reference/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	confirmation, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

func (h *BookingHandler) get(c *gin.Context) {
	record, err := h.service.GetBookingDetails(c.Request.Context(), c.Param("reference"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cancellation, err := h.service.CancelBooking(c.Request.Context(), booking.CancelBookingInput{
		BookingReference: c.Param("reference"),
		PassengerEmail:   req.PassengerEmail,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cancellation)
}

func (h *BookingHandler) listByEmail(c *gin.Context) {
	var q listBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	bookings, err := h.service.ListBookingsByEmail(c.Request.Context(), booking.ListBookingsInput{
		PassengerEmail: q.PassengerEmail,
		Status:         q.Status,
		IncludePast:    q.IncludePast,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}
