package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightIDs []string `json:"flightIds"`
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, middleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, middleware...), h.create)
	router.POST("", handlers...)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	// an empty body falls through to the service, which reports the missing fields
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		FlightIDs: req.FlightIDs,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}
