package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type listFlightsQuery struct {
	Source      string `form:"source"`
	Destination string `form:"destination"`
	Date        string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" binding:"omitempty,min=1"`
	SortBy      string `form:"sortBy"`
	Order       string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) list(c *gin.Context) {
	var q listFlightsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), flights.ListFlightsInput{
		Source:      q.Source,
		Destination: q.Destination,
		Date:        q.Date,
		Page:        q.Page,
		Limit:       q.Limit,
		SortBy:      q.SortBy,
		Order:       q.Order,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": flightNotFoundMessage})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
