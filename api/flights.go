package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	log     *slog.Logger
}

type searchQuery struct {
	OriginCity      string   `form:"origin_city"`
	DestinationCity string   `form:"destination_city"`
	TravelDate      string   `form:"travel_date"`
	CabinClass      string   `form:"cabin_class"`
	IsCorporate     bool     `form:"is_corporate"`
	PreferredOnly   bool     `form:"preferred_airlines_only"`
	MaxPrice        *float64 `form:"max_price"`
}

type slotQuery struct {
	TravelDate  string `form:"travel_date"`
	CabinClass  string `form:"cabin_class"`
	IsCorporate bool   `form:"is_corporate"`
}

type routeQuery struct {
	OriginCity      string `form:"origin_city"`
	DestinationCity string `form:"destination_city"`
}

func NewFlightHandler(service flights.FlightUseCase, log *slog.Logger) *FlightHandler {
	return &FlightHandler{service: service, log: log}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/:id", h.details)
	router.GET("/:id/availability", h.availability)
	router.GET("/:id/cost", h.cost)
}

// RegisterRoutes mounts the route listing, which is keyed by city pair rather than flight.
func (h *FlightHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("", h.routes)
}

func (h *FlightHandler) search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), flights.SearchInput{
		OriginCity:      q.OriginCity,
		DestinationCity: q.DestinationCity,
		TravelDate:      q.TravelDate,
		CabinClass:      q.CabinClass,
		IsCorporate:     q.IsCorporate,
		PreferredOnly:   q.PreferredOnly,
		MaxPrice:        q.MaxPrice,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) details(c *gin.Context) {
	in, ok := bindSlot(c)
	if !ok {
		return
	}
	details, err := h.service.Details(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *FlightHandler) availability(c *gin.Context) {
	in, ok := bindSlot(c)
	if !ok {
		return
	}
	in.IsCorporate = false
	availability, err := h.service.Availability(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *FlightHandler) cost(c *gin.Context) {
	in, ok := bindSlot(c)
	if !ok {
		return
	}
	breakdown, err := h.service.Cost(c.Request.Context(), in)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *FlightHandler) routes(c *gin.Context) {
	var q routeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	options, err := h.service.RouteOptions(c.Request.Context(), q.OriginCity, q.DestinationCity)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func bindSlot(c *gin.Context) (flights.SlotInput, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, errors.New("invalid flight id"))
		return flights.SlotInput{}, false
	}
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return flights.SlotInput{}, false
	}
	return flights.SlotInput{
		FlightID:    id,
		TravelDate:  q.TravelDate,
		CabinClass:  q.CabinClass,
		IsCorporate: q.IsCorporate,
	}, true
}
