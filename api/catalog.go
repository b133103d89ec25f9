package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.CatalogUseCase
	log     *slog.Logger
}

func NewCatalogHandler(service catalog.CatalogUseCase, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/airlines", h.airlines)
	router.GET("/airlines/:code/baggage", h.baggage)
	router.GET("/airports", h.airports)
}

func (h *CatalogHandler) airlines(c *gin.Context) {
	list, err := h.service.Airlines(c.Request.Context(), c.Query("country"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) airports(c *gin.Context) {
	list, err := h.service.Airports(c.Request.Context(), c.Query("city"), c.Query("country"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) baggage(c *gin.Context) {
	cabin, err := domain.ParseCabinClass(c.Query("cabin_class"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	allowance, err := h.service.BaggageAllowance(c.Request.Context(), c.Param("code"), cabin)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}
