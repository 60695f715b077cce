package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trackify/internal/domain/sighting"
	"trackify/internal/geo"
)

const (
	headerRequestSeq       = "X-Request-Seq"
	headerSkippedLocations = "X-Skipped-Locations"
)

// SightingFinder is the query side of the sighting service.
type SightingFinder interface {
	FindSightings(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, error)
	FindMarkers(ctx context.Context, filter sighting.Filter) (geo.MarkerSet, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	sightings SightingFinder
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

func NewHandler(sightings SightingFinder, log zerolog.Logger) *Handler {
	return &Handler{
		sightings: sightings,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.health)

	api := r.Group("/api")
	api.Use(requestSequence())
	{
		api.GET("/vehicles", h.listVehicles)
		api.GET("/vehicles/markers", h.listMarkers)
	}

	r.GET("/ws/search", h.searchSocket)
}

func filterFromQuery(c *gin.Context) sighting.Filter {
	return sighting.ByPlate(c.Query("numberPlate"))
}

func (h *Handler) listVehicles(c *gin.Context) {
	vehicles, err := h.sightings.FindSightings(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *Handler) listMarkers(c *gin.Context) {
	set, err := h.sightings.FindMarkers(c.Request.Context(), filterFromQuery(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header(headerSkippedLocations, strconv.Itoa(len(set.Skipped)))
	c.JSON(http.StatusOK, set.FeatureCollection())
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.sightings.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"storage": "disconnected",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"storage": "connected",
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("sighting query failed")
	c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
}

func errorResponse(message string) gin.H {
	return gin.H{
		"message": message,
	}
}
