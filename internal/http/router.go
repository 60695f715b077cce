package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(h *Handler, corsOrigins []string, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(accessLog(log))
	r.Use(corsMiddleware(corsOrigins))

	h.Register(r)
	return r
}
