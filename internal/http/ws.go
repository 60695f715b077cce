package http

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"trackify/internal/domain/sighting"
)

type searchRequest struct {
	Seq         uint64 `json:"seq"`
	NumberPlate string `json:"numberPlate"`
}

type searchResponse struct {
	Seq      uint64              `json:"seq"`
	Vehicles []sighting.Sighting `json:"vehicles"`
	Message  string              `json:"message,omitempty"`
}

// searchSocket answers search requests over a websocket. Requests on one
// connection are served in arrival order and every reply carries the seq
// of the request it answers.
func (h *Handler) searchSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Msg("ws search closed")
			}
			return
		}

		var req searchRequest
		if err := json.Unmarshal(data, &req); err != nil {
			if err := conn.WriteJSON(searchResponse{Message: "invalid search request"}); err != nil {
				return
			}
			continue
		}

		resp := searchResponse{Seq: req.Seq}
		vehicles, err := h.sightings.FindSightings(ctx, sighting.ByPlate(req.NumberPlate))
		if err != nil {
			h.log.Error().Err(err).Uint64("seq", req.Seq).Msg("ws search failed")
			resp.Message = err.Error()
		} else {
			resp.Vehicles = vehicles
		}

		if err := conn.WriteJSON(resp); err != nil {
			h.log.Debug().Err(err).Msg("ws write failed")
			return
		}
	}
}
