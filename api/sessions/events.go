package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
)

// PostEvent accepts one consumer transport event. Position-bearing events
// warm the production window around the new position; everything is
// fire-and-forget, so the response is always 202.
// @Summary Report a playback transport event
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param request body types.PlaybackEventRequest true "Transport event"
// @Success 202
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/events [post]
func PostEvent(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}

		var req types.PlaybackEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		switch req.Event {
		case "play", "seek", "timeupdate":
			deps.Scheduler.RequestUnitsNear(c.Request.Context(), session, req.Position)
		case "pause", "ratechange":
			// nothing to produce, the lookup above already touched the session
		}

		c.Status(http.StatusAccepted)
	}
}
