package sessions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
)

// GetChunks is the fixed-window variant of GetUnits: timeline chunks of
// constant duration dubbed as whole units by the remote provider.
// @Summary Request chunks near a playback position
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param time query number true "Playback position in seconds"
// @Success 200 {object} types.ChunksResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/chunks [get]
func GetChunks(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}

		timeSec, err := strconv.ParseFloat(c.Query("time"), 64)
		if err != nil || timeSec < 0 {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid or missing time parameter"))
			return
		}

		current, lookahead, err := deps.ChunkScheduler.RequestChunksNear(
			c.Request.Context(), session.ID, session.SourceURL,
			session.SourceLanguage, session.TargetLanguage, timeSec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to schedule chunks"))
			return
		}
		c.JSON(http.StatusOK, types.ChunksResponse{Current: current, Lookahead: lookahead})
	}
}

// RetryChunk restarts production for one failed chunk
// @Summary Retry a failed chunk
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Chunk index"
// @Success 200 {object} scheduler.ChunkStatus
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/chunks/{index}/retry [post]
func RetryChunk(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}
		index, ok := unitIndex(c)
		if !ok {
			return
		}

		status, err := deps.ChunkScheduler.RetryChunk(c.Request.Context(), session.ID, index)
		if err != nil {
			if errors.Is(err, scheduler.ErrUnitNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Chunk not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to retry chunk"))
			return
		}
		c.JSON(http.StatusOK, status)
	}
}
