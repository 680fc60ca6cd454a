package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/internal/models"
)

// GetUnitAudio serves the finished audio for one unit. Requesting a unit that
// is not ready does not block; the consumer polls the units endpoint and
// comes back.
// @Summary Fetch finished unit audio
// @Tags sessions
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param index path int true "Unit index"
// @Success 200 {file} binary
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/units/{index}/audio [get]
func GetUnitAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}
		index, ok := unitIndex(c)
		if !ok {
			return
		}

		seg, found := session.Snapshot(index)
		if !found {
			c.JSON(http.StatusNotFound, types.NewErrorResponse("Unit not found"))
			return
		}
		if seg.AudioStatus != models.AudioStatusReady || seg.AudioData == nil {
			c.JSON(http.StatusConflict, types.NewErrorResponse("Unit audio is not ready"))
			return
		}

		c.Data(http.StatusOK, "audio/mpeg", seg.AudioData)
	}
}

// GetChunkAudio serves the finished audio for one fixed-window chunk
// @Summary Fetch finished chunk audio
// @Tags sessions
// @Produce octet-stream
// @Param id path string true "Session ID"
// @Param index path int true "Chunk index"
// @Success 200 {file} binary
// @Failure 404 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/chunks/{index}/audio [get]
func GetChunkAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}
		index, ok := unitIndex(c)
		if !ok {
			return
		}

		audio, ready := deps.ChunkScheduler.ChunkAudio(session.ID, index)
		if !ready {
			c.JSON(http.StatusConflict, types.NewErrorResponse("Chunk audio is not ready"))
			return
		}
		c.Data(http.StatusOK, "audio/mpeg", audio)
	}
}
