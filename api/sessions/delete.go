package sessions

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	sessionsService "github.com/killallgit/dubber-api/internal/services/sessions"
)

// Delete ends a session and drops its in-memory state. Cached audio for the
// source survives so a later session can reuse it.
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := deps.SessionService.DeleteSession(id); err != nil {
			if errors.Is(err, sessionsService.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Session not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to delete session"))
			return
		}
		if deps.ChunkScheduler != nil {
			deps.ChunkScheduler.Forget(id)
		}
		log.Printf("Deleted session %s", id)
		c.Status(http.StatusNoContent)
	}
}
