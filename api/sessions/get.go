package sessions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	sessionsService "github.com/killallgit/dubber-api/internal/services/sessions"
)

// Get returns one session with production progress
// @Summary Get session status
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} types.SessionResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := deps.SessionService.GetSession(c.Param("id"))
		if err != nil {
			if errors.Is(err, sessionsService.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Session not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch session"))
			return
		}
		c.JSON(http.StatusOK, types.NewSessionResponse(session))
	}
}
