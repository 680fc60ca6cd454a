package sessions

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	sessionsService "github.com/killallgit/dubber-api/internal/services/sessions"
	"github.com/killallgit/dubber-api/pkg/lang"
)

// Create starts a new dubbing session
// @Summary Create a dubbing session
// @Description Fetches the source transcript, segments it, and starts background translation. Returns once the session is registered; audio is produced on demand.
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body types.CreateSessionRequest true "Session parameters"
// @Success 201 {object} types.SessionResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 422 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse
// @Router /api/v1/sessions [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		if !lang.Valid(req.TargetLanguage) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid target language"))
			return
		}
		if req.SourceLanguage != "" && !lang.Valid(req.SourceLanguage) {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid source language"))
			return
		}

		session, err := deps.SessionService.CreateSession(c.Request.Context(), req.SourceURL, req.SourceLanguage, req.TargetLanguage)
		if err != nil {
			switch {
			case errors.Is(err, sessionsService.ErrSourceUnavailable):
				log.Printf("[ERROR] Session creation failed for %s: %v", req.SourceURL, err)
				c.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse("No transcript available for this source"))
			case errors.Is(err, sessionsService.ErrTooManySessions):
				c.JSON(http.StatusServiceUnavailable, types.NewErrorResponse("Session limit reached, try again later"))
			default:
				log.Printf("[ERROR] Session creation failed for %s: %v", req.SourceURL, err)
				c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to create session"))
			}
			return
		}

		c.JSON(http.StatusCreated, types.NewSessionResponse(session))
	}
}
