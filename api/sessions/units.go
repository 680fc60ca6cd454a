package sessions

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	sessionsService "github.com/killallgit/dubber-api/internal/services/sessions"
)

// GetUnits resolves the unit covering the reported playback time plus the
// look-ahead window, triggering production where needed. This is the polling
// endpoint consumers drive; it never blocks on production.
// @Summary Request units near a playback position
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param time query number true "Playback position in seconds"
// @Success 200 {object} types.UnitsResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/units [get]
func GetUnits(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}

		timeSec, err := strconv.ParseFloat(c.Query("time"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid or missing time parameter"))
			return
		}

		current, lookahead := deps.Scheduler.RequestUnitsNear(c.Request.Context(), session, timeSec)
		c.JSON(http.StatusOK, types.UnitsResponse{Current: current, Lookahead: lookahead})
	}
}

// RetryUnit restarts production for one failed unit. Failed units stay failed
// until this is called; nothing retries them automatically.
// @Summary Retry a failed unit
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param index path int true "Unit index"
// @Success 200 {object} scheduler.UnitStatus
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/sessions/{id}/units/{index}/retry [post]
func RetryUnit(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := lookupSession(c, deps)
		if !ok {
			return
		}
		index, ok := unitIndex(c)
		if !ok {
			return
		}

		status, err := deps.Scheduler.RetryUnit(c.Request.Context(), session, index)
		if err != nil {
			if errors.Is(err, scheduler.ErrUnitNotFound) {
				c.JSON(http.StatusNotFound, types.NewErrorResponse("Unit not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to retry unit"))
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// lookupSession resolves the :id param, writing the error response itself
func lookupSession(c *gin.Context, deps *types.Dependencies) (*sessionsService.Session, bool) {
	session, err := deps.SessionService.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, sessionsService.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, types.NewErrorResponse("Session not found"))
		} else {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse("Failed to fetch session"))
		}
		return nil, false
	}
	return session, true
}

// unitIndex parses the :index param, writing the error response itself
func unitIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse("Invalid unit index"))
		return 0, false
	}
	return index, true
}
