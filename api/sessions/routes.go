package sessions

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/dubber-api/api/types"
)

// RegisterRoutes registers the session lifecycle and unit routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, audioMiddleware ...gin.HandlerFunc) {
	router.POST("", Create(deps))
	router.GET("/:id", Get(deps))
	router.DELETE("/:id", Delete(deps))

	router.GET("/:id/units", GetUnits(deps))
	router.POST("/:id/units/:index/retry", RetryUnit(deps))
	router.POST("/:id/events", PostEvent(deps))

	audioRoutes := router.Group("")
	audioRoutes.Use(audioMiddleware...)
	audioRoutes.GET("/:id/units/:index/audio", GetUnitAudio(deps))

	router.GET("/:id/chunks", GetChunks(deps))
	router.POST("/:id/chunks/:index/retry", RetryChunk(deps))
	audioRoutes.GET("/:id/chunks/:index/audio", GetChunkAudio(deps))
}
