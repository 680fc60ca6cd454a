package types

import (
	"github.com/killallgit/dubber-api/internal/database"
	"github.com/killallgit/dubber-api/internal/services/audiocache"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	"github.com/killallgit/dubber-api/internal/services/sessions"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB             *database.DB
	SessionService sessions.Service
	SessionStore   *sessions.Store
	Scheduler      *scheduler.Scheduler
	ChunkScheduler *scheduler.ChunkScheduler
	AudioCache     audiocache.Service
}
