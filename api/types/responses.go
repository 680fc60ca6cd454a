package types

import (
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	"github.com/killallgit/dubber-api/internal/services/sessions"
)

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorResponse builds an error body
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Status: "error", Message: message}
}

// SessionResponse describes one dubbing session
type SessionResponse struct {
	ID             string            `json:"id"`
	SourceURL      string            `json:"source_url"`
	SourceLanguage string            `json:"source_language"`
	TargetLanguage string            `json:"target_language"`
	Progress       sessions.Progress `json:"progress"`
}

// NewSessionResponse snapshots a session into its API shape
func NewSessionResponse(s *sessions.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		SourceURL:      s.SourceURL,
		SourceLanguage: s.SourceLanguage,
		TargetLanguage: s.TargetLanguage,
		Progress:       s.Progress(),
	}
}

// UnitsResponse reports the unit covering the requested time plus the
// look-ahead window. Current is null inside silence gaps.
type UnitsResponse struct {
	Current   *scheduler.UnitStatus  `json:"current"`
	Lookahead []scheduler.UnitStatus `json:"lookahead"`
}

// ChunksResponse is the fixed-duration chunk variant of UnitsResponse
type ChunksResponse struct {
	Current   scheduler.ChunkStatus   `json:"current"`
	Lookahead []scheduler.ChunkStatus `json:"lookahead"`
}
