package types

// CreateSessionRequest starts a dubbing session for one source video
type CreateSessionRequest struct {
	SourceURL string `json:"source_url" binding:"required"`
	// SourceLanguage may be empty; the server detects it from the transcript
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language" binding:"required"`
}

// PlaybackEventRequest reports one consumer transport event. The server uses
// it to keep the production window warm; it never blocks on production.
type PlaybackEventRequest struct {
	Event    string  `json:"event" binding:"required,oneof=play pause seek ratechange timeupdate"`
	Position float64 `json:"position"`
	Rate     float64 `json:"rate"`
}
