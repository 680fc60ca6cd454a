package models

// AudioStatus represents the production state of a segment's dubbed audio
type AudioStatus string

const (
	AudioStatusEmpty       AudioStatus = "empty"
	AudioStatusTranslating AudioStatus = "translating"
	AudioStatusGenerating  AudioStatus = "generating"
	AudioStatusReady       AudioStatus = "ready"
	AudioStatusFailed      AudioStatus = "failed"
)

// Segment is a sentence-aligned unit of the source timeline, merged from
// transcript fragments. One segment maps to one translation slot and one
// speech synthesis call.
type Segment struct {
	Index          int         `json:"index"`
	OriginalText   string      `json:"original_text"`
	TranslatedText string      `json:"translated_text,omitempty"`
	StartTime      float64     `json:"start_time"` // seconds
	EndTime        float64     `json:"end_time"`   // seconds
	AudioStatus    AudioStatus `json:"audio_status"`
	AudioData      []byte      `json:"-"`
	Error          string      `json:"error,omitempty"`
}

// Duration returns the segment length in seconds
func (s *Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Contains reports whether the given playback time falls inside [start, end)
func (s *Segment) Contains(timeSec float64) bool {
	return timeSec >= s.StartTime && timeSec < s.EndTime
}

// Translated reports whether the segment has text ready for synthesis.
// Segments that fell back to their original text after a translation failure
// also count as translated.
func (s *Segment) Translated() bool {
	return s.TranslatedText != ""
}

// SpeechText returns the text that should be synthesized for this segment
func (s *Segment) SpeechText() string {
	if s.TranslatedText != "" {
		return s.TranslatedText
	}
	return s.OriginalText
}

// IsTerminal reports whether the audio status can no longer change without an
// explicit re-request
func (s *Segment) IsTerminal() bool {
	return s.AudioStatus == AudioStatusReady || s.AudioStatus == AudioStatusFailed
}
