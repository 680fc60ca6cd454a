package models

// TranscriptFragment is a single timestamped caption line as delivered by the
// caption source or the fallback transcriber. Fragments are immutable and
// ordered by start offset.
type TranscriptFragment struct {
	Text          string `json:"text"`
	StartOffsetMs int64  `json:"offset"`
	DurationMs    int64  `json:"duration"`
}

// StartSeconds returns the fragment start in seconds
func (f TranscriptFragment) StartSeconds() float64 {
	return float64(f.StartOffsetMs) / 1000.0
}

// EndSeconds returns the fragment end in seconds
func (f TranscriptFragment) EndSeconds() float64 {
	return float64(f.StartOffsetMs+f.DurationMs) / 1000.0
}

// DurationSeconds returns the fragment length in seconds
func (f TranscriptFragment) DurationSeconds() float64 {
	return float64(f.DurationMs) / 1000.0
}
