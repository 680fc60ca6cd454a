package transcript

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/killallgit/dubber-api/internal/models"
)

// Format identifies the wire format of a caption payload
type Format string

const (
	// FormatTimedText is the YouTube timedtext json3 event format
	FormatTimedText Format = "json3"
	// FormatFragments is a flat array of {text, offset, duration} objects
	FormatFragments Format = "fragments"
	// FormatWhisper is the verbose_json output of a Whisper-style transcriber
	FormatWhisper Format = "whisper"
)

// Parser normalizes provider caption payloads into ordered fragments
type Parser struct{}

// NewParser creates a new transcript parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes content in the given format into transcript fragments,
// ordered by start offset with empty lines dropped
func (p *Parser) Parse(content []byte, format Format) ([]models.TranscriptFragment, error) {
	var (
		fragments []models.TranscriptFragment
		err       error
	)

	switch format {
	case FormatTimedText:
		fragments, err = p.parseTimedText(content)
	case FormatFragments:
		fragments, err = p.parseFragments(content)
	case FormatWhisper:
		fragments, err = p.parseWhisper(content)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].StartOffsetMs < fragments[j].StartOffsetMs
	})
	return fragments, nil
}

// timedTextEvent mirrors one event of the json3 timedtext response
type timedTextEvent struct {
	StartMs    int64 `json:"tStartMs"`
	DurationMs int64 `json:"dDurationMs"`
	Segs       []struct {
		Text string `json:"utf8"`
	} `json:"segs"`
}

func (p *Parser) parseTimedText(content []byte) ([]models.TranscriptFragment, error) {
	var payload struct {
		Events []timedTextEvent `json:"events"`
	}
	if err := json.Unmarshal(content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse timedtext payload: %w", err)
	}

	fragments := make([]models.TranscriptFragment, 0, len(payload.Events))
	for _, ev := range payload.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.Text)
		}
		text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " "))
		if text == "" {
			continue
		}
		fragments = append(fragments, models.TranscriptFragment{
			Text:          text,
			StartOffsetMs: ev.StartMs,
			DurationMs:    ev.DurationMs,
		})
	}
	return fragments, nil
}

func (p *Parser) parseFragments(content []byte) ([]models.TranscriptFragment, error) {
	var raw []models.TranscriptFragment
	if err := json.Unmarshal(content, &raw); err != nil {
		// Some sources wrap the array in a segments field
		var obj struct {
			Segments []models.TranscriptFragment `json:"segments"`
		}
		if err := json.Unmarshal(content, &obj); err != nil {
			return nil, fmt.Errorf("failed to parse fragment payload: %w", err)
		}
		raw = obj.Segments
	}

	fragments := make([]models.TranscriptFragment, 0, len(raw))
	for _, frag := range raw {
		frag.Text = strings.TrimSpace(frag.Text)
		if frag.Text == "" {
			continue
		}
		fragments = append(fragments, frag)
	}
	return fragments, nil
}

func (p *Parser) parseWhisper(content []byte) ([]models.TranscriptFragment, error) {
	var payload struct {
		Segments []struct {
			Start float64 `json:"start"`
			End   float64 `json:"end"`
			Text  string  `json:"text"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(content, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse whisper payload: %w", err)
	}

	fragments := make([]models.TranscriptFragment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.End < seg.Start {
			continue
		}
		fragments = append(fragments, models.TranscriptFragment{
			Text:          text,
			StartOffsetMs: int64(seg.Start * 1000),
			DurationMs:    int64((seg.End - seg.Start) * 1000),
		})
	}
	return fragments, nil
}
