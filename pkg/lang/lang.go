package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// Detect guesses the ISO 639-1 code of the given text. Returns "en" when the
// text is too short or ambiguous to classify reliably.
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "en"
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "en"
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return "en"
	}
	return code
}

// Valid reports whether the given BCP 47 / ISO language code parses
func Valid(code string) bool {
	if code == "" {
		return false
	}
	_, err := language.Parse(code)
	return err == nil
}
