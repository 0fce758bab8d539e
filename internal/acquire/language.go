package acquire

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

const languageSampleRunes = 4000

// LanguageDetector labels documents with an ISO 639-1 code. Only a fixed
// set of languages common in academic publishing is considered.
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

func NewLanguageDetector() *LanguageDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Chinese,
		lingua.Korean,
		lingua.Japanese,
		lingua.German,
		lingua.French,
		lingua.Spanish,
		lingua.Italian,
		lingua.Portuguese,
		lingua.Russian,
	}

	return &LanguageDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			WithMinimumRelativeDistance(0.1).
			Build(),
	}
}

// Detect reports the language of text, or false when unsure.
func (d *LanguageDetector) Detect(text string) (string, bool) {
	if d == nil {
		return "", false
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return "", false
	}
	if len(runes) > languageSampleRunes {
		runes = runes[:languageSampleRunes]
	}

	language, ok := d.detector.DetectLanguageOf(string(runes))
	if !ok {
		return "", false
	}

	return strings.ToLower(language.IsoCode639_1().String()), true
}
