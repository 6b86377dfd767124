package services

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// minDetectionLength is the input length below which statistical
// detection is too noisy to trust.
const minDetectionLength = 20

// iso3to1 maps the detector's ISO-639-3 output onto the two-letter
// codes the rest of the pipeline speaks.
var iso3to1 = map[string]string{
	"eng": "en",
	"hin": "hi",
}

// LanguageDetector guesses whether a document is English or Hindi.
// Detection never fails: anything it cannot classify comes back "en".
type LanguageDetector struct {
	options whatlanggo.Options
}

func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{
		options: whatlanggo.Options{
			Whitelist: map[whatlanggo.Lang]bool{
				whatlanggo.Eng: true,
				whatlanggo.Hin: true,
			},
		},
	}
}

// Detect returns "en" or "hi" for the given text.
func (ld *LanguageDetector) Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "en"
	}

	// Devanagari script is decisive on its own, no model needed
	if containsDevanagari(text) {
		return "hi"
	}

	if len([]rune(text)) < minDetectionLength {
		return "en"
	}

	info := whatlanggo.DetectWithOptions(text, ld.options)
	if code, ok := iso3to1[whatlanggo.LangToString(info.Lang)]; ok {
		return code
	}

	return "en"
}

func containsDevanagari(text string) bool {
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			return true
		}
	}
	return false
}
