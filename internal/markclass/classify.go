// Package markclass assigns each mark image one of four presentation types
// from a vision-model report, with an OCR fallback when the model is
// unavailable. Every failure path terminates in a safe default; callers
// never see an error.
package markclass

import (
	"regexp"
	"strings"
)

// MarkType is the categorical visual classification of a mark. The numeric
// values are part of the export format and must not change.
type MarkType int

const (
	NoImage          MarkType = 0
	StandardText     MarkType = 1
	StylizedOrDesign MarkType = 2
	Slogan           MarkType = 3
)

func (t MarkType) String() string {
	switch t {
	case NoImage:
		return "No Image"
	case StandardText:
		return "Standard Text"
	case Slogan:
		return "Slogan"
	default:
		return "Stylized/Design"
	}
}

// Label is one visual attribute reported for the image.
type Label struct {
	Text       string
	Confidence float64
}

// VisionReport is the structured form of the model's labeled-line answer.
type VisionReport struct {
	DetectedText string
	HasLogo      bool
	HasDesign    bool
	Labels       []Label
}

const noImagePlaceholder = "no image exists"

// styleConfidenceFloor is deliberately low: missing a stylized mark costs
// more downstream than over-reporting one.
const styleConfidenceFloor = 0.3

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// designKeywords flag visual styling in label text. Any hit above the
// confidence floor classifies the mark as stylized.
var designKeywords = []string{
	"art", "illustration", "drawing", "painting", "artwork", "graphics", "design",
	"creative", "logo", "symbol", "icon", "emblem", "badge", "insignia",
	"font", "calligraphy", "typography", "ornate", "decorative", "stylized",
	"artistic", "handwriting", "script", "cursive", "fancy", "vintage",
	"modern", "retro", "bold", "italic", "visual", "graphic", "rectangle",
	"pattern", "shape", "circle", "square", "line", "color", "black", "white",
}

// Classify maps a vision report to a mark type via an ordered rule cascade;
// the first matching rule wins. The cascade is conservative toward
// StylizedOrDesign. NoImage is reserved for the literal placeholder phrase
// and is never inferred from absence of content.
func Classify(report VisionReport) MarkType {
	if strings.Contains(strings.ToLower(report.DetectedText), noImagePlaceholder) {
		return NoImage
	}

	words := Words(report.DetectedText)
	if len(words) == 0 {
		return StylizedOrDesign
	}
	if report.HasLogo {
		return StylizedOrDesign
	}
	// Multiple detected visual attributes implies non-trivial graphic content.
	if len(report.Labels) >= 3 {
		return StylizedOrDesign
	}
	if hasStyling(report.Labels) {
		return StylizedOrDesign
	}
	if len(words) >= 3 {
		if len(report.Labels) <= 2 {
			return Slogan
		}
		return StylizedOrDesign
	}
	if len(words) <= 2 {
		if len(report.Labels) <= 1 {
			return StandardText
		}
		return StylizedOrDesign
	}
	return StylizedOrDesign
}

// Words tokenizes detected text into alphanumeric runs, discarding pure
// punctuation and symbols.
func Words(text string) []string {
	return wordPattern.FindAllString(text, -1)
}

func hasStyling(labels []Label) bool {
	for _, l := range labels {
		if l.Confidence <= styleConfidenceFloor {
			continue
		}
		text := strings.ToLower(l.Text)
		for _, kw := range designKeywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

// classifyByWordCount is the OCR fallback rule: no words means a pure
// design, three or more a slogan, one or two plain text.
func classifyByWordCount(text string) MarkType {
	switch n := len(Words(text)); {
	case n == 0:
		return StylizedOrDesign
	case n >= 3:
		return Slogan
	default:
		return StandardText
	}
}
