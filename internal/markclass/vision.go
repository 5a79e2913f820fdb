package markclass

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const visionPrompt = `Analyze this trademark image and provide:
1. All text detected in the image (word for word)
2. Whether there are any logos, symbols, or graphic design elements
3. Visual characteristics: font styling, colors, decorative elements, shapes, patterns
4. Overall visual complexity (simple/moderate/complex)

Format your response as:
TEXT: [all text found]
HAS_LOGO: [yes/no]
HAS_DESIGN: [yes/no]
VISUAL_ELEMENTS: [list of visual characteristics]
COMPLEXITY: [simple/moderate/complex]`

// VisionCaller produces the model's free-text description of a mark image.
type VisionCaller interface {
	Describe(ctx context.Context, imageData []byte, mediaType string) (string, error)
}

type AnthropicVision struct {
	messages AnthropicMessager
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

func NewAnthropicVisionFromEnv() (*AnthropicVision, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &AnthropicVision{messages: newAnthropicClient(apiKey)}, nil
}

func (a *AnthropicVision) Describe(ctx context.Context, imageData []byte, mediaType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, encoded),
				anthropic.NewTextBlock(visionPrompt),
			),
		},
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// ParseVisionReport converts the model's labeled-line answer into a
// VisionReport. The format is parsed defensively: missing lines default to
// empty text, false flags, and no labels.
func ParseVisionReport(text string) VisionReport {
	var report VisionReport
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TEXT:"):
			report.DetectedText = strings.TrimSpace(strings.TrimPrefix(line, "TEXT:"))
		case strings.HasPrefix(line, "HAS_LOGO:"):
			report.HasLogo = strings.Contains(strings.ToLower(line), "yes")
		case strings.HasPrefix(line, "HAS_DESIGN:"):
			report.HasDesign = strings.Contains(strings.ToLower(line), "yes")
		case strings.HasPrefix(line, "VISUAL_ELEMENTS:"):
			elements := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "VISUAL_ELEMENTS:")))
			for _, elem := range strings.Split(elements, ",") {
				if elem = strings.TrimSpace(elem); elem != "" {
					report.Labels = append(report.Labels, Label{Text: elem, Confidence: 0.8})
				}
			}
		case strings.HasPrefix(line, "COMPLEXITY:"):
			complexity := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "COMPLEXITY:")))
			if strings.Contains(complexity, "complex") || strings.Contains(complexity, "moderate") {
				report.Labels = append(report.Labels,
					Label{Text: "complex", Confidence: 0.9},
					Label{Text: "design", Confidence: 0.9},
				)
			}
		}
	}
	return report
}
