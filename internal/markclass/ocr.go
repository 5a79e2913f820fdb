package markclass

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// OCRFunc extracts text from raw image bytes.
type OCRFunc func(ctx context.Context, imageData []byte) (string, error)

// TesseractOCR shells out to the tesseract binary. The image is written to a
// temp file because tesseract reads from disk.
func TesseractOCR(ctx context.Context, imageData []byte) (string, error) {
	f, err := os.CreateTemp("", "mark-*.img")
	if err != nil {
		return "", err
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(imageData); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, "tesseract", f.Name(), "stdout").Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Classifier chains classification strategies: the vision model first, then
// OCR word counting, then the fixed default. Each strategy either returns a
// mark type or defers to the next; nothing in the chain surfaces an error.
type Classifier struct {
	vision VisionCaller
	ocr    OCRFunc
}

// New builds a Classifier. vision may be nil (no API key configured), in
// which case every image classifies as StylizedOrDesign. ocr may be nil for
// the tesseract default.
func New(vision VisionCaller, ocr OCRFunc) *Classifier {
	if ocr == nil {
		ocr = TesseractOCR
	}
	return &Classifier{vision: vision, ocr: ocr}
}

// ClassifyImage classifies one mark image. A vision failure falls back to
// OCR; an OCR failure falls back to the conservative default. Downstream
// consumers never observe an error state.
func (c *Classifier) ClassifyImage(ctx context.Context, imageData []byte) MarkType {
	if c.vision == nil {
		return StylizedOrDesign
	}
	if mt, err := c.visionDecide(ctx, imageData); err == nil {
		return mt
	}
	if mt, err := c.ocrDecide(ctx, imageData); err == nil {
		return mt
	}
	return StylizedOrDesign
}

func (c *Classifier) visionDecide(ctx context.Context, imageData []byte) (MarkType, error) {
	normalized, mediaType, err := NormalizeForVision(imageData)
	if err != nil {
		return 0, err
	}
	answer, err := c.vision.Describe(ctx, normalized, mediaType)
	if err != nil {
		return 0, err
	}
	return Classify(ParseVisionReport(answer)), nil
}

func (c *Classifier) ocrDecide(ctx context.Context, imageData []byte) (MarkType, error) {
	text, err := c.ocr(ctx, imageData)
	if err != nil {
		return 0, err
	}
	if strings.Contains(strings.ToLower(text), noImagePlaceholder) {
		return NoImage, nil
	}
	return classifyByWordCount(text), nil
}
