package markclass

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"golang.org/x/image/tiff"
)

// SniffMediaType detects the image container from its leading signature
// bytes. Unrecognized data defaults to JPEG, matching how the image service
// serves legacy marks.
func SniffMediaType(data []byte) string {
	switch {
	case len(data) >= 8 && bytes.Equal(data[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "image/gif"
	case len(data) >= 2 && data[0] == 0xff && data[1] == 0xd8:
		return "image/jpeg"
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case len(data) >= 4 && (bytes.Equal(data[:4], []byte("II*\x00")) || bytes.Equal(data[:4], []byte("MM\x00*"))):
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}

// NormalizeForVision prepares raw image bytes for model submission. TIFF is
// transcoded to JPEG since the model does not accept that container; every
// other format passes through with its sniffed media type.
func NormalizeForVision(data []byte) ([]byte, string, error) {
	mediaType := SniffMediaType(data)
	if mediaType != "image/tiff" {
		return data, mediaType, nil
	}
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode tiff: %w", err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
