package driven

import "context"

// OcrService extracts text from an image. Provider response shapes vary
// between releases (direct text, per-page markdown, block lists); the
// adapter hides that shape-sniffing behind a single string result.
type OcrService interface {
	// ExtractText runs OCR on the image bytes and returns the extracted
	// plain text. mimeType describes the image, e.g. "image/png".
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
}
