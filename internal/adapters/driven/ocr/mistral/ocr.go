// Package mistral provides an OCR adapter using the Mistral OCR API.
package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docchat-labs/docchat/internal/core/ports/driven"
)

// Ensure OcrService implements the interface.
var _ driven.OcrService = (*OcrService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.mistral.ai/v1"
	DefaultModel   = "mistral-ocr-latest"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Mistral OCR service.
type Config struct {
	// APIKey is the Mistral API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.mistral.ai/v1).
	BaseURL string

	// Model is the OCR model to use (default: mistral-ocr-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// OcrService extracts text from images using the Mistral OCR API.
type OcrService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// ocrRequest is the Mistral /ocr request format. The image travels
// inline as a base64 data URL.
type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

// ocrResponse covers the response shapes the OCR endpoint has been
// observed to return. Lines, paragraphs and blocks all arrive as
// objects carrying a text field. Fields are pointers where absence
// matters.
type ocrResponse struct {
	Text  string `json:"text,omitempty"`
	Pages []struct {
		Markdown   string        `json:"markdown,omitempty"`
		Lines      []ocrTextItem `json:"lines,omitempty"`
		Paragraphs []ocrTextItem `json:"paragraphs,omitempty"`
	} `json:"pages,omitempty"`
	Blocks []ocrTextItem `json:"blocks,omitempty"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ocrTextItem is one recognised text unit (line, paragraph or block).
type ocrTextItem struct {
	Text string `json:"text,omitempty"`
}

// NewOcrService creates a new Mistral OCR service.
func NewOcrService(cfg Config) (*OcrService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OcrService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// ExtractText runs OCR over the image bytes and returns the recognised
// text. The endpoint's response shape varies by model version, so the
// result is assembled from whichever of the known shapes is present.
func (s *OcrService) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("mistral: image data is empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	reqBody := ocrRequest{
		Model: s.model,
		Document: ocrDocument{
			Type:     "image_url",
			ImageURL: dataURL,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/ocr",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if ocrResp.Error != nil {
		return "", fmt.Errorf("mistral error: %s", ocrResp.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral error (status %d): %s", resp.StatusCode, string(body))
	}

	text := assembleText(ocrResp)
	if text == "" {
		return "", fmt.Errorf("mistral: no text recognised in response")
	}
	return text, nil
}

// ModelName returns the name of the OCR model being used.
func (s *OcrService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *OcrService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// assembleText flattens whichever response shape showed up into plain
// text. Precedence: top-level text, then per-page markdown, then page
// lines, then page paragraphs, then flat blocks.
func assembleText(resp ocrResponse) string {
	if resp.Text != "" {
		return strings.TrimSpace(resp.Text)
	}

	if len(resp.Pages) > 0 {
		var parts []string
		for _, page := range resp.Pages {
			switch {
			case page.Markdown != "":
				parts = append(parts, page.Markdown)
			case len(page.Lines) > 0:
				parts = append(parts, joinItems(page.Lines, "\n"))
			case len(page.Paragraphs) > 0:
				parts = append(parts, joinItems(page.Paragraphs, "\n\n"))
			}
		}
		return strings.TrimSpace(strings.Join(parts, "\n\n"))
	}

	if len(resp.Blocks) > 0 {
		return strings.TrimSpace(joinItems(resp.Blocks, "\n"))
	}

	return ""
}

// joinItems concatenates the text of each item, skipping empty ones.
func joinItems(items []ocrTextItem, sep string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, sep)
}
