package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goodypm20014-source/hapche-social/models"
)

// OCRResult is the raw text the OCR step extracts from a label photo.
type OCRResult struct {
	Text  string
	Lines []string
}

// OCRProvider extracts text from a label image.
type OCRProvider interface {
	ExtractText(ctx context.Context, image []byte, contentType string) (OCRResult, error)
}

// SupplementAnalyzer turns extracted label text into structured data.
type SupplementAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (models.SupplementAnalysis, error)
}

// OCRBackend is the HTTP supplement backend: POST /scan with the image,
// then POST /analyze with the extracted text. Implements both pipeline
// steps.
type OCRBackend struct {
	baseURL string
	client  *http.Client
}

func NewOCRBackend(baseURL string, timeout time.Duration) *OCRBackend {
	return &OCRBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type ocrResponse struct {
	Success bool     `json:"success"`
	Text    string   `json:"text"`
	Lines   []string `json:"lines"`
}

func (b *OCRBackend) ExtractText(ctx context.Context, image []byte, contentType string) (OCRResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "label.jpg")
	if err != nil {
		return OCRResult{}, fmt.Errorf("failed to build scan form: %w", err)
	}
	if _, err := fw.Write(image); err != nil {
		return OCRResult{}, fmt.Errorf("failed to write scan form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return OCRResult{}, fmt.Errorf("failed to close scan form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/scan", &buf)
	if err != nil {
		return OCRResult{}, fmt.Errorf("failed to create scan request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return OCRResult{}, fmt.Errorf("failed to call scan endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return OCRResult{}, fmt.Errorf("failed to read scan response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return OCRResult{}, fmt.Errorf("scan endpoint error %d: %s", resp.StatusCode, string(body))
	}

	var or ocrResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return OCRResult{}, fmt.Errorf("failed to parse scan response: %w", err)
	}
	if !or.Success {
		return OCRResult{}, fmt.Errorf("scan endpoint reported failure")
	}
	return OCRResult{Text: or.Text, Lines: or.Lines}, nil
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Success bool                      `json:"success"`
	Data    models.SupplementAnalysis `json:"data"`
}

func (b *OCRBackend) AnalyzeText(ctx context.Context, text string) (models.SupplementAnalysis, error) {
	payload, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("failed to marshal analyze payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("failed to call analyze endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("failed to read analyze response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.SupplementAnalysis{}, fmt.Errorf("analyze endpoint error %d: %s", resp.StatusCode, string(body))
	}

	var ar analyzeResponse
	if err := json.Unmarshal(body, &ar); err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("failed to parse analyze response: %w", err)
	}
	if !ar.Success {
		return models.SupplementAnalysis{}, fmt.Errorf("analyze endpoint reported failure")
	}
	return ar.Data, nil
}
