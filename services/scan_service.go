package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/utils"
)

// Scan pipeline failure categories. Each maps to its own user-facing
// message; no partial ScanRecord is committed on any of them.
var (
	ErrScanUnavailable = errors.New("scan service unreachable")
	ErrOCREmpty        = errors.New("no text found on label")
	ErrAnalysisFailed  = errors.New("label analysis failed")
)

// ScanService runs the capture pipeline: OCR the image, analyze the
// text, archive the image, commit the record.
type ScanService struct {
	store    *Store
	ocr      OCRProvider
	analyzer SupplementAnalyzer
	timeout  time.Duration
	log      *zap.Logger
}

func NewScanService(store *Store, ocr OCRProvider, analyzer SupplementAnalyzer, timeout time.Duration, log *zap.Logger) *ScanService {
	return &ScanService{store: store, ocr: ocr, analyzer: analyzer, timeout: timeout, log: log}
}

// ScanAndAnalyze executes the full pipeline for one captured image.
// localURI is the caller's reference to the capture; it stands in as
// the record's image reference when S3 archival is off or fails.
func (s *ScanService) ScanAndAnalyze(ctx context.Context, image []byte, contentType, localURI string) (models.ScanRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ocrRes, err := s.ocr.ExtractText(ctx, image, contentType)
	if err != nil {
		return models.ScanRecord{}, fmt.Errorf("%w: %v", ErrScanUnavailable, err)
	}
	if strings.TrimSpace(ocrRes.Text) == "" {
		return models.ScanRecord{}, ErrOCREmpty
	}

	analysis, err := s.analyzer.AnalyzeText(ctx, ocrRes.Text)
	if err != nil {
		return models.ScanRecord{}, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	imageURI := localURI
	if utils.S3Enabled() {
		url, err := utils.UploadScanImage(ctx, image, contentType, s.store.User().ID)
		if err != nil {
			s.log.Warn("scan image archive failed, keeping local uri", zap.Error(err))
		} else {
			imageURI = url
		}
	}

	rec := s.store.AddScan(imageURI, analysis, scoreAnalysis(analysis))
	return rec, nil
}

// scoreAnalysis derives the 0–100 quality score from what the label
// disclosed. Rough heuristic: full serving info and an ingredient list
// score high, warnings and allergens subtract.
func scoreAnalysis(a models.SupplementAnalysis) *int {
	score := 40
	if len(a.Ingredients) > 0 {
		score += 25
	}
	if a.ServingSize != "" {
		score += 15
	}
	if a.ServingsPerContainer > 0 {
		score += 10
	}
	if a.Brand != "" {
		score += 10
	}
	score -= 5 * len(a.Warnings)
	score -= 3 * len(a.Allergens)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &score
}

// RedactedAnalysis is what a guest sees of a scan: product identity
// only, no ingredient breakdown, warnings, or score.
func RedactedAnalysis(a models.SupplementAnalysis) models.SupplementAnalysis {
	return models.SupplementAnalysis{
		ProductName: a.ProductName,
		Brand:       a.Brand,
	}
}

const analyzePrompt = `Extract structured supplement facts from this OCR text of a product label.

OCR text:
---
%s
---

Respond with JSON only, exactly this shape:
{
  "product_name": "",
  "brand": "",
  "ingredients": [],
  "serving_size": "",
  "servings_per_container": 0,
  "warnings": [],
  "allergens": [],
  "description": ""
}`

// LLMAnalyzer implements the analysis step over the chat collaborator,
// for deployments running Rekognition OCR without the supplement
// backend.
type LLMAnalyzer struct {
	chat Completer
}

func NewLLMAnalyzer(chat Completer) *LLMAnalyzer {
	return &LLMAnalyzer{chat: chat}
}

func (l *LLMAnalyzer) AnalyzeText(ctx context.Context, text string) (models.SupplementAnalysis, error) {
	reply, err := l.chat.Complete(ctx, fmt.Sprintf(analyzePrompt, text))
	if err != nil {
		return models.SupplementAnalysis{}, err
	}
	block := jsonBlockRe.FindString(reply)
	if block == "" {
		return models.SupplementAnalysis{}, fmt.Errorf("no JSON object in analysis reply")
	}
	var a models.SupplementAnalysis
	if err := json.Unmarshal([]byte(block), &a); err != nil {
		return models.SupplementAnalysis{}, fmt.Errorf("invalid analysis reply: %w", err)
	}
	if a.ProductName == "" {
		return models.SupplementAnalysis{}, fmt.Errorf("analysis reply missing product name")
	}
	return a, nil
}
