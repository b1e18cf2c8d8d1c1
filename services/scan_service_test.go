package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/models"
)

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) ExtractText(_ context.Context, _ []byte, _ string) (OCRResult, error) {
	if f.err != nil {
		return OCRResult{}, f.err
	}
	return OCRResult{Text: f.text}, nil
}

type fakeAnalyzer struct {
	analysis models.SupplementAnalysis
	err      error
	gotText  string
}

func (f *fakeAnalyzer) AnalyzeText(_ context.Context, text string) (models.SupplementAnalysis, error) {
	f.gotText = text
	if f.err != nil {
		return models.SupplementAnalysis{}, f.err
	}
	return f.analysis, nil
}

var labelAnalysis = models.SupplementAnalysis{
	ProductName:          "Витамин D3 2000IU",
	Brand:                "NatureLab",
	Ingredients:          []string{"холекалциферол", "зехтин"},
	ServingSize:          "1 капсула",
	ServingsPerContainer: 60,
}

func newScanService(t *testing.T, ocr OCRProvider, analyzer SupplementAnalyzer) (*ScanService, *Store) {
	t.Helper()
	store, _, _ := newTestStore(t)
	return NewScanService(store, ocr, analyzer, time.Second, zap.NewNop()), store
}

func TestScanAndAnalyze(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: labelAnalysis}
	svc, store := newScanService(t, &fakeOCR{text: "Vitamin D3 2000IU\n60 capsules"}, analyzer)

	rec, err := svc.ScanAndAnalyze(context.Background(), []byte("jpeg-bytes"), "image/jpeg", "file:///label.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Vitamin D3 2000IU\n60 capsules", analyzer.gotText)
	assert.Equal(t, "file:///label.jpg", rec.ImageURI, "local uri kept when archival is off")
	assert.Equal(t, labelAnalysis, rec.Analysis)
	require.NotNil(t, rec.Score)
	assert.Equal(t, 100, *rec.Score)

	// scans are recorded for guests too; redaction is a read concern
	require.Len(t, store.Scans(), 1)
	assert.Equal(t, rec.ID, store.Scans()[0].ID)
}

func TestScanAndAnalyze_OCRUnreachable(t *testing.T) {
	svc, store := newScanService(t, &fakeOCR{err: fmt.Errorf("connection refused")}, &fakeAnalyzer{})

	_, err := svc.ScanAndAnalyze(context.Background(), []byte("jpeg"), "image/jpeg", "file:///a.jpg")
	assert.ErrorIs(t, err, ErrScanUnavailable)
	assert.Empty(t, store.Scans())
}

func TestScanAndAnalyze_NoTextOnLabel(t *testing.T) {
	svc, store := newScanService(t, &fakeOCR{text: "  \n "}, &fakeAnalyzer{})

	_, err := svc.ScanAndAnalyze(context.Background(), []byte("jpeg"), "image/jpeg", "file:///a.jpg")
	assert.ErrorIs(t, err, ErrOCREmpty)
	assert.Empty(t, store.Scans())
}

func TestScanAndAnalyze_AnalysisFailure(t *testing.T) {
	svc, store := newScanService(t, &fakeOCR{text: "some label"}, &fakeAnalyzer{err: fmt.Errorf("model overloaded")})

	_, err := svc.ScanAndAnalyze(context.Background(), []byte("jpeg"), "image/jpeg", "file:///a.jpg")
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Empty(t, store.Scans())
}

func TestScoreAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		analysis models.SupplementAnalysis
		want     int
	}{
		{"bare label", models.SupplementAnalysis{ProductName: "X"}, 40},
		{"full disclosure", labelAnalysis, 100},
		{"warnings subtract", models.SupplementAnalysis{
			ProductName: "X",
			Ingredients: []string{"a"},
			Warnings:    []string{"w1", "w2"},
			Allergens:   []string{"соя"},
		}, 52},
		{"clamped at zero", models.SupplementAnalysis{
			Warnings: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreAnalysis(tt.analysis)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestRedactedAnalysis(t *testing.T) {
	got := RedactedAnalysis(labelAnalysis)

	assert.Equal(t, labelAnalysis.ProductName, got.ProductName)
	assert.Equal(t, labelAnalysis.Brand, got.Brand)
	assert.Empty(t, got.Ingredients)
	assert.Empty(t, got.ServingSize)
	assert.Zero(t, got.ServingsPerContainer)
	assert.Empty(t, got.Warnings)
}

func TestLLMAnalyzer(t *testing.T) {
	t.Run("parses fenced reply", func(t *testing.T) {
		chat := &fakeCompleter{reply: "```json\n{\"product_name\": \"Магнезий 400\", \"brand\": \"BioLine\", \"ingredients\": [\"магнезиев цитрат\"]}\n```"}
		a := NewLLMAnalyzer(chat)

		got, err := a.AnalyzeText(context.Background(), "Magnesium 400mg")
		require.NoError(t, err)
		assert.Equal(t, "Магнезий 400", got.ProductName)
		assert.Equal(t, []string{"магнезиев цитрат"}, got.Ingredients)
		require.Len(t, chat.prompts, 1)
		assert.Contains(t, chat.prompts[0], "Magnesium 400mg")
	})

	t.Run("missing product name", func(t *testing.T) {
		chat := &fakeCompleter{reply: `{"brand": "BioLine"}`}
		a := NewLLMAnalyzer(chat)

		_, err := a.AnalyzeText(context.Background(), "unreadable")
		assert.Error(t, err)
	})

	t.Run("no JSON", func(t *testing.T) {
		chat := &fakeCompleter{reply: "I could not read the label."}
		a := NewLLMAnalyzer(chat)

		_, err := a.AnalyzeText(context.Background(), "unreadable")
		assert.Error(t, err)
	})
}
