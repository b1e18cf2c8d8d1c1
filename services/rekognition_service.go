package services

import (
	"context"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionOCR extracts label text with AWS Rekognition DetectText.
// Used as the OCR step when no supplement backend URL is configured.
type RekognitionOCR struct {
	client *rekognition.Client
}

func NewRekognitionOCR() (*RekognitionOCR, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionOCR{client: rekognition.NewFromConfig(cfg)}, nil
}

// ExtractText returns the detected lines top to bottom. Word-level
// detections are skipped; lines already cover them.
func (r *RekognitionOCR) ExtractText(ctx context.Context, image []byte, contentType string) (OCRResult, error) {
	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return OCRResult{}, err
	}

	var lines []string
	for _, d := range out.TextDetections {
		if d.Type != types.TextTypesLine || d.DetectedText == nil {
			continue
		}
		lines = append(lines, *d.DetectedText)
	}
	return OCRResult{Text: strings.Join(lines, "\n"), Lines: lines}, nil
}
