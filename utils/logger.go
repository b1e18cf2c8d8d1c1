package utils

import (
	"log"
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process logger. APP_ENV=dev switches to the
// human-readable development encoder.
func NewLogger() *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if os.Getenv("APP_ENV") == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}
