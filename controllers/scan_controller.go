package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/services"
)

type ScanController struct {
	Store *services.Store
	Scans *services.ScanService
}

func NewScanController(store *services.Store, scans *services.ScanService) *ScanController {
	return &ScanController{Store: store, Scans: scans}
}

// Create runs the scan pipeline on an uploaded label photo. Each
// failure category gets its own message so the client can tell a dead
// backend from an unreadable label.
func (s *ScanController) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	localURI := c.PostForm("image_uri")

	rec, err := s.Scans.ScanAndAnalyze(c.Request.Context(), image, contentType, localURI)
	switch {
	case errors.Is(err, services.ErrScanUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Скенерът не е достъпен в момента. Опитайте отново."})
		return
	case errors.Is(err, services.ErrOCREmpty):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Не разчетохме текст от етикета. Опитайте с по-ясна снимка."})
		return
	case errors.Is(err, services.ErrAnalysisFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Анализът на етикета се провали. Опитайте отново."})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"scan": s.view(rec)})
}

// List returns the scan history, most recent first.
func (s *ScanController) List(c *gin.Context) {
	scans := s.Store.Scans()
	out := make([]gin.H, 0, len(scans))
	for _, rec := range scans {
		out = append(out, s.view(rec))
	}
	c.JSON(http.StatusOK, gin.H{"scans": out})
}

func (s *ScanController) Get(c *gin.Context) {
	id := c.Param("id")
	for _, rec := range s.Store.Scans() {
		if rec.ID == id {
			c.JSON(http.StatusOK, gin.H{"scan": s.view(rec)})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
}

// view redacts the detailed analysis and score for guests.
func (s *ScanController) view(rec models.ScanRecord) gin.H {
	if services.CanAccessDetailedAnalysis(s.Store.EffectiveTier()) {
		return gin.H{
			"id":         rec.ID,
			"created_at": rec.CreatedAt,
			"image_uri":  rec.ImageURI,
			"analysis":   rec.Analysis,
			"score":      rec.Score,
		}
	}
	return gin.H{
		"id":         rec.ID,
		"created_at": rec.CreatedAt,
		"image_uri":  rec.ImageURI,
		"analysis":   services.RedactedAnalysis(rec.Analysis),
	}
}
