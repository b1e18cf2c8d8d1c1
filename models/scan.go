package models

import "time"

// SupplementAnalysis is the structured payload the analysis backend
// extracts from a label photo.
type SupplementAnalysis struct {
	ProductName          string   `json:"product_name"`
	Brand                string   `json:"brand"`
	Ingredients          []string `json:"ingredients"`
	ServingSize          string   `json:"serving_size"`
	ServingsPerContainer int      `json:"servings_per_container"`
	Warnings             []string `json:"warnings"`
	Allergens            []string `json:"allergens"`
	Description          string   `json:"description"`
}

// ScanRecord is one completed OCR+analysis result. Immutable once
// created; the scan list is kept most-recent-first.
type ScanRecord struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	ImageURI  string             `json:"image_uri"`
	Analysis  SupplementAnalysis `json:"analysis"`
	Score     *int               `json:"score,omitempty"` // 0–100
}

// FavoriteIngredient is a saved ingredient name (free tier and up).
type FavoriteIngredient struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
}
