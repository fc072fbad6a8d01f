package model

import "time"

// Certificate is a generated certificate record. The slug is the public
// lookup key and never changes once assigned.
type Certificate struct {
	Slug         string     `json:"slug" db:"slug"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	AssetURL     string     `json:"asset_url" db:"asset_url"`
	AssetID      string     `json:"asset_id" db:"asset_id"`
	PreviewURL   *string    `json:"preview_url,omitempty" db:"preview_url"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ViewCount    int        `json:"view_count" db:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty" db:"last_viewed_at"`
}

// Artifact identifies an object stored in external object storage.
type Artifact struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Participant is one entry in a generation batch.
type Participant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GenerationResult is the per-item outcome of a generation batch.
type GenerationResult struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Slug    string `json:"slug,omitempty"`
	URL     string `json:"url,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchSummary aggregates the results of a generation batch.
type BatchSummary struct {
	Total     int                `json:"total"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
	Results   []GenerationResult `json:"results"`
}

// EmailResult is the per-item outcome of a notification batch.
type EmailResult struct {
	Slug    string `json:"slug"`
	Email   string `json:"email,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// EmailBatchSummary aggregates the results of a notification batch.
type EmailBatchSummary struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Results   []EmailResult `json:"results"`
}
