package models

import "time"

// VariantURLs holds the derived rendition URLs for one uploaded image.
// Derivation is pure URL rewriting; when no transformation endpoint is
// configured every field equals the original URL.
type VariantURLs struct {
	Thumbnail   string `json:"thumbnail_url"`
	MobileHero  string `json:"mobile_hero_url"`
	DesktopHero string `json:"desktop_hero_url"`
}

// ImageRecord is one row of attraction_images.
//
// Invariant: at most one record per attraction has IsPrimary set. The flag
// is only ever mutated through the promote transition, never by a direct
// field update.
type ImageRecord struct {
	ID           string    `json:"id"`
	AttractionID string    `json:"attraction_id"`
	StorageKey   string    `json:"storage_key"`
	ImageURL     string    `json:"image_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	MobileURL    string    `json:"mobile_hero_url"`
	DesktopURL   string    `json:"desktop_hero_url"`
	IsPrimary    bool      `json:"is_primary"`
	CreatedAt    time.Time `json:"created_at"`
}
