package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/store"
)

// Cache persists the last known snapshot so a restart can render real
// content before the store answers. It is never the source of truth.
type Cache struct {
	path string
}

// NewCache returns a file cache at path. An empty path disables caching.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

type cachedGalleryItem struct {
	ID          string    `json:"id"`
	ImageURL    string    `json:"image_url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

type cacheFile struct {
	NightlyPrice  pricing.Amount      `json:"nightly_price"`
	CleaningFee   pricing.Amount      `json:"cleaning_fee"`
	BlockedDates  []string            `json:"blocked_dates"`
	Rules         []pricing.Rule      `json:"pricing_rules"`
	HeroTitle     string              `json:"hero_title"`
	HeroSubtitle  string              `json:"hero_subtitle"`
	HeroImageURL  string              `json:"hero_image_url,omitempty"`
	GalleryImages []cachedGalleryItem `json:"gallery_images"`
	SavedAt       time.Time           `json:"saved_at"`
}

// Read returns the cached snapshot. ok is false when nothing is cached.
func (c *Cache) Read() (snap Snapshot, ok bool, err error) {
	if c == nil || c.path == "" {
		return Snapshot{}, false, nil
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("read settings cache: %w", err)
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode settings cache: %w", err)
	}
	blocked, err := calendar.ParseBlockedSet(file.BlockedDates)
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("decode settings cache: %w", err)
	}

	snap = Snapshot{
		NightlyPrice: file.NightlyPrice,
		CleaningFee:  file.CleaningFee,
		Blocked:      blocked,
		Rules:        file.Rules,
		Hero: store.HeroSettings{
			Title:    file.HeroTitle,
			Subtitle: file.HeroSubtitle,
			ImageURL: file.HeroImageURL,
		},
	}
	for _, item := range file.GalleryImages {
		snap.Gallery = append(snap.Gallery, store.GalleryItem(item))
	}
	return snap, true, nil
}

// Write replaces the cache file atomically.
func (c *Cache) Write(snap Snapshot) error {
	if c == nil || c.path == "" {
		return nil
	}
	file := cacheFile{
		NightlyPrice: snap.NightlyPrice,
		CleaningFee:  snap.CleaningFee,
		BlockedDates: snap.Blocked.Strings(),
		Rules:        snap.Rules,
		HeroTitle:    snap.Hero.Title,
		HeroSubtitle: snap.Hero.Subtitle,
		HeroImageURL: snap.Hero.ImageURL,
		SavedAt:      time.Now().UTC(),
	}
	for _, item := range snap.Gallery {
		file.GalleryImages = append(file.GalleryImages, cachedGalleryItem(item))
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create settings cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create settings cache: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replace settings cache: %w", err)
	}
	return nil
}
