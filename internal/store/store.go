// Package store defines the record store the site persists to and a SQLite
// implementation of it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
)

// SettingsKey is the fixed key of the single site and hero settings records.
const SettingsKey = "default"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateRule = errors.New("a pricing rule already exists for this period")
)

// Inquiry is an append-only guest availability request.
type Inquiry struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Notes     string
	CheckIn   calendar.Date
	CheckOut  calendar.Date
	CreatedAt time.Time
}

// SiteSettings holds the base amounts and the blocked days.
type SiteSettings struct {
	NightlyPrice pricing.Amount
	CleaningFee  pricing.Amount
	Blocked      []string
	UpdatedAt    time.Time
}

type HeroSettings struct {
	Title     string
	Subtitle  string
	ImageURL  string
	UpdatedAt time.Time
}

type GalleryItem struct {
	ID          string
	ImageURL    string
	Title       string
	Description string
	Position    int
	CreatedAt   time.Time
}

// AdminUser is a locally managed admin account.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Store is the persistence contract used by the settings service, the
// inquiry pipeline and the admin panel. Writes are last-writer-wins.
type Store interface {
	InsertInquiry(ctx context.Context, in Inquiry) (Inquiry, error)
	ListRecentInquiries(ctx context.Context, limit int) ([]Inquiry, error)

	GetSiteSettings(ctx context.Context) (SiteSettings, error)
	UpsertSiteSettings(ctx context.Context, s SiteSettings) (SiteSettings, error)

	ListPricingRules(ctx context.Context) ([]pricing.Rule, error)
	CreatePricingRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error)
	UpdatePricingRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error)
	DeletePricingRule(ctx context.Context, id string) error

	GetHeroSettings(ctx context.Context) (HeroSettings, error)
	UpsertHeroSettings(ctx context.Context, h HeroSettings) (HeroSettings, error)

	ListGalleryItems(ctx context.Context) ([]GalleryItem, error)
	AddGalleryItems(ctx context.Context, items []GalleryItem) ([]GalleryItem, error)
	ReplaceGalleryItems(ctx context.Context, items []GalleryItem) ([]GalleryItem, error)
	DeleteGalleryItem(ctx context.Context, id string) error
}

// AdminUsers backs the local auth provider.
type AdminUsers interface {
	CreateAdminUser(ctx context.Context, u AdminUser) (AdminUser, error)
	GetAdminUserByEmail(ctx context.Context, email string) (AdminUser, error)
	SetAdminPassword(ctx context.Context, email, passwordHash string) error
}
