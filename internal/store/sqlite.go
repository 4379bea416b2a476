package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/db"
	dbgen "github.com/casaluxe/stay/internal/db/generated"
	"github.com/casaluxe/stay/internal/pricing"
)

// SQLite implements Store and AdminUsers on the generated queries.
type SQLite struct {
	db  *db.DB
	now func() time.Time
}

var (
	_ Store      = (*SQLite)(nil)
	_ AdminUsers = (*SQLite)(nil)
)

func NewSQLite(database *db.DB) *SQLite {
	return &SQLite{db: database, now: time.Now}
}

func (s *SQLite) InsertInquiry(ctx context.Context, in Inquiry) (Inquiry, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now().UTC()
	}
	row, err := s.db.Queries.CreateInquiry(ctx, dbgen.CreateInquiryParams{
		ID:        in.ID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     nullString(in.Notes),
		StartDate: in.CheckIn.String(),
		EndDate:   in.CheckOut.String(),
		CreatedAt: formatTimestamp(in.CreatedAt),
	})
	if err != nil {
		return Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}
	return inquiryFromRow(row)
}

func (s *SQLite) ListRecentInquiries(ctx context.Context, limit int) ([]Inquiry, error) {
	rows, err := s.db.Queries.ListRecentInquiries(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	out := make([]Inquiry, 0, len(rows))
	for _, row := range rows {
		in, err := inquiryFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

func inquiryFromRow(row dbgen.Inquiry) (Inquiry, error) {
	checkIn, err := calendar.ParseDate(row.StartDate)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry %s start date: %w", row.ID, err)
	}
	checkOut, err := calendar.ParseDate(row.EndDate)
	if err != nil {
		return Inquiry{}, fmt.Errorf("inquiry %s end date: %w", row.ID, err)
	}
	return Inquiry{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Notes:     row.Notes.String,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		CreatedAt: parseTimestamp(row.CreatedAt),
	}, nil
}

func (s *SQLite) GetSiteSettings(ctx context.Context) (SiteSettings, error) {
	row, err := s.db.Queries.GetSiteSettings(ctx, SettingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return SiteSettings{}, ErrNotFound
	}
	if err != nil {
		return SiteSettings{}, fmt.Errorf("get site settings: %w", err)
	}
	return siteSettingsFromRow(row)
}

func (s *SQLite) UpsertSiteSettings(ctx context.Context, settings SiteSettings) (SiteSettings, error) {
	blocked := settings.Blocked
	if blocked == nil {
		blocked = []string{}
	}
	encoded, err := json.Marshal(blocked)
	if err != nil {
		return SiteSettings{}, fmt.Errorf("encode blocked dates: %w", err)
	}
	row, err := s.db.Queries.UpsertSiteSettings(ctx, dbgen.UpsertSiteSettingsParams{
		ID:                SettingsKey,
		NightlyPriceCents: int64(settings.NightlyPrice),
		CleaningFeeCents:  int64(settings.CleaningFee),
		BlockedDates:      string(encoded),
	})
	if err != nil {
		return SiteSettings{}, fmt.Errorf("upsert site settings: %w", err)
	}
	return siteSettingsFromRow(row)
}

func siteSettingsFromRow(row dbgen.SiteSetting) (SiteSettings, error) {
	var blocked []string
	if strings.TrimSpace(row.BlockedDates) != "" {
		if err := json.Unmarshal([]byte(row.BlockedDates), &blocked); err != nil {
			return SiteSettings{}, fmt.Errorf("decode blocked dates: %w", err)
		}
	}
	return SiteSettings{
		NightlyPrice: pricing.Amount(row.NightlyPriceCents),
		CleaningFee:  pricing.Amount(row.CleaningFeeCents),
		Blocked:      blocked,
		UpdatedAt:    parseTimestamp(row.UpdatedAt),
	}, nil
}

func (s *SQLite) ListPricingRules(ctx context.Context) ([]pricing.Rule, error) {
	rows, err := s.db.Queries.ListPricingRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	rules := make([]pricing.Rule, 0, len(rows))
	for _, row := range rows {
		r, err := ruleFromRow(row)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func (s *SQLite) CreatePricingRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error) {
	if err := r.Validate(); err != nil {
		return pricing.Rule{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	params := ruleParams(r)
	row, err := s.db.Queries.CreatePricingRule(ctx, dbgen.CreatePricingRuleParams{
		ID:           r.ID,
		Scope:        params.Scope,
		SpecificDate: params.SpecificDate,
		Year:         params.Year,
		Month:        params.Month,
		WeekOfMonth:  params.WeekOfMonth,
		PriceCents:   params.PriceCents,
		RuleKey:      params.RuleKey,
	})
	if err != nil {
		return pricing.Rule{}, mapRuleError("create pricing rule", err)
	}
	return ruleFromRow(row)
}

func (s *SQLite) UpdatePricingRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error) {
	if err := r.Validate(); err != nil {
		return pricing.Rule{}, err
	}
	params := ruleParams(r)
	params.ID = r.ID
	row, err := s.db.Queries.UpdatePricingRule(ctx, params)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Rule{}, ErrNotFound
	}
	if err != nil {
		return pricing.Rule{}, mapRuleError("update pricing rule", err)
	}
	return ruleFromRow(row)
}

func (s *SQLite) DeletePricingRule(ctx context.Context, id string) error {
	n, err := s.db.Queries.DeletePricingRule(ctx, id)
	if err != nil {
		return fmt.Errorf("delete pricing rule: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func ruleParams(r pricing.Rule) dbgen.UpdatePricingRuleParams {
	p := dbgen.UpdatePricingRuleParams{
		Scope:      string(r.Scope),
		PriceCents: int64(r.Price),
		RuleKey:    r.Key(),
	}
	switch r.Scope {
	case pricing.ScopeDay:
		p.SpecificDate = nullString(r.Date.String())
	case pricing.ScopeWeek:
		p.Year = nullInt(r.Year)
		p.Month = nullInt(int(r.Month))
		p.WeekOfMonth = nullInt(r.Week)
	case pricing.ScopeMonth:
		p.Year = nullInt(r.Year)
		p.Month = nullInt(int(r.Month))
	}
	return p
}

func ruleFromRow(row dbgen.PricingRule) (pricing.Rule, error) {
	scope, err := pricing.ParseScope(row.Scope)
	if err != nil {
		return pricing.Rule{}, fmt.Errorf("pricing rule %s: %w", row.ID, err)
	}
	r := pricing.Rule{
		ID:    row.ID,
		Scope: scope,
		Year:  int(row.Year.Int64),
		Month: time.Month(row.Month.Int64),
		Week:  int(row.WeekOfMonth.Int64),
		Price: pricing.Amount(row.PriceCents),
	}
	if row.SpecificDate.Valid {
		d, err := calendar.ParseDate(row.SpecificDate.String)
		if err != nil {
			return pricing.Rule{}, fmt.Errorf("pricing rule %s: %w", row.ID, err)
		}
		r.Date = d
	}
	return r, nil
}

func mapRuleError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateRule
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *SQLite) GetHeroSettings(ctx context.Context) (HeroSettings, error) {
	row, err := s.db.Queries.GetHeroSettings(ctx, SettingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return HeroSettings{}, ErrNotFound
	}
	if err != nil {
		return HeroSettings{}, fmt.Errorf("get hero settings: %w", err)
	}
	return heroFromRow(row), nil
}

func (s *SQLite) UpsertHeroSettings(ctx context.Context, h HeroSettings) (HeroSettings, error) {
	row, err := s.db.Queries.UpsertHeroSettings(ctx, dbgen.UpsertHeroSettingsParams{
		ID:       SettingsKey,
		Title:    h.Title,
		Subtitle: h.Subtitle,
		ImageUrl: nullString(h.ImageURL),
	})
	if err != nil {
		return HeroSettings{}, fmt.Errorf("upsert hero settings: %w", err)
	}
	return heroFromRow(row), nil
}

func heroFromRow(row dbgen.HeroSetting) HeroSettings {
	return HeroSettings{
		Title:     row.Title,
		Subtitle:  row.Subtitle,
		ImageURL:  row.ImageUrl.String,
		UpdatedAt: parseTimestamp(row.UpdatedAt),
	}
}

func (s *SQLite) ListGalleryItems(ctx context.Context) ([]GalleryItem, error) {
	rows, err := s.db.Queries.ListGalleryItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	items := make([]GalleryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, galleryFromRow(row))
	}
	return items, nil
}

// AddGalleryItems appends items after the current last position.
func (s *SQLite) AddGalleryItems(ctx context.Context, items []GalleryItem) ([]GalleryItem, error) {
	var created []GalleryItem
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		next, err := tx.Queries.NextGalleryPosition(ctx)
		if err != nil {
			return fmt.Errorf("next gallery position: %w", err)
		}
		created, err = s.insertGalleryItems(ctx, tx, items, int(next))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReplaceGalleryItems swaps the whole gallery for items in one transaction.
func (s *SQLite) ReplaceGalleryItems(ctx context.Context, items []GalleryItem) ([]GalleryItem, error) {
	var created []GalleryItem
	err := s.db.RunInTx(ctx, func(tx *db.DB) error {
		if err := tx.Queries.DeleteAllGalleryItems(ctx); err != nil {
			return fmt.Errorf("clear gallery: %w", err)
		}
		var err error
		created, err = s.insertGalleryItems(ctx, tx, items, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SQLite) insertGalleryItems(ctx context.Context, tx *db.DB, items []GalleryItem, start int) ([]GalleryItem, error) {
	created := make([]GalleryItem, 0, len(items))
	now := s.now().UTC()
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		row, err := tx.Queries.CreateGalleryItem(ctx, dbgen.CreateGalleryItemParams{
			ID:          item.ID,
			ImageUrl:    item.ImageURL,
			Title:       item.Title,
			Description: item.Description,
			Position:    int64(start + i),
			CreatedAt:   formatTimestamp(item.CreatedAt),
		})
		if err != nil {
			return nil, fmt.Errorf("insert gallery item: %w", err)
		}
		created = append(created, galleryFromRow(row))
	}
	return created, nil
}

func (s *SQLite) DeleteGalleryItem(ctx context.Context, id string) error {
	n, err := s.db.Queries.DeleteGalleryItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete gallery item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func galleryFromRow(row dbgen.GalleryItem) GalleryItem {
	return GalleryItem{
		ID:          row.ID,
		ImageURL:    row.ImageUrl,
		Title:       row.Title,
		Description: row.Description,
		Position:    int(row.Position),
		CreatedAt:   parseTimestamp(row.CreatedAt),
	}
}

func (s *SQLite) CreateAdminUser(ctx context.Context, u AdminUser) (AdminUser, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = "admin"
	}
	row, err := s.db.Queries.CreateAdminUser(ctx, dbgen.CreateAdminUserParams{
		ID:           u.ID,
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	})
	if err != nil {
		return AdminUser{}, fmt.Errorf("create admin user: %w", err)
	}
	return adminFromRow(row), nil
}

func (s *SQLite) GetAdminUserByEmail(ctx context.Context, email string) (AdminUser, error) {
	row, err := s.db.Queries.GetAdminUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return AdminUser{}, ErrNotFound
	}
	if err != nil {
		return AdminUser{}, fmt.Errorf("get admin user: %w", err)
	}
	return adminFromRow(row), nil
}

func (s *SQLite) SetAdminPassword(ctx context.Context, email, passwordHash string) error {
	n, err := s.db.Queries.UpdateAdminUserPassword(ctx, dbgen.UpdateAdminUserPasswordParams{
		PasswordHash: passwordHash,
		Email:        strings.ToLower(strings.TrimSpace(email)),
	})
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func adminFromRow(row dbgen.AdminUser) AdminUser {
	return AdminUser{
		ID:           row.ID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         row.Role,
		CreatedAt:    parseTimestamp(row.CreatedAt),
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// sqliteTimestamp is the layout CURRENT_TIMESTAMP writes.
const sqliteTimestamp = "2006-01-02 15:04:05"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, sqliteTimestamp} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
