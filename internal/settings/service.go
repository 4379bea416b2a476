package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/store"
)

var ErrInvalidAmount = errors.New("amount must not be negative")

// MaxBlockedRangeDays bounds a single add or remove of blocked days.
const MaxBlockedRangeDays = 3*366 + 1

var ErrRangeTooLong = fmt.Errorf("blocked range must span at most %d days", MaxBlockedRangeDays)

// BlockedRangeDays counts the days from start to end inclusive, in either order.
func BlockedRangeDays(start, end calendar.Date) int {
	if end.Before(start) {
		start, end = end, start
	}
	return end.DaysSince(start) + 1
}

// Service owns the current Snapshot. Reads never block on the store;
// writes go to the store first and only then replace the snapshot and
// the cache.
type Service struct {
	store    store.Store
	cache    *Cache
	defaults Defaults

	mu   sync.RWMutex
	snap Snapshot

	// writeMu serializes read-modify-write cycles on the settings records.
	writeMu sync.Mutex
}

func NewService(st store.Store, cache *Cache, defaults Defaults) *Service {
	return &Service{
		store:    st,
		cache:    cache,
		defaults: defaults,
		snap:     defaults.snapshot(),
	}
}

// Snapshot returns a copy of the current settings.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

func (s *Service) replace(next Snapshot) {
	s.mu.Lock()
	s.snap = next.clone()
	s.mu.Unlock()

	if err := s.cache.Write(next); err != nil {
		log.Warn().Err(err).Msg("Failed to write settings cache")
	}
}

// Load seeds the snapshot from the cache and then refreshes it from the
// store. A failing store leaves the cached values in place.
func (s *Service) Load(ctx context.Context) error {
	cached, ok, err := s.cache.Read()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Ignoring unreadable settings cache")
	case ok:
		s.mu.Lock()
		s.snap = cached.clone()
		s.mu.Unlock()
		log.Info().Int("blocked", cached.Blocked.Len()).Msg("Loaded settings from cache")
	}

	if err := s.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to load settings from store; serving cached values")
	}
	return nil
}

// Refresh replaces the snapshot wholesale with what the store holds.
func (s *Service) Refresh(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.defaults.snapshot()

	site, err := s.store.GetSiteSettings(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("refresh site settings: %w", err)
	default:
		blocked, err := calendar.ParseBlockedSet(site.Blocked)
		if err != nil {
			return fmt.Errorf("refresh site settings: %w", err)
		}
		next.NightlyPrice = site.NightlyPrice
		next.CleaningFee = site.CleaningFee
		next.Blocked = blocked
	}

	hero, err := s.store.GetHeroSettings(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return fmt.Errorf("refresh hero settings: %w", err)
	default:
		if hero.Title != "" {
			next.Hero.Title = hero.Title
		}
		if hero.Subtitle != "" {
			next.Hero.Subtitle = hero.Subtitle
		}
		next.Hero.ImageURL = hero.ImageURL
		next.Hero.UpdatedAt = hero.UpdatedAt
	}

	if next.Rules, err = s.store.ListPricingRules(ctx); err != nil {
		return fmt.Errorf("refresh pricing rules: %w", err)
	}
	if next.Gallery, err = s.store.ListGalleryItems(ctx); err != nil {
		return fmt.Errorf("refresh gallery: %w", err)
	}

	s.replace(next)
	return nil
}

func (s *Service) saveSite(ctx context.Context, mutate func(*Snapshot) error) (Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	if err := mutate(&next); err != nil {
		return Snapshot{}, err
	}
	if _, err := s.store.UpsertSiteSettings(ctx, next.siteSettings()); err != nil {
		return Snapshot{}, err
	}
	s.replace(next)
	return next, nil
}

func (s *Service) SetNightlyPrice(ctx context.Context, price pricing.Amount) error {
	_, err := s.saveSite(ctx, func(next *Snapshot) error {
		if price < 0 {
			return ErrInvalidAmount
		}
		next.NightlyPrice = price
		return nil
	})
	return err
}

func (s *Service) SetCleaningFee(ctx context.Context, fee pricing.Amount) error {
	_, err := s.saveSite(ctx, func(next *Snapshot) error {
		if fee < 0 {
			return ErrInvalidAmount
		}
		next.CleaningFee = fee
		return nil
	})
	return err
}

// AddBlockedRange marks every day from start to end inclusive. A reversed
// range is swapped.
func (s *Service) AddBlockedRange(ctx context.Context, start, end calendar.Date) (calendar.BlockedSet, error) {
	if BlockedRangeDays(start, end) > MaxBlockedRangeDays {
		return s.Snapshot().Blocked, ErrRangeTooLong
	}
	next, err := s.saveSite(ctx, func(next *Snapshot) error {
		next.Blocked = next.Blocked.AddRange(start, end)
		return nil
	})
	return next.Blocked, err
}

// RemoveBlockedRange frees every day from start to end inclusive.
func (s *Service) RemoveBlockedRange(ctx context.Context, start, end calendar.Date) (calendar.BlockedSet, error) {
	if BlockedRangeDays(start, end) > MaxBlockedRangeDays {
		return s.Snapshot().Blocked, ErrRangeTooLong
	}
	next, err := s.saveSite(ctx, func(next *Snapshot) error {
		next.Blocked = next.Blocked.RemoveRange(start, end)
		return nil
	})
	return next.Blocked, err
}

// ToggleBlockedDate flips a single day.
func (s *Service) ToggleBlockedDate(ctx context.Context, d calendar.Date) (calendar.BlockedSet, error) {
	next, err := s.saveSite(ctx, func(next *Snapshot) error {
		next.Blocked = next.Blocked.Toggle(d)
		return nil
	})
	return next.Blocked, err
}

func (s *Service) checkRuleSlot(snap Snapshot, r pricing.Rule) error {
	if err := r.Validate(); err != nil {
		return err
	}
	key := r.Key()
	for _, existing := range snap.Rules {
		if existing.ID != r.ID && existing.Key() == key {
			return store.ErrDuplicateRule
		}
	}
	return nil
}

// CreateRule stores a new pricing rule. A rule for a period that already
// has one is rejected with store.ErrDuplicateRule.
func (s *Service) CreateRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	r.ID = ""
	if err := s.checkRuleSlot(next, r); err != nil {
		return pricing.Rule{}, err
	}
	created, err := s.store.CreatePricingRule(ctx, r)
	if err != nil {
		return pricing.Rule{}, err
	}
	next.Rules = append(next.Rules, created)
	s.replace(next)
	return created, nil
}

func (s *Service) UpdateRule(ctx context.Context, r pricing.Rule) (pricing.Rule, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	if err := s.checkRuleSlot(next, r); err != nil {
		return pricing.Rule{}, err
	}
	updated, err := s.store.UpdatePricingRule(ctx, r)
	if err != nil {
		return pricing.Rule{}, err
	}
	for i := range next.Rules {
		if next.Rules[i].ID == updated.ID {
			next.Rules[i] = updated
		}
	}
	s.replace(next)
	return updated, nil
}

func (s *Service) DeleteRule(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.DeletePricingRule(ctx, id); err != nil {
		return err
	}
	next := s.Snapshot()
	kept := next.Rules[:0]
	for _, r := range next.Rules {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	next.Rules = kept
	s.replace(next)
	return nil
}

func (s *Service) saveHero(ctx context.Context, mutate func(*store.HeroSettings)) (store.HeroSettings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	mutate(&next.Hero)
	saved, err := s.store.UpsertHeroSettings(ctx, next.Hero)
	if err != nil {
		return store.HeroSettings{}, err
	}
	next.Hero = saved
	s.replace(next)
	return saved, nil
}

// SetHeroText updates the hero title and subtitle. Blank values keep the
// current text.
func (s *Service) SetHeroText(ctx context.Context, title, subtitle string) (store.HeroSettings, error) {
	return s.saveHero(ctx, func(h *store.HeroSettings) {
		if t := strings.TrimSpace(title); t != "" {
			h.Title = t
		}
		if st := strings.TrimSpace(subtitle); st != "" {
			h.Subtitle = st
		}
	})
}

// SetHeroImage records the hero image URL; an empty URL clears it.
func (s *Service) SetHeroImage(ctx context.Context, imageURL string) (store.HeroSettings, error) {
	return s.saveHero(ctx, func(h *store.HeroSettings) {
		h.ImageURL = imageURL
	})
}

func (s *Service) fillDescriptions(snap Snapshot, items []store.GalleryItem) []store.GalleryItem {
	out := make([]store.GalleryItem, len(items))
	for i, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			item.Description = snap.Hero.Subtitle
		}
		out[i] = item
	}
	return out
}

// AddGalleryItems appends uploaded images to the gallery. Items without a
// description take the hero subtitle.
func (s *Service) AddGalleryItems(ctx context.Context, items []store.GalleryItem) ([]store.GalleryItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	created, err := s.store.AddGalleryItems(ctx, s.fillDescriptions(next, items))
	if err != nil {
		return nil, err
	}
	next.Gallery = append(next.Gallery, created...)
	s.replace(next)
	return created, nil
}

// ReplaceGallery swaps the whole gallery.
func (s *Service) ReplaceGallery(ctx context.Context, items []store.GalleryItem) ([]store.GalleryItem, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	created, err := s.store.ReplaceGalleryItems(ctx, s.fillDescriptions(next, items))
	if err != nil {
		return nil, err
	}
	next.Gallery = created
	s.replace(next)
	return created, nil
}

// RemoveGalleryItem deletes an item and returns it so the caller can clean
// up its image.
func (s *Service) RemoveGalleryItem(ctx context.Context, id string) (store.GalleryItem, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := s.Snapshot()
	removed, ok := next.GalleryItem(id)
	if err := s.store.DeleteGalleryItem(ctx, id); err != nil {
		return store.GalleryItem{}, err
	}
	if !ok {
		removed = store.GalleryItem{ID: id}
	}
	kept := next.Gallery[:0]
	for _, item := range next.Gallery {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	next.Gallery = kept
	s.replace(next)
	return removed, nil
}
