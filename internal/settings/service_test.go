package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/store"
	"github.com/casaluxe/stay/internal/testutil"
)

var testDefaults = Defaults{NightlyPrice: pricing.Reais(1000), CleaningFee: pricing.Reais(200)}

func newTestService(t *testing.T) (*Service, *store.SQLite, *Cache) {
	t.Helper()
	st := store.NewSQLite(testutil.NewTestDB(t))
	cache := NewCache(filepath.Join(t.TempDir(), "settings.json"))
	return NewService(st, cache, testDefaults), st, cache
}

// unavailableStore fails every call, like an unreachable backend.
type unavailableStore struct {
	store.Store
}

var errUnavailable = errors.New("backend unavailable")

func (unavailableStore) GetSiteSettings(context.Context) (store.SiteSettings, error) {
	return store.SiteSettings{}, errUnavailable
}

func (unavailableStore) UpsertSiteSettings(context.Context, store.SiteSettings) (store.SiteSettings, error) {
	return store.SiteSettings{}, errUnavailable
}

func TestLoadUsesDefaultsOnEmptyStore(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := svc.Snapshot()
	if snap.NightlyPrice != pricing.Reais(1000) || snap.CleaningFee != pricing.Reais(200) {
		t.Fatalf("snapshot amounts = %s/%s", snap.NightlyPrice, snap.CleaningFee)
	}
	if snap.Hero.Title != DefaultHeroTitle || snap.Hero.Subtitle != DefaultHeroSubtitle {
		t.Fatalf("hero = %+v", snap.Hero)
	}
}

func TestWritesPersistAndSurviveReload(t *testing.T) {
	svc, st, cache := newTestService(t)
	ctx := context.Background()

	if err := svc.SetNightlyPrice(ctx, pricing.Reais(1200)); err != nil {
		t.Fatalf("SetNightlyPrice: %v", err)
	}
	if err := svc.SetCleaningFee(ctx, pricing.Reais(250)); err != nil {
		t.Fatalf("SetCleaningFee: %v", err)
	}
	if _, err := svc.AddBlockedRange(ctx, calendar.MustParseDate("2025-01-12"), calendar.MustParseDate("2025-01-10")); err != nil {
		t.Fatalf("AddBlockedRange: %v", err)
	}

	reloaded := NewService(st, cache, testDefaults)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := reloaded.Snapshot()
	if snap.NightlyPrice != pricing.Reais(1200) || snap.CleaningFee != pricing.Reais(250) {
		t.Fatalf("amounts = %s/%s", snap.NightlyPrice, snap.CleaningFee)
	}
	if snap.Blocked.Len() != 3 || !snap.IsBlocked(calendar.MustParseDate("2025-01-11")) {
		t.Fatalf("blocked = %v", snap.Blocked.Strings())
	}
}

func TestSetNightlyPriceRejectsNegative(t *testing.T) {
	svc, _, _ := newTestService(t)
	if err := svc.SetNightlyPrice(context.Background(), -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("SetNightlyPrice(-1) = %v, want ErrInvalidAmount", err)
	}
}

func TestRemoveBlockedRangeRestoresPreviousSet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	start := calendar.MustParseDate("2025-02-01")
	end := calendar.MustParseDate("2025-02-03")

	if _, err := svc.ToggleBlockedDate(ctx, calendar.MustParseDate("2025-01-20")); err != nil {
		t.Fatalf("ToggleBlockedDate: %v", err)
	}
	before := svc.Snapshot().Blocked
	if _, err := svc.AddBlockedRange(ctx, start, end); err != nil {
		t.Fatalf("AddBlockedRange: %v", err)
	}
	after, err := svc.RemoveBlockedRange(ctx, start, end)
	if err != nil {
		t.Fatalf("RemoveBlockedRange: %v", err)
	}
	if !after.Equal(before) {
		t.Fatalf("blocked after remove = %v, want %v", after.Strings(), before.Strings())
	}
}

func TestBlockedRangeLimit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	start := calendar.MustParseDate("2025-01-01")

	if got := BlockedRangeDays(start, start); got != 1 {
		t.Fatalf("BlockedRangeDays(same day) = %d", got)
	}
	last := start.AddDays(MaxBlockedRangeDays - 1)
	if got := BlockedRangeDays(last, start); got != MaxBlockedRangeDays {
		t.Fatalf("BlockedRangeDays(reversed) = %d, want %d", got, MaxBlockedRangeDays)
	}

	if _, err := svc.AddBlockedRange(ctx, start, last.AddDays(1)); !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("AddBlockedRange err = %v, want ErrRangeTooLong", err)
	}
	if _, err := svc.RemoveBlockedRange(ctx, calendar.MustParseDate("0001-01-01"), calendar.MustParseDate("9999-12-31")); !errors.Is(err, ErrRangeTooLong) {
		t.Fatalf("RemoveBlockedRange err = %v, want ErrRangeTooLong", err)
	}
	if n := svc.Snapshot().Blocked.Len(); n != 0 {
		t.Fatalf("blocked = %d days after rejected ranges", n)
	}

	blocked, err := svc.AddBlockedRange(ctx, start, last)
	if err != nil {
		t.Fatalf("AddBlockedRange at limit: %v", err)
	}
	if blocked.Len() != MaxBlockedRangeDays {
		t.Fatalf("blocked = %d days, want %d", blocked.Len(), MaxBlockedRangeDays)
	}
}

func TestStoreFailureLeavesSnapshotUntouched(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "settings.json"))
	seed := testDefaults.snapshot()
	seed.NightlyPrice = pricing.Reais(777)
	seed.Blocked = calendar.NewBlockedSet(calendar.MustParseDate("2025-05-01"))
	if err := cache.Write(seed); err != nil {
		t.Fatalf("cache.Write: %v", err)
	}

	svc := NewService(unavailableStore{}, cache, testDefaults)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	snap := svc.Snapshot()
	if snap.NightlyPrice != pricing.Reais(777) || !snap.IsBlocked(calendar.MustParseDate("2025-05-01")) {
		t.Fatalf("expected cached snapshot, got %+v", snap)
	}

	if err := svc.SetNightlyPrice(context.Background(), pricing.Reais(1)); !errors.Is(err, errUnavailable) {
		t.Fatalf("SetNightlyPrice = %v, want errUnavailable", err)
	}
	if got := svc.Snapshot().NightlyPrice; got != pricing.Reais(777) {
		t.Fatalf("failed write changed snapshot to %s", got)
	}
}

func TestRuleLifecycleAndDuplicates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	month, err := svc.CreateRule(ctx, pricing.MonthRule(2025, time.January, pricing.Reais(1500)))
	if err != nil {
		t.Fatalf("CreateRule month: %v", err)
	}
	if _, err := svc.CreateRule(ctx, pricing.DayRule(calendar.MustParseDate("2025-01-11"), pricing.Reais(500))); err != nil {
		t.Fatalf("CreateRule day: %v", err)
	}
	if _, err := svc.CreateRule(ctx, pricing.MonthRule(2025, time.January, pricing.Reais(1))); !errors.Is(err, store.ErrDuplicateRule) {
		t.Fatalf("duplicate CreateRule = %v, want ErrDuplicateRule", err)
	}

	q := svc.Snapshot().Quote(calendar.MustParseDate("2025-01-10"), calendar.MustParseDate("2025-01-12"))
	if q.Subtotal != pricing.Reais(3500) || q.Total != pricing.Reais(3700) {
		t.Fatalf("quote = %s/%s, want 3500/3700", q.Subtotal, q.Total)
	}

	month.Price = pricing.Reais(2000)
	if _, err := svc.UpdateRule(ctx, month); err != nil {
		t.Fatalf("UpdateRule same slot: %v", err)
	}
	if got := svc.Snapshot().PriceOn(calendar.MustParseDate("2025-01-20")); got != pricing.Reais(2000) {
		t.Fatalf("PriceOn after update = %s", got)
	}

	if err := svc.DeleteRule(ctx, month.ID); err != nil {
		t.Fatalf("DeleteRule: %v", err)
	}
	if got := svc.Snapshot().PriceOn(calendar.MustParseDate("2025-01-20")); got != pricing.Reais(1000) {
		t.Fatalf("PriceOn after delete = %s", got)
	}
	if err := svc.DeleteRule(ctx, month.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second DeleteRule = %v, want ErrNotFound", err)
	}
}

func TestHeroAndGallery(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	hero, err := svc.SetHeroText(ctx, "Casa na praia", "  ")
	if err != nil {
		t.Fatalf("SetHeroText: %v", err)
	}
	if hero.Title != "Casa na praia" || hero.Subtitle != DefaultHeroSubtitle {
		t.Fatalf("hero = %+v", hero)
	}
	if _, err := svc.SetHeroImage(ctx, "https://cdn/hero.jpg"); err != nil {
		t.Fatalf("SetHeroImage: %v", err)
	}

	added, err := svc.AddGalleryItems(ctx, []store.GalleryItem{
		{ImageURL: "https://cdn/a.jpg", Title: "Sala"},
		{ImageURL: "https://cdn/b.jpg", Title: "Varanda", Description: "Vista para o mar"},
	})
	if err != nil {
		t.Fatalf("AddGalleryItems: %v", err)
	}
	if added[0].Description != DefaultHeroSubtitle {
		t.Fatalf("empty description should inherit hero subtitle, got %q", added[0].Description)
	}
	if added[1].Description != "Vista para o mar" {
		t.Fatalf("description = %q", added[1].Description)
	}

	removed, err := svc.RemoveGalleryItem(ctx, added[0].ID)
	if err != nil {
		t.Fatalf("RemoveGalleryItem: %v", err)
	}
	if removed.ImageURL != "https://cdn/a.jpg" {
		t.Fatalf("removed = %+v", removed)
	}

	snap := svc.Snapshot()
	if len(snap.Gallery) != 1 || snap.Hero.ImageURL != "https://cdn/hero.jpg" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.CreateRule(ctx, pricing.MonthRule(2025, time.June, pricing.Reais(10))); err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	snap := svc.Snapshot()
	snap.Rules[0].Price = 0
	if svc.Snapshot().Rules[0].Price != pricing.Reais(10) {
		t.Fatal("mutating a snapshot leaked into the service")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCache(filepath.Join(t.TempDir(), "nested", "settings.json"))
	if _, ok, err := cache.Read(); ok || err != nil {
		t.Fatalf("Read on missing file = %v, %v", ok, err)
	}

	snap := testDefaults.snapshot()
	snap.Rules = []pricing.Rule{
		pricing.DayRule(calendar.MustParseDate("2025-01-11"), pricing.Reais(500)),
		pricing.WeekRule(2025, time.January, 2, pricing.Reais(700)),
	}
	snap.Gallery = []store.GalleryItem{{ID: "g1", ImageURL: "https://cdn/a.jpg", Title: "A"}}
	if err := cache.Write(snap); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok, err := cache.Read()
	if err != nil || !ok {
		t.Fatalf("Read = %v, %v", ok, err)
	}
	if len(got.Rules) != 2 || !got.Rules[0].Date.Equal(calendar.MustParseDate("2025-01-11")) || got.Rules[1].Week != 2 {
		t.Fatalf("rules = %+v", got.Rules)
	}
	if len(got.Gallery) != 1 || got.Gallery[0].ID != "g1" {
		t.Fatalf("gallery = %+v", got.Gallery)
	}
	if got.PriceOn(calendar.MustParseDate("2025-01-09")) != pricing.Reais(700) {
		t.Fatal("cached week rule did not resolve")
	}
}
