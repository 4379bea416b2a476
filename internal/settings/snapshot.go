// Package settings keeps the site-wide settings snapshot (amounts, blocked
// days, pricing rules, hero and gallery content) in sync with the record
// store and a local cache file.
package settings

import (
	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/store"
)

const (
	DefaultHeroTitle    = "Seu Refúgio à Beira-Mar"
	DefaultHeroSubtitle = "Desperte com o som das ondas e relaxe em Itapoá"
)

// Defaults are used for whatever the store and cache do not hold yet.
type Defaults struct {
	NightlyPrice pricing.Amount
	CleaningFee  pricing.Amount
}

func (d Defaults) snapshot() Snapshot {
	return Snapshot{
		NightlyPrice: d.NightlyPrice,
		CleaningFee:  d.CleaningFee,
		Blocked:      calendar.NewBlockedSet(),
		Hero: store.HeroSettings{
			Title:    DefaultHeroTitle,
			Subtitle: DefaultHeroSubtitle,
		},
	}
}

// Snapshot is a point-in-time copy of the settings. Values handed out by
// Service.Snapshot share nothing with the service.
type Snapshot struct {
	NightlyPrice pricing.Amount
	CleaningFee  pricing.Amount
	Blocked      calendar.BlockedSet
	Rules        []pricing.Rule
	Hero         store.HeroSettings
	Gallery      []store.GalleryItem
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Rules = append([]pricing.Rule(nil), s.Rules...)
	out.Gallery = append([]store.GalleryItem(nil), s.Gallery...)
	return out
}

// PriceOn resolves the nightly price for d.
func (s Snapshot) PriceOn(d calendar.Date) pricing.Amount {
	return pricing.Resolve(d, s.Rules, s.NightlyPrice)
}

func (s Snapshot) IsBlocked(d calendar.Date) bool {
	return s.Blocked.Contains(d)
}

// Quote prices a stay with the snapshot's rules and fees.
func (s Snapshot) Quote(checkIn, checkOut calendar.Date) pricing.Quote {
	return pricing.NewQuote(checkIn, checkOut, s.Rules, s.NightlyPrice, s.CleaningFee)
}

// Rule looks up a pricing rule by ID.
func (s Snapshot) Rule(id string) (pricing.Rule, bool) {
	for _, r := range s.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return pricing.Rule{}, false
}

// GalleryItem looks up a gallery item by ID.
func (s Snapshot) GalleryItem(id string) (store.GalleryItem, bool) {
	for _, item := range s.Gallery {
		if item.ID == id {
			return item, true
		}
	}
	return store.GalleryItem{}, false
}

func (s Snapshot) siteSettings() store.SiteSettings {
	return store.SiteSettings{
		NightlyPrice: s.NightlyPrice,
		CleaningFee:  s.CleaningFee,
		Blocked:      s.Blocked.Strings(),
	}
}
