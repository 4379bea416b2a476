package admin

import (
	"time"

	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/settings"
	"github.com/casaluxe/stay/internal/store"
	admintempl "github.com/casaluxe/stay/internal/templates/components/admin"
)

const displayLayout = "02/01/2006"

// blockedRanges folds the blocked days into runs of consecutive days.
func blockedRanges(blocked calendar.BlockedSet) []admintempl.BlockedRange {
	var out []admintempl.BlockedRange
	days := blocked.Sorted()
	for i := 0; i < len(days); {
		j := i
		for j+1 < len(days) && days[j+1].DaysSince(days[j]) == 1 {
			j++
		}
		start, end := days[i], days[j]
		label := start.Format(displayLayout)
		if !end.Equal(start) {
			label += " a " + end.Format(displayLayout)
		}
		out = append(out, admintempl.BlockedRange{Start: start.String(), End: end.String(), Label: label})
		i = j + 1
	}
	return out
}

func buildDashboard(snap settings.Snapshot, inquiries []store.Inquiry, now time.Time, loc *time.Location) admintempl.DashboardData {
	data := admintempl.DashboardData{
		NightlyPrice:  snap.NightlyPrice.Decimal(),
		CleaningFee:   snap.CleaningFee.Decimal(),
		NightlyLabel:  snap.NightlyPrice.String(),
		CleaningLabel: snap.CleaningFee.String(),
		Blocked:       blockedRanges(snap.Blocked),
		Hero: admintempl.HeroData{
			Title:    snap.Hero.Title,
			Subtitle: snap.Hero.Subtitle,
			ImageURL: snap.Hero.ImageURL,
		},
		MaxUploads:  MaxGalleryUploads,
		CurrentYear: now.Year(),
	}

	for _, rule := range snap.Rules {
		row := admintempl.RuleRow{
			ID:     rule.ID,
			Scope:  string(rule.Scope),
			Label:  rule.Label(),
			Price:  rule.Price.String(),
			Year:   rule.Year,
			Month:  int(rule.Month),
			Week:   rule.Week,
			Amount: rule.Price.Decimal(),
		}
		if !rule.Date.IsZero() {
			row.Date = rule.Date.String()
		}
		data.Rules = append(data.Rules, row)
	}

	for _, item := range snap.Gallery {
		data.Gallery = append(data.Gallery, admintempl.GalleryRow{
			ID:          item.ID,
			ImageURL:    item.ImageURL,
			Title:       item.Title,
			Description: item.Description,
		})
	}

	for _, in := range inquiries {
		data.Inquiries = append(data.Inquiries, admintempl.InquiryRow{
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Period:    in.CheckIn.Format(displayLayout) + " a " + in.CheckOut.Format(displayLayout),
			Notes:     in.Notes,
			CreatedAt: in.CreatedAt.In(loc).Format("02/01/2006 15:04"),
		})
	}
	return data
}
