package site

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/settings"
	sitetempl "github.com/casaluxe/stay/internal/templates/components/site"
)

const displayLayout = "02/01/2006"

var weekdays = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var features = []sitetempl.Feature{
	{Title: "WiFi de Alta Velocidade", Description: "Internet rápida e estável para trabalhar ou relaxar."},
	{Title: "Cozinha Integral", Description: "Cozinha completa com todos os utensílios."},
	{Title: "Na Quadra do Mar", Description: "A poucos passos da areia."},
	{Title: "Acesso à Praia", Description: "Caminhe até a praia em minutos."},
	{Title: "Estacionamento", Description: "Vaga privativa para o seu carro."},
	{Title: "Churrasqueira", Description: "Área gourmet com churrasqueira."},
}

func monthLabel(d calendar.Date) string {
	return fmt.Sprintf("%s de %d", monthNames[d.Month()-1], d.Year())
}

func displayDate(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayLayout)
}

// calendarURL builds the month navigation URL, keeping the selection.
func calendarURL(month calendar.Date, sel calendar.Selection) string {
	q := url.Values{"month": {apiutil.FormatMonth(month)}}
	for i, d := range sel.Dates() {
		if i == 0 {
			q.Set("start", d.String())
		} else {
			q.Set("end", d.String())
		}
	}
	return "/api/v1/calendar?" + q.Encode()
}

func pickVals(d, month calendar.Date, sel calendar.Selection) string {
	vals := map[string]string{
		"date":  d.String(),
		"month": apiutil.FormatMonth(month),
	}
	for i, picked := range sel.Dates() {
		if i == 0 {
			vals["start"] = picked.String()
		} else {
			vals["end"] = picked.String()
		}
	}
	raw, _ := json.Marshal(vals)
	return string(raw)
}

func buildSummary(snap settings.Snapshot, sel calendar.Selection) sitetempl.SummaryData {
	summary := sitetempl.SummaryData{NightlyPrice: snap.NightlyPrice.String()}
	if start, ok := sel.Start(); ok {
		summary.Start = start.String()
		summary.CheckIn = displayDate(start)
	}
	checkIn, checkOut, ok := sel.Range()
	if !ok {
		return summary
	}

	q := snap.Quote(checkIn, checkOut)
	summary.Ready = true
	summary.Start = checkIn.String()
	summary.End = checkOut.String()
	summary.CheckIn = displayDate(checkIn)
	summary.CheckOut = displayDate(checkOut)
	summary.Nights = q.Nights
	summary.Subtotal = q.Subtotal.String()
	summary.CleaningFee = q.CleaningFee.String()
	summary.Total = q.Total.String()
	for _, line := range q.Breakdown {
		summary.Breakdown = append(summary.Breakdown, sitetempl.BreakdownLine{
			Date:  displayDate(line.Date),
			Price: line.Price.String(),
		})
	}
	return summary
}

func inSelection(d calendar.Date, sel calendar.Selection) (selected, inRange bool) {
	for _, picked := range sel.Dates() {
		if picked.Equal(d) {
			return true, false
		}
	}
	if checkIn, checkOut, ok := sel.Range(); ok {
		return false, d.After(checkIn) && d.Before(checkOut)
	}
	return false, false
}

func buildCalendar(snap settings.Snapshot, month calendar.Date, sel calendar.Selection, today calendar.Date) sitetempl.CalendarData {
	month = month.FirstOfMonth()
	data := sitetempl.CalendarData{
		Month:      apiutil.FormatMonth(month),
		MonthLabel: monthLabel(month),
		PrevURL:    calendarURL(month.AddMonths(-1), sel),
		NextURL:    calendarURL(month.AddMonths(1), sel),
		Weekdays:   weekdays,
		Summary:    buildSummary(snap, sel),
	}
	data.Summary.Month = data.Month
	for _, week := range calendar.MonthGrid(month) {
		row := make([]sitetempl.DayCell, len(week))
		for i, d := range week {
			if d.IsZero() {
				continue
			}
			selected, inRange := inSelection(d, sel)
			row[i] = sitetempl.DayCell{
				Date:     d.String(),
				Day:      d.Day(),
				InMonth:  true,
				Blocked:  snap.IsBlocked(d),
				Past:     d.Before(today),
				Selected: selected,
				InRange:  inRange,
				Price:    snap.PriceOn(d).String(),
				Vals:     pickVals(d, month, sel),
			}
		}
		data.Weeks = append(data.Weeks, row)
	}
	return data
}

func buildHome(snap settings.Snapshot, siteName, ownerEmail string, cal sitetempl.CalendarData) sitetempl.HomeData {
	home := sitetempl.HomeData{
		SiteName:     siteName,
		HeroTitle:    snap.Hero.Title,
		HeroSubtitle: snap.Hero.Subtitle,
		HeroImageURL: snap.Hero.ImageURL,
		NightlyPrice: snap.NightlyPrice.String(),
		OwnerEmail:   ownerEmail,
		Features:     features,
		Calendar:     cal,
	}
	for _, item := range snap.Gallery {
		home.Gallery = append(home.Gallery, sitetempl.GalleryCard{
			ImageURL:    item.ImageURL,
			Title:       item.Title,
			Description: item.Description,
		})
	}
	return home
}

// dayJSON is one calendar cell in the JSON form of GET /api/v1/calendar.
type dayJSON struct {
	Date    calendar.Date `json:"date"`
	Price   string        `json:"price"`
	Blocked bool          `json:"blocked"`
	Past    bool          `json:"past"`
}

type calendarJSON struct {
	Month string    `json:"month"`
	Days  []dayJSON `json:"days"`
}

func buildCalendarJSON(snap settings.Snapshot, month, today calendar.Date) calendarJSON {
	month = month.FirstOfMonth()
	out := calendarJSON{Month: apiutil.FormatMonth(month)}
	for d := month; d.Month() == month.Month(); d = d.AddDays(1) {
		out.Days = append(out.Days, dayJSON{
			Date:    d,
			Price:   snap.PriceOn(d).Decimal(),
			Blocked: snap.IsBlocked(d),
			Past:    d.Before(today),
		})
	}
	return out
}
