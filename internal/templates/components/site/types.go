package site

type Feature struct {
	Title       string
	Description string
}

type GalleryCard struct {
	ImageURL    string
	Title       string
	Description string
}

type DayCell struct {
	Date     string
	Day      int
	InMonth  bool
	Blocked  bool
	Past     bool
	Selected bool
	InRange  bool
	Price    string
	// Vals is the JSON sent with a pick of this day.
	Vals string
}

type BreakdownLine struct {
	Date  string
	Price string
}

type SummaryData struct {
	Month        string
	Start        string
	End          string
	CheckIn      string
	CheckOut     string
	Ready        bool
	Nights       int
	NightlyPrice string
	Subtotal     string
	CleaningFee  string
	Total        string
	Breakdown    []BreakdownLine
}

type CalendarData struct {
	Month      string
	MonthLabel string
	PrevURL    string
	NextURL    string
	Weekdays   []string
	Weeks      [][]DayCell
	Summary    SummaryData
}

type HomeData struct {
	SiteName     string
	HeroTitle    string
	HeroSubtitle string
	HeroImageURL string
	NightlyPrice string
	OwnerEmail   string
	Features     []Feature
	Gallery      []GalleryCard
	Calendar     CalendarData
}

// InquiryResultData is the outcome banner after a submission. Kind is
// "notice", "warning" or "error".
type InquiryResultData struct {
	Kind    string
	Title   string
	Message string
}
