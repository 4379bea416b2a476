package admin

type LoginData struct {
	Error           string
	Email           string
	PasswordEnabled bool
	ClerkSignInURL  string
}

type BlockedRange struct {
	Start string
	End   string
	Label string
}

type RuleRow struct {
	ID     string
	Scope  string
	Label  string
	Price  string
	Date   string
	Year   int
	Month  int
	Week   int
	Amount string
}

type HeroData struct {
	Title    string
	Subtitle string
	ImageURL string
}

type GalleryRow struct {
	ID          string
	ImageURL    string
	Title       string
	Description string
}

type InquiryRow struct {
	Name      string
	Email     string
	Phone     string
	Period    string
	Notes     string
	CreatedAt string
}

type DashboardData struct {
	UserEmail      string
	Notice         string
	Error          string
	NightlyPrice   string
	CleaningFee    string
	NightlyLabel   string
	CleaningLabel  string
	Blocked        []BlockedRange
	Rules          []RuleRow
	Hero           HeroData
	Gallery        []GalleryRow
	Inquiries      []InquiryRow
	MaxUploads     int
	CurrentYear    int
	StorageEnabled bool
}
