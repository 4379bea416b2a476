// internal/api/admin/handlers.go
package admin

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/api/authz"
	"github.com/casaluxe/stay/internal/calendar"
	"github.com/casaluxe/stay/internal/config"
	"github.com/casaluxe/stay/internal/objectstore"
	"github.com/casaluxe/stay/internal/settings"
	"github.com/casaluxe/stay/internal/store"
	admintempl "github.com/casaluxe/stay/internal/templates/components/admin"
	"github.com/casaluxe/stay/internal/templates/layouts"
)

const recentInquiriesLimit = 50

// Deps are the services behind the admin panel. Nil image stores disable
// uploads.
type Deps struct {
	Config        *config.Config
	Settings      *settings.Service
	Store         store.Store
	HeroImages    objectstore.Store
	GalleryImages objectstore.Store
	Now           func() time.Time
}

var (
	deps     Deps
	depsOnce sync.Once
)

func InitHandlers(d Deps) {
	depsOnce.Do(func() {
		if d.HeroImages == nil {
			d.HeroImages = objectstore.Noop{}
		}
		if d.GalleryImages == nil {
			d.GalleryImages = objectstore.Noop{}
		}
		if d.Now == nil {
			d.Now = time.Now
		}
		deps = d
	})
}

func ready(w http.ResponseWriter, r *http.Request) bool {
	if deps.Settings == nil || deps.Store == nil || deps.Config == nil {
		log.Ctx(r.Context()).Error().Msg("Admin handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return false
	}
	return true
}

func storageEnabled() bool {
	_, noop := deps.GalleryImages.(objectstore.Noop)
	return !noop
}

func redirectNotice(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}

func redirectError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/admin?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

// failed logs err and sends the admin back with msg.
func failed(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var ferr apiutil.FieldError
	if errors.As(err, &ferr) || errors.Is(err, settings.ErrInvalidAmount) || errors.Is(err, settings.ErrRangeTooLong) {
		log.Ctx(r.Context()).Debug().Err(err).Msg(msg)
	} else {
		log.Ctx(r.Context()).Error().Err(err).Msg(msg)
	}
	redirectError(w, r, msg)
}

// HandleDashboard handles GET /admin.
func HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	logger := log.Ctx(r.Context())

	inquiries, err := deps.Store.ListRecentInquiries(r.Context(), recentInquiriesLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list inquiries")
		inquiries = nil
	}

	data := buildDashboard(deps.Settings.Snapshot(), inquiries, deps.Now(), deps.Config.Location())
	data.Notice = r.URL.Query().Get("notice")
	data.Error = r.URL.Query().Get("error")
	if err != nil && data.Error == "" {
		data.Error = "Não foi possível carregar as solicitações."
	}
	if user := authz.UserFromContext(r.Context()); user != nil {
		data.UserEmail = user.Email
	}
	data.StorageEnabled = storageEnabled()

	page := layouts.PageData{Title: "Painel", SiteName: deps.Config.Site.Name, Admin: true}
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.Base(page, admintempl.Dashboard(data)), nil,
		"Failed to render dashboard", "Failed to render page")
}

// HandleSetNightlyPrice handles POST /admin/price.
func HandleSetNightlyPrice(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	amount, err := apiutil.ParseAmountField(r.FormValue("amount"), "amount")
	if err != nil {
		failed(w, r, err, "Informe um valor válido para a diária.")
		return
	}
	if err := deps.Settings.SetNightlyPrice(r.Context(), amount); err != nil {
		failed(w, r, err, "Erro ao salvar a diária.")
		return
	}
	log.Ctx(r.Context()).Info().Str("amount", amount.Decimal()).Msg("Nightly price updated")
	redirectNotice(w, r, "Diária padrão atualizada.")
}

// HandleSetCleaningFee handles POST /admin/cleaning-fee.
func HandleSetCleaningFee(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	amount, err := apiutil.ParseAmountField(r.FormValue("amount"), "amount")
	if err != nil {
		failed(w, r, err, "Informe um valor válido para a taxa de limpeza.")
		return
	}
	if err := deps.Settings.SetCleaningFee(r.Context(), amount); err != nil {
		failed(w, r, err, "Erro ao salvar a taxa de limpeza.")
		return
	}
	log.Ctx(r.Context()).Info().Str("amount", amount.Decimal()).Msg("Cleaning fee updated")
	redirectNotice(w, r, "Taxa de limpeza atualizada.")
}

// blockedRangeFromForm reads start and end; a blank end means a single day.
func blockedRangeFromForm(r *http.Request) (start, end calendar.Date, err error) {
	start, err = apiutil.ParseDateField(r.FormValue("start"), "start")
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	end, err = apiutil.ParseOptionalDate(r.FormValue("end"), "end")
	if err != nil {
		return calendar.Date{}, calendar.Date{}, err
	}
	if end.IsZero() {
		end = start
	}
	if settings.BlockedRangeDays(start, end) > settings.MaxBlockedRangeDays {
		return calendar.Date{}, calendar.Date{}, errBlockedSpan
	}
	return start, end, nil
}

var errBlockedSpan = apiutil.FieldError{
	Field:  "end",
	Reason: fmt.Sprintf("must be at most %d days from start", settings.MaxBlockedRangeDays),
}

func blockedFormMessage(err error) string {
	if errors.Is(err, errBlockedSpan) {
		return "O intervalo pode ter no máximo 3 anos."
	}
	return "Informe as datas de início e fim."
}

// HandleAddBlocked handles POST /admin/blocked/add.
func HandleAddBlocked(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	start, end, err := blockedRangeFromForm(r)
	if err != nil {
		failed(w, r, err, blockedFormMessage(err))
		return
	}
	blocked, err := deps.Settings.AddBlockedRange(r.Context(), start, end)
	if err != nil {
		failed(w, r, err, "Erro ao salvar as datas ocupadas.")
		return
	}
	log.Ctx(r.Context()).Info().Int("blocked", blocked.Len()).Msg("Blocked range added")
	redirectNotice(w, r, "Datas marcadas como ocupadas.")
}

// HandleRemoveBlocked handles POST /admin/blocked/remove.
func HandleRemoveBlocked(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	start, end, err := blockedRangeFromForm(r)
	if err != nil {
		failed(w, r, err, blockedFormMessage(err))
		return
	}
	blocked, err := deps.Settings.RemoveBlockedRange(r.Context(), start, end)
	if err != nil {
		failed(w, r, err, "Erro ao liberar as datas.")
		return
	}
	log.Ctx(r.Context()).Info().Int("blocked", blocked.Len()).Msg("Blocked range removed")
	redirectNotice(w, r, "Datas liberadas.")
}

// HandleSetHeroText handles POST /admin/hero.
func HandleSetHeroText(w http.ResponseWriter, r *http.Request) {
	if !ready(w, r) {
		return
	}
	if _, err := deps.Settings.SetHeroText(r.Context(), r.FormValue("title"), r.FormValue("subtitle")); err != nil {
		failed(w, r, err, "Erro ao salvar o destaque.")
		return
	}
	redirectNotice(w, r, "Texto do destaque atualizado.")
}
