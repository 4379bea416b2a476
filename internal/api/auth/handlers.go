package auth

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/apiutil"
	"github.com/casaluxe/stay/internal/api/authz"
	"github.com/casaluxe/stay/internal/config"
	"github.com/casaluxe/stay/internal/templates/components/admin"
	"github.com/casaluxe/stay/internal/templates/layouts"
)

var (
	appConfig     *config.Config
	loginProvider Provider
	handlersOnce  sync.Once
)

// InitHandlers wires the auth handlers. provider is nil when only Clerk
// sign-in is available.
func InitHandlers(cfg *config.Config, provider Provider) {
	handlersOnce.Do(func() {
		appConfig = cfg
		loginProvider = provider
	})
}

func siteName() string {
	if appConfig == nil {
		return ""
	}
	return appConfig.Site.Name
}

func renderLogin(w http.ResponseWriter, r *http.Request, status int, data admin.LoginData) {
	data.PasswordEnabled = loginProvider != nil
	if appConfig != nil && appConfig.Auth.Provider == "clerk" {
		data.ClerkSignInURL = appConfig.Auth.Clerk.SignInURL
	}
	page := layouts.PageData{Title: "Entrar", SiteName: siteName()}
	apiutil.RenderHTMLComponentStatus(r.Context(), w, status, layouts.Base(page, admin.LoginPage(data)), nil,
		"Failed to render login page", "Failed to render page")
}

// HandleLoginPage handles GET /admin/login.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if user, err := UserFromRequest(r); err == nil && authz.IsAdmin(user) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	renderLogin(w, r, http.StatusOK, admin.LoginData{Error: r.URL.Query().Get("error")})
}

// HandleLogin handles POST /admin/login.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		renderLogin(w, r, http.StatusBadRequest, admin.LoginData{Error: MsgMissingCredentials})
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		renderLogin(w, r, http.StatusBadRequest, admin.LoginData{Error: MsgMissingCredentials, Email: email})
		return
	}
	if loginProvider == nil {
		renderLogin(w, r, http.StatusBadRequest, admin.LoginData{Error: MsgLoginUnavailable, Email: email})
		return
	}

	user, err := loginProvider.SignIn(r.Context(), email, password)
	if errors.Is(err, ErrInvalidCredentials) {
		logger.Info().Str("provider", loginProvider.Name()).Msg("Rejected admin login")
		renderLogin(w, r, http.StatusUnauthorized, admin.LoginData{Error: MsgInvalidCredentials, Email: email})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("provider", loginProvider.Name()).Msg("Admin login failed")
		renderLogin(w, r, http.StatusInternalServerError, admin.LoginData{Error: MsgLoginUnavailable, Email: email})
		return
	}
	if !authz.IsAdmin(user) {
		logger.Warn().Str("user_id", user.ID).Msg("Login without admin role")
		renderLogin(w, r, http.StatusForbidden, admin.LoginData{Error: MsgNotAdmin, Email: email})
		return
	}

	if err := SetAuthCookie(w, user); err != nil {
		logger.Error().Err(err).Msg("Failed to set auth cookie")
		renderLogin(w, r, http.StatusInternalServerError, admin.LoginData{Error: MsgLoginUnavailable, Email: email})
		return
	}
	logger.Info().Str("user_id", user.ID).Str("provider", user.Provider).Msg("Admin signed in")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleLogout handles POST /admin/logout.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
