// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/casaluxe/stay/internal/api"
	"github.com/casaluxe/stay/internal/api/admin"
	"github.com/casaluxe/stay/internal/api/auth"
	"github.com/casaluxe/stay/internal/api/notifications"
	"github.com/casaluxe/stay/internal/api/site"
	"github.com/casaluxe/stay/internal/config"
)

func newServer(cfg *config.Config) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		auth.WithClerkSession,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	// Register routes
	registerRoutes(router)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return api.WithAdminAuth(h)
}

func registerRoutes(mux *http.ServeMux) {
	// Public site
	mux.HandleFunc("GET /{$}", site.HandleHome)
	mux.HandleFunc("GET /health", site.HandleHealth)
	mux.HandleFunc("GET /api/v1/calendar", site.HandleCalendar)
	mux.HandleFunc("POST /api/v1/selection/pick", site.HandlePick)
	mux.HandleFunc("POST /api/v1/selection/reset", site.HandleResetSelection)
	mux.HandleFunc("GET /api/v1/quote", site.HandleQuote)
	mux.HandleFunc("POST /api/v1/inquiries", site.HandleSubmitInquiry)

	// Notification endpoint
	mux.HandleFunc("OPTIONS /api/v1/notifications/inquiry-email", notifications.HandleInquiryEmailPreflight)
	mux.HandleFunc("POST /api/v1/notifications/inquiry-email", notifications.HandleInquiryEmail)

	// Auth
	mux.HandleFunc("GET /admin/login", auth.HandleLoginPage)
	mux.HandleFunc("POST /admin/login", auth.HandleLogin)
	mux.HandleFunc("POST /admin/logout", auth.HandleLogout)
	mux.HandleFunc("GET /admin/clerk/callback", auth.HandleClerkCallback)

	// Admin panel
	mux.Handle("GET /admin", adminOnly(admin.HandleDashboard))
	mux.Handle("POST /admin/price", adminOnly(admin.HandleSetNightlyPrice))
	mux.Handle("POST /admin/cleaning-fee", adminOnly(admin.HandleSetCleaningFee))
	mux.Handle("POST /admin/blocked/add", adminOnly(admin.HandleAddBlocked))
	mux.Handle("POST /admin/blocked/remove", adminOnly(admin.HandleRemoveBlocked))
	mux.Handle("POST /admin/rules", adminOnly(admin.HandleCreateRule))
	mux.Handle("POST /admin/rules/{id}", adminOnly(admin.HandleUpdateRule))
	mux.Handle("POST /admin/rules/{id}/delete", adminOnly(admin.HandleDeleteRule))
	mux.Handle("POST /admin/hero", adminOnly(admin.HandleSetHeroText))
	mux.Handle("POST /admin/hero/image", adminOnly(admin.HandleUploadHeroImage))
	mux.Handle("POST /admin/hero/image/delete", adminOnly(admin.HandleDeleteHeroImage))
	mux.Handle("POST /admin/gallery", adminOnly(admin.HandleUploadGallery))
	mux.Handle("POST /admin/gallery/save", adminOnly(admin.HandleSaveGallery))
	mux.Handle("POST /admin/gallery/{id}/delete", adminOnly(admin.HandleDeleteGalleryItem))
}
