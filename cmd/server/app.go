// cmd/server/app.go
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/admin"
	"github.com/casaluxe/stay/internal/api/auth"
	"github.com/casaluxe/stay/internal/api/notifications"
	"github.com/casaluxe/stay/internal/api/site"
	"github.com/casaluxe/stay/internal/cognito"
	"github.com/casaluxe/stay/internal/config"
	"github.com/casaluxe/stay/internal/db"
	"github.com/casaluxe/stay/internal/email"
	"github.com/casaluxe/stay/internal/inquiry"
	"github.com/casaluxe/stay/internal/objectstore"
	"github.com/casaluxe/stay/internal/pricing"
	"github.com/casaluxe/stay/internal/ratelimit"
	"github.com/casaluxe/stay/internal/scheduler"
	"github.com/casaluxe/stay/internal/settings"
	"github.com/casaluxe/stay/internal/store"
)

// app owns the long-lived resources the handlers share.
type app struct {
	database      *db.DB
	limiter       *ratelimit.Limiter
	notifyLimiter *ratelimit.Limiter
}

func (a *app) Close() {
	for _, l := range []*ratelimit.Limiter{a.limiter, a.notifyLimiter} {
		if l != nil {
			l.Close()
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
}

// newApp opens the store, loads settings and initializes every handler
// package and the scheduler.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &app{database: database}
	st := store.NewSQLite(database)

	settingsSvc := settings.NewService(st, settings.NewCache(cfg.Site.CacheFile), settings.Defaults{
		NightlyPrice: pricing.FromFloat(cfg.Site.DefaultNightly),
		CleaningFee:  pricing.FromFloat(cfg.Site.DefaultCleaningFee),
	})
	if err := settingsSvc.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	sender, err := newEmailSender(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	notifier := email.NewNotifier(sender, cfg.Site.Name, cfg.Site.OwnerEmail, cfg.Email.Timeout)

	var inquiryNotifier email.InquiryNotifier = notifier
	if cfg.Email.Provider == "http" {
		inquiryNotifier = email.NewHTTPNotifier(cfg.Email.NotifyURL, cfg.Email.NotifyToken, cfg.Email.Timeout, nil)
	}

	limitCfg := ratelimit.DefaultConfig()
	limitCfg.MaxPerWindow = cfg.RateLimit.InquiriesPerWindow
	limitCfg.Window = cfg.RateLimit.Window
	a.limiter = ratelimit.New(limitCfg)
	a.notifyLimiter = ratelimit.New(&ratelimit.Config{
		MaxIPPerWindow: cfg.RateLimit.NotificationsPerWindow,
		Window:         cfg.RateLimit.Window,
	})

	inquiries := inquiry.NewService(st, inquiryNotifier, inquiry.Options{
		OwnerEmail:  cfg.Site.OwnerEmail,
		PhoneRegion: cfg.Site.PhoneRegion,
		Throttle:    a.limiter,
	})

	heroImages, galleryImages, err := newImageStores(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	provider, err := newAuthProvider(ctx, cfg, st)
	if err != nil {
		a.Close()
		return nil, err
	}

	site.InitHandlers(site.Deps{Config: cfg, Settings: settingsSvc, Inquiries: inquiries})
	admin.InitHandlers(admin.Deps{
		Config:        cfg,
		Settings:      settingsSvc,
		Store:         st,
		HeroImages:    heroImages,
		GalleryImages: galleryImages,
	})
	auth.InitHandlers(cfg, provider)
	notifications.InitHandlers(notifications.Deps{
		Notifier:      notifier,
		OwnerEmail:    cfg.Site.OwnerEmail,
		Token:         cfg.Email.NotifyToken,
		AllowedOrigin: cfg.App.BaseURL,
		Limiter:       a.notifyLimiter,
		TrustProxy:    cfg.RateLimit.TrustProxy,
	})

	if err := scheduler.Init(cfg.Location()); err != nil {
		a.Close()
		return nil, fmt.Errorf("init scheduler: %w", err)
	}
	svc, err := scheduler.ServiceInstance()
	if err != nil {
		a.Close()
		return nil, err
	}
	if _, err := scheduler.RegisterSettingsRefreshJob(svc, settingsSvc, cfg.Scheduler.RefreshCron); err != nil {
		a.Close()
		return nil, fmt.Errorf("register settings refresh job: %w", err)
	}

	return a, nil
}

func newEmailSender(ctx context.Context, cfg *config.Config) (email.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		client, err := email.NewSESClient(ctx, cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
		if err != nil {
			return nil, fmt.Errorf("init ses client: %w", err)
		}
		log.Info().Str("region", cfg.Email.Region).Msg("SES email delivery enabled")
		return client, nil
	default:
		log.Warn().Str("provider", cfg.Email.Provider).Msg("Direct email delivery disabled")
		return email.Disabled(), nil
	}
}

func newImageStores(ctx context.Context, cfg *config.Config) (objectstore.Store, objectstore.Store, error) {
	sc := cfg.Storage
	switch sc.Driver {
	case "s3":
		s3Hero, err := objectstore.NewS3(ctx, sc.Region, sc.HeroBucket, sc.AccessKeyID, sc.SecretAccessKey, sc.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init hero bucket: %w", err)
		}
		s3Gallery, err := objectstore.NewS3(ctx, sc.Region, sc.GalleryBucket, sc.AccessKeyID, sc.SecretAccessKey, sc.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init gallery bucket: %w", err)
		}
		return s3Hero, s3Gallery, nil
	case "minio":
		minioHero, err := objectstore.NewMinIO(sc.Endpoint, sc.UseSSL, sc.AccessKeyID, sc.SecretAccessKey, sc.HeroBucket, sc.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init hero bucket: %w", err)
		}
		minioGallery, err := objectstore.NewMinIO(sc.Endpoint, sc.UseSSL, sc.AccessKeyID, sc.SecretAccessKey, sc.GalleryBucket, sc.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("init gallery bucket: %w", err)
		}
		return minioHero, minioGallery, nil
	default:
		log.Warn().Msg("Image storage not configured; uploads disabled")
		return objectstore.Noop{}, objectstore.Noop{}, nil
	}
}

func newAuthProvider(ctx context.Context, cfg *config.Config, st *store.SQLite) (auth.Provider, error) {
	switch cfg.Auth.Provider {
	case "cognito":
		cg := cfg.Auth.Cognito
		client, err := cognito.NewClient(ctx, cg.Region, cg.UserPoolID, cg.ClientID, cg.ClientSecret)
		if err != nil {
			return nil, fmt.Errorf("init cognito client: %w", err)
		}
		return auth.NewCognitoProvider(client), nil
	case "clerk":
		auth.InitClerk(cfg.Auth.Clerk.SecretKey)
		return nil, nil
	default:
		return auth.NewLocalProvider(st), nil
	}
}
