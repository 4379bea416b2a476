// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type SiteConfig struct {
	Name               string  `yaml:"name"`
	OwnerEmail         string  `yaml:"owner_email"`
	DefaultNightly     float64 `yaml:"default_nightly_price"`
	DefaultCleaningFee float64 `yaml:"default_cleaning_fee"`
	PhoneRegion        string  `yaml:"phone_region"`
	CacheFile          string  `yaml:"cache_file"`
}

type CognitoConfig struct {
	Region       string `yaml:"region"`
	UserPoolID   string `yaml:"user_pool_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"-"` // Loaded from environment
}

type ClerkConfig struct {
	SignInURL string `yaml:"sign_in_url"`
	SecretKey string `yaml:"-"` // Loaded from environment
}

type AuthConfig struct {
	Provider string        `yaml:"provider"`
	Cognito  CognitoConfig `yaml:"cognito"`
	Clerk    ClerkConfig   `yaml:"clerk"`
}

type EmailConfig struct {
	Provider        string        `yaml:"provider"`
	Region          string        `yaml:"region"`
	Sender          string        `yaml:"sender"`
	Timeout         time.Duration `yaml:"timeout"`
	NotifyURL       string        `yaml:"notify_url"`
	NotifyToken     string        `yaml:"-"` // Loaded from environment
	AccessKeyID     string        `yaml:"-"` // Loaded from environment
	SecretAccessKey string        `yaml:"-"` // Loaded from environment
}

type StorageConfig struct {
	Driver          string `yaml:"driver"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	UseSSL          bool   `yaml:"use_ssl"`
	HeroBucket      string `yaml:"hero_bucket"`
	GalleryBucket   string `yaml:"gallery_bucket"`
	PublicBaseURL   string `yaml:"public_base_url"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

type RateLimitConfig struct {
	InquiriesPerWindow     int           `yaml:"inquiries_per_window"`
	NotificationsPerWindow int           `yaml:"notifications_per_window"`
	Window                 time.Duration `yaml:"window"`
	TrustProxy             bool          `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		Timezone    string `yaml:"timezone"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Site      SiteConfig      `yaml:"site"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`

	Scheduler struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"scheduler"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.loadSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes yaml and fills defaults. Secrets and validation are left to
// the caller.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) loadSecrets() {
	c.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	c.Auth.Cognito.ClientSecret = os.Getenv("COGNITO_CLIENT_SECRET")
	c.Auth.Clerk.SecretKey = os.Getenv("CLERK_SECRET_KEY")
	c.Email.NotifyToken = os.Getenv("NOTIFY_API_TOKEN")
	c.Email.AccessKeyID = os.Getenv("AWS_SES_ACCESS_KEY_ID")
	c.Email.SecretAccessKey = os.Getenv("AWS_SES_SECRET_ACCESS_KEY")
	c.Storage.AccessKeyID = os.Getenv("STORAGE_ACCESS_KEY_ID")
	c.Storage.SecretAccessKey = os.Getenv("STORAGE_SECRET_ACCESS_KEY")
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.Timezone == "" {
		c.App.Timezone = "America/Sao_Paulo"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Site.Name == "" {
		c.Site.Name = c.App.Name
	}
	if c.Site.DefaultNightly == 0 {
		c.Site.DefaultNightly = 1000
	}
	if c.Site.DefaultCleaningFee == 0 {
		c.Site.DefaultCleaningFee = 200
	}
	if c.Site.PhoneRegion == "" {
		c.Site.PhoneRegion = "BR"
	}
	if c.Auth.Provider == "" {
		c.Auth.Provider = "local"
	}
	if c.Email.Provider == "" {
		c.Email.Provider = "ses"
	}
	if c.Email.Timeout == 0 {
		c.Email.Timeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "none"
	}
	if c.Storage.HeroBucket == "" {
		c.Storage.HeroBucket = "hero-images"
	}
	if c.Storage.GalleryBucket == "" {
		c.Storage.GalleryBucket = "gallery-images"
	}
	if c.RateLimit.InquiriesPerWindow == 0 {
		c.RateLimit.InquiriesPerWindow = 5
	}
	if c.RateLimit.NotificationsPerWindow == 0 {
		c.RateLimit.NotificationsPerWindow = 20
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Hour
	}
	if c.Scheduler.RefreshCron == "" {
		c.Scheduler.RefreshCron = "*/5 * * * *"
	}
}

// Location returns the property's time zone, used to decide what "today" is.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.IsProduction() && len(c.App.SecretKey) < 32 {
		return fmt.Errorf("APP_SECRET_KEY must be at least 32 characters in production")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app timezone %q: %w", c.App.Timezone, err)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Site.DefaultNightly < 0 || c.Site.DefaultCleaningFee < 0 {
		return fmt.Errorf("site default amounts must not be negative")
	}
	if c.Site.OwnerEmail != "" {
		if _, err := mail.ParseAddress(c.Site.OwnerEmail); err != nil {
			return fmt.Errorf("invalid site owner_email: %w", err)
		}
	}

	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}

	if _, err := cron.ParseStandard(c.Scheduler.RefreshCron); err != nil {
		return fmt.Errorf("invalid scheduler refresh_cron %q: %w", c.Scheduler.RefreshCron, err)
	}
	if c.RateLimit.InquiriesPerWindow < 0 || c.RateLimit.NotificationsPerWindow < 0 || c.RateLimit.Window < 0 {
		return fmt.Errorf("ratelimit values must not be negative")
	}
	return nil
}

func (c *Config) validateAuth() error {
	switch c.Auth.Provider {
	case "local":
	case "cognito":
		cg := c.Auth.Cognito
		if cg.Region == "" || cg.UserPoolID == "" || cg.ClientID == "" {
			return fmt.Errorf("cognito region, user_pool_id and client_id are required")
		}
	case "clerk":
		if c.Auth.Clerk.SecretKey == "" {
			return fmt.Errorf("CLERK_SECRET_KEY is required for the clerk auth provider")
		}
		if c.Auth.Clerk.SignInURL == "" {
			return fmt.Errorf("clerk sign_in_url is required")
		}
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}
	return nil
}

func (c *Config) validateEmail() error {
	switch c.Email.Provider {
	case "ses":
		if c.Email.Sender == "" {
			return fmt.Errorf("email sender is required for ses")
		}
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required for ses")
		}
	case "http":
		if c.Email.NotifyURL == "" {
			return fmt.Errorf("email notify_url is required for the http provider")
		}
		if c.Email.NotifyToken == "" {
			return fmt.Errorf("NOTIFY_API_TOKEN is required for the http provider")
		}
	case "none":
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case "s3":
		if c.Storage.Region == "" {
			return fmt.Errorf("storage region is required for s3")
		}
	case "minio":
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("storage endpoint is required for minio")
		}
		if c.Storage.AccessKeyID == "" || c.Storage.SecretAccessKey == "" {
			return errors.New("STORAGE_ACCESS_KEY_ID and STORAGE_SECRET_ACCESS_KEY are required for minio")
		}
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.HeroBucket) == "" || strings.TrimSpace(c.Storage.GalleryBucket) == "" {
		return fmt.Errorf("storage buckets are required")
	}
	return nil
}
