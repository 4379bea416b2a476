package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalYAML = `
app:
  name: Casa da Barra
  port: 8080
database:
  driver: sqlite
  filename: data/stay.db
email:
  provider: none
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Site.Name != "Casa da Barra" {
		t.Fatalf("Site.Name = %q, want app name", cfg.Site.Name)
	}
	if cfg.Site.DefaultNightly != 1000 || cfg.Site.DefaultCleaningFee != 200 {
		t.Fatalf("defaults = %v/%v", cfg.Site.DefaultNightly, cfg.Site.DefaultCleaningFee)
	}
	if cfg.Scheduler.RefreshCron != "*/5 * * * *" {
		t.Fatalf("RefreshCron = %q", cfg.Scheduler.RefreshCron)
	}
	if cfg.RateLimit.NotificationsPerWindow != 20 {
		t.Fatalf("NotificationsPerWindow = %d", cfg.RateLimit.NotificationsPerWindow)
	}
	if cfg.Email.Timeout != 10*time.Second {
		t.Fatalf("Email.Timeout = %v", cfg.Email.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "missing_port", mutate: func(c *Config) { c.App.Port = 0 }, wantErr: "port"},
		{name: "bad_driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "database driver"},
		{name: "bad_cron", mutate: func(c *Config) { c.Scheduler.RefreshCron = "every minute" }, wantErr: "refresh_cron"},
		{name: "bad_timezone", mutate: func(c *Config) { c.App.Timezone = "Mars/Olympus" }, wantErr: "timezone"},
		{name: "bad_owner_email", mutate: func(c *Config) { c.Site.OwnerEmail = "not-an-email" }, wantErr: "owner_email"},
		{
			name:    "production_short_secret",
			mutate:  func(c *Config) { c.App.Environment = "production"; c.App.SecretKey = "short" },
			wantErr: "APP_SECRET_KEY",
		},
		{
			name:    "cognito_incomplete",
			mutate:  func(c *Config) { c.Auth.Provider = "cognito"; c.Auth.Cognito.Region = "us-east-1" },
			wantErr: "cognito",
		},
		{name: "clerk_without_secret", mutate: func(c *Config) { c.Auth.Provider = "clerk" }, wantErr: "CLERK_SECRET_KEY"},
		{
			name:    "http_without_token",
			mutate:  func(c *Config) { c.Email.Provider = "http"; c.Email.NotifyURL = "https://notify.example.com" },
			wantErr: "NOTIFY_API_TOKEN",
		},
		{name: "negative_notification_limit", mutate: func(c *Config) { c.RateLimit.NotificationsPerWindow = -1 }, wantErr: "ratelimit"},
		{name: "ses_without_sender", mutate: func(c *Config) { c.Email.Provider = "ses" }, wantErr: "sender"},
		{name: "minio_without_endpoint", mutate: func(c *Config) { c.Storage.Driver = "minio" }, wantErr: "endpoint"},
		{name: "unknown_storage", mutate: func(c *Config) { c.Storage.Driver = "ftp" }, wantErr: "storage driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(minimalYAML))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadReadsEnvFileNextToConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(minimalYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_SECRET_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("APP_SECRET_KEY", "")
	os.Unsetenv("APP_SECRET_KEY")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.SecretKey != "from-dotenv" {
		t.Fatalf("SecretKey = %q, want from-dotenv", cfg.App.SecretKey)
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{}
	cfg.App.Timezone = "nowhere"
	if cfg.Location() != time.UTC {
		t.Fatalf("Location() = %v, want UTC", cfg.Location())
	}
}
