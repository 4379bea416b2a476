package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	SettingsRefreshJobName = "settings_refresh"
	DefaultRefreshCron     = "*/5 * * * *"
	settingsRefreshTimeout = 30 * time.Second
)

// Refresher reloads state from the record store.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RegisterSettingsRefreshJob keeps the settings snapshot in step with edits
// made outside this process.
func RegisterSettingsRefreshJob(s *Service, refresher Refresher, cronExpr string) (gocron.Job, error) {
	if refresher == nil {
		return nil, fmt.Errorf("settings refresh job requires a refresher")
	}
	if cronExpr == "" {
		cronExpr = DefaultRefreshCron
	}
	return s.AddJob(SettingsRefreshJobName, cronExpr, settingsRefreshTimeout, refresher.Refresh)
}
