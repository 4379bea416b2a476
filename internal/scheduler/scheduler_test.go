package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingRefresher struct {
	calls chan struct{}
}

func (c countingRefresher) Refresh(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh context has no deadline")
	}
	c.calls <- struct{}{}
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(time.UTC)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Stop()
	})
	return svc
}

func TestAddJobValidation(t *testing.T) {
	svc := newTestService(t)
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		job     string
		cron    string
		wantErr error
	}{
		{name: "empty_name", job: " ", cron: "* * * * *", wantErr: ErrEmptyJobName},
		{name: "empty_cron", job: "job", cron: "", wantErr: ErrEmptyCronExpr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddJob(tt.job, tt.cron, time.Second, noop); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := svc.AddJob("bad", "not a cron", time.Second, noop); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}

	var nilService *Service
	if _, err := nilService.AddJob("job", "* * * * *", time.Second, noop); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("nil service err = %v", err)
	}
}

func TestRegisterSettingsRefreshJob(t *testing.T) {
	svc := newTestService(t)
	refresher := countingRefresher{calls: make(chan struct{}, 1)}

	job, err := RegisterSettingsRefreshJob(svc, refresher, "")
	if err != nil {
		t.Fatalf("RegisterSettingsRefreshJob: %v", err)
	}
	if job.Name() != SettingsRefreshJobName || len(svc.Jobs()) != 1 {
		t.Fatalf("job = %s, jobs = %d", job.Name(), len(svc.Jobs()))
	}

	svc.Start()
	if err := job.RunNow(); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	select {
	case <-refresher.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh job did not run")
	}
}

func TestRegisterSettingsRefreshJobRequiresRefresher(t *testing.T) {
	svc := newTestService(t)
	if _, err := RegisterSettingsRefreshJob(svc, nil, ""); err == nil {
		t.Fatal("expected error without refresher")
	}
}
