package retention

import (
	"context"
	"testing"
	"time"

	"elele/pkg/config"
	"elele/pkg/feed"
	"elele/pkg/models"
	"elele/pkg/storage"
)

func newStore(t *testing.T) *feed.Store {
	t.Helper()
	s := feed.NewStore(storage.NewMemory(), config.DefaultStorageKeys())
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestRunOncePrunesOldAds(t *testing.T) {
	store := newStore(t)
	store.SeedDemoIfEmpty()
	fresh := store.Create(models.Draft{
		FullName: "Ahmet Yılmaz",
		Phone:    "05321112233",
		Email:    "ahmet@esnaf.com",
		Message:  "Dükkanımda bir öğrenciye part-time iş var",
		Role:     models.RoleShopkeeper,
	})

	// demo fixtures are one to three hours old
	removed := RunOnce(store, 30*time.Minute)
	if removed != 3 {
		t.Fatalf("expected 3 pruned, got %d", removed)
	}
	if store.Len() != 1 || !store.Owns(fresh.ID) {
		t.Fatalf("fresh ad must survive: len=%d", store.Len())
	}

	if removed := RunOnce(store, 30*time.Minute); removed != 0 {
		t.Fatalf("second sweep should be a no-op, removed %d", removed)
	}
}

func TestStartDisabledIsNoOp(t *testing.T) {
	eff := config.EffectiveConfigResult{Config: &config.Config{}}
	cancel, err := Start(context.Background(), eff, newStore(t))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
}

func TestStartRejectsBadSettings(t *testing.T) {
	store := newStore(t)

	cfg := &config.Config{}
	cfg.Retention.Enabled = true
	cfg.Retention.MaxAge = "not-a-duration"
	if _, err := Start(context.Background(), config.EffectiveConfigResult{Config: cfg}, store); err == nil {
		t.Fatal("expected error for bad max_age")
	}

	cfg2 := &config.Config{}
	cfg2.Retention.Enabled = true
	cfg2.Retention.MaxAge = "24h"
	cfg2.Retention.Cron = "not a cron"
	if _, err := Start(context.Background(), config.EffectiveConfigResult{Config: cfg2}, store); err == nil {
		t.Fatal("expected error for bad cron")
	}
}

func TestStartSchedulesWithDefaults(t *testing.T) {
	store := newStore(t)
	cfg := &config.Config{}
	cfg.Retention.Enabled = true
	cfg.Retention.MaxAge = "720h"

	cancel, err := Start(context.Background(), config.EffectiveConfigResult{Config: cfg}, store)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
}
