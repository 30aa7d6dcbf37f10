package services

import (
	"errors"
	"testing"

	"trustmission-platform/models"

	"github.com/shopspring/decimal"
)

func TestSnapshotCarriesSeededDefaults(t *testing.T) {
	env := newTestEnv(t)

	snap, err := env.Settings.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.MaxReferrals != 3 {
		t.Fatalf("max referrals = %d, want 3", snap.MaxReferrals)
	}
	if !snap.MinWithdrawal.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("min withdrawal = %s, want 50", snap.MinWithdrawal)
	}
	if !snap.QuizReward.Equal(decimal.RequireFromString("7.15")) {
		t.Fatalf("quiz reward = %s, want 7.15", snap.QuizReward)
	}
	if !snap.WelcomeBonus.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("welcome bonus = %s, want 15", snap.WelcomeBonus)
	}
	if !snap.ReferralReward.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("referral reward = %s, want 20", snap.ReferralReward)
	}
	if !snap.AppointmentEnabled {
		t.Fatal("appointments must default to enabled")
	}
}

func TestSetUpdatesSnapshot(t *testing.T) {
	env := newTestEnv(t)

	if err := env.Settings.Set(models.SettingMinWithdrawal, "75.50"); err != nil {
		t.Fatalf("set: %v", err)
	}
	snap, err := env.Settings.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap.MinWithdrawal.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("min withdrawal = %s, want 75.50", snap.MinWithdrawal)
	}
}

func TestSetValidatesValues(t *testing.T) {
	env := newTestEnv(t)

	if err := env.Settings.Set(models.SettingMaxReferrals, "not-a-number"); err == nil {
		t.Fatal("expected error for non-numeric cap")
	}
	if err := env.Settings.Set(models.SettingQuizReward, "7,15"); err == nil {
		t.Fatal("expected error for malformed decimal")
	}
	if err := env.Settings.Set(models.SettingAppointmentEnabled, "yes"); err == nil {
		t.Fatal("expected error for non-boolean toggle")
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	env := newTestEnv(t)

	if err := env.Settings.Set("no_such_setting", "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedDefaultsNeverOverwrites(t *testing.T) {
	env := newTestEnv(t)

	if err := env.Settings.Set(models.SettingWelcomeBonus, "30"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := env.Settings.SeedDefaults(); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	snap, err := env.Settings.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !snap.WelcomeBonus.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("re-seed overwrote a tuned value: %s", snap.WelcomeBonus)
	}
}
