package services

import (
	"errors"
	"testing"

	"trustmission-platform/models"
)

func TestBookRequiresCompletedMissions(t *testing.T) {
	env := newTestEnv(t)
	account := approvedAccount(t, env, "early-booker@example.com")

	if _, err := env.Appointments.Book(account.ID, "2026-09-15", "10:00", ""); !errors.Is(err, ErrMissionsIncomplete) {
		t.Fatalf("expected ErrMissionsIncomplete, got %v", err)
	}
}

func TestBookHonorsFeatureToggle(t *testing.T) {
	env := newTestEnv(t)
	account := approvedAccount(t, env, "toggled@example.com")
	markMissionsCompleted(t, env, account.ID)

	if err := env.Settings.Set(models.SettingAppointmentEnabled, "false"); err != nil {
		t.Fatalf("disable appointments: %v", err)
	}
	if _, err := env.Appointments.Book(account.ID, "2026-09-15", "10:00", ""); !errors.Is(err, ErrAppointmentsDisabled) {
		t.Fatalf("expected ErrAppointmentsDisabled, got %v", err)
	}

	if err := env.Settings.Set(models.SettingAppointmentEnabled, "true"); err != nil {
		t.Fatalf("re-enable appointments: %v", err)
	}
	if _, err := env.Appointments.Book(account.ID, "2026-09-15", "10:00", ""); err != nil {
		t.Fatalf("booking should succeed once re-enabled: %v", err)
	}
}

func TestBookSnapshotsUserContact(t *testing.T) {
	env := newTestEnv(t)
	account := approvedAccount(t, env, "contact@example.com")
	markMissionsCompleted(t, env, account.ID)

	appointment, err := env.Appointments.Book(account.ID, "2026-10-01", "14:30", "please call first")
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if appointment.UserName != "Test User" || appointment.UserEmail != "contact@example.com" {
		t.Fatalf("contact snapshot wrong: %q %q", appointment.UserName, appointment.UserEmail)
	}
	if appointment.Status != models.AppointmentStatusPending {
		t.Fatalf("status = %s, want pending", appointment.Status)
	}
}

func TestDecideAppointmentIsFinal(t *testing.T) {
	env := newTestEnv(t)
	account := approvedAccount(t, env, "confirm@example.com")
	markMissionsCompleted(t, env, account.ID)

	appointment, err := env.Appointments.Book(account.ID, "2026-10-01", "09:00", "")
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	confirmed, err := env.Appointments.Decide(appointment.ID, true, "see you then")
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if confirmed.Status != models.AppointmentStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", confirmed.Status)
	}

	if _, err := env.Appointments.Decide(appointment.ID, false, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on second decision, got %v", err)
	}
}
