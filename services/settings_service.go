package services

import (
	"errors"
	"strconv"

	"trustmission-platform/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// settingDefaults mirror the launch configuration of the platform.
var settingDefaults = map[string]string{
	models.SettingMaxReferrals:       "3",
	models.SettingMinWithdrawal:      "50",
	models.SettingQuizReward:         "7.15",
	models.SettingWelcomeBonus:       "15",
	models.SettingReferralReward:     "20",
	models.SettingCompletionMessage:  "Congratulations! You have completed all missions.",
	models.SettingAppointmentEnabled: "true",
	models.SettingSupportContact:     "",
}

// SeedDefaults inserts any missing setting rows. Existing values are never
// overwritten, so it is safe to run at every boot.
func (s *SettingsService) SeedDefaults() error {
	for key, value := range settingDefaults {
		setting := models.Setting{Key: key, Value: value}
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			return err
		}
	}
	return nil
}

// Snapshot reads the full settings table into a typed struct. Engine
// operations capture one snapshot up front so every amount used inside a
// transaction is pinned at call time.
func (s *SettingsService) Snapshot() (*models.SettingsSnapshot, error) {
	var rows []models.Setting
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for key, def := range settingDefaults {
		values[key] = def
	}
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	snap := &models.SettingsSnapshot{
		CompletionMessage: values[models.SettingCompletionMessage],
		SupportContact:    values[models.SettingSupportContact],
	}

	var err error
	if snap.MaxReferrals, err = strconv.Atoi(values[models.SettingMaxReferrals]); err != nil {
		return nil, err
	}
	if snap.MinWithdrawal, err = decimal.NewFromString(values[models.SettingMinWithdrawal]); err != nil {
		return nil, err
	}
	if snap.QuizReward, err = decimal.NewFromString(values[models.SettingQuizReward]); err != nil {
		return nil, err
	}
	if snap.WelcomeBonus, err = decimal.NewFromString(values[models.SettingWelcomeBonus]); err != nil {
		return nil, err
	}
	if snap.ReferralReward, err = decimal.NewFromString(values[models.SettingReferralReward]); err != nil {
		return nil, err
	}
	snap.AppointmentEnabled = values[models.SettingAppointmentEnabled] == "true"

	return snap, nil
}

// Set validates and upserts one setting value. Unknown keys are rejected.
func (s *SettingsService) Set(key, value string) error {
	if _, ok := settingDefaults[key]; !ok {
		return ErrNotFound
	}

	switch key {
	case models.SettingMaxReferrals:
		if _, err := strconv.Atoi(value); err != nil {
			return err
		}
	case models.SettingMinWithdrawal, models.SettingQuizReward,
		models.SettingWelcomeBonus, models.SettingReferralReward:
		if _, err := decimal.NewFromString(value); err != nil {
			return err
		}
	case models.SettingAppointmentEnabled:
		if value != "true" && value != "false" {
			return errors.New("appointment_enabled must be true or false")
		}
	}

	setting := models.Setting{Key: key, Value: value}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}
