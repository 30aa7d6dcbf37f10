package services

import (
	"errors"
	"fmt"
	"time"

	"trustmission-platform/models"
	"trustmission-platform/utils"

	"gorm.io/gorm"
)

type ReferralService struct {
	DB       *gorm.DB
	Settings *SettingsService
}

func NewReferralService(db *gorm.DB, settings *SettingsService) *ReferralService {
	return &ReferralService{DB: db, Settings: settings}
}

// OnMissionsCompleted pays the one-time referral reward for the account that
// just finished the quiz program. Safe to call any number of times: it no-ops
// when no referral row exists or the reward was already paid, and a row
// blocked by the referrer's cap stays unpaid permanently, even if the cap is
// later raised.
func (s *ReferralService) OnMissionsCompleted(referredAccountID string) error {
	snap, err := s.Settings.Snapshot()
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		err := tx.Where("referred_id = ?", referredAccountID).First(&referral).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // account registered without a referral code
		}
		if err != nil {
			return err
		}
		if referral.RewardPaid {
			return nil
		}

		var referrer models.Account
		err = tx.First(&referrer, "id = ?", referral.ReferrerID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var paidCount int64
		if err := tx.Model(&models.Referral{}).
			Where("referrer_id = ? AND reward_paid = ?", referrer.ID, true).
			Count(&paidCount).Error; err != nil {
			return err
		}
		// zero cap means unlimited
		if referrer.MaxReferrals > 0 && paidCount >= int64(referrer.MaxReferrals) {
			return ErrReferralCapReached
		}

		reward := snap.ReferralReward
		now := time.Now()
		res := tx.Model(&models.Referral{}).
			Where("id = ? AND reward_paid = ?", referral.ID, false).
			Updates(map[string]interface{}{
				"reward_paid":   true,
				"reward_amount": reward,
				"awarded_at":    now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // raced with another payout, which won
		}

		res = tx.Model(&models.Account{}).
			Where("id = ? AND referral_earnings = ?", referrer.ID, referrer.ReferralEarnings).
			Updates(map[string]interface{}{
				"referral_earnings":   referrer.ReferralEarnings.Add(reward),
				"total_balance":       referrer.TotalBalance.Add(reward),
				"withdrawable_amount": referrer.WithdrawableAmount.Add(reward),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// concurrent balance write; roll the payout back and let the
			// reconciler replay it
			return errors.New("concurrent balance update on referrer")
		}

		return createNotification(tx, referrer.ID, models.NotificationReferralReward,
			"Referral reward",
			fmt.Sprintf("Your referral finished all missions. %s has been credited to your balance.",
				utils.FormatEUR(reward)))
	})
}

// ReferralStats feeds the dashboard referral section.
type ReferralStats struct {
	ReferralCode string            `json:"referral_code"`
	Total        int64             `json:"total"`
	Paid         int64             `json:"paid"`
	MaxReferrals int               `json:"max_referrals"`
	CanRefer     bool              `json:"can_refer"`
	Referrals    []models.Referral `json:"referrals"`
}

// StatsForAccount summarizes an account's referral activity.
func (s *ReferralService) StatsForAccount(account *models.Account) (*ReferralStats, error) {
	var referrals []models.Referral
	if err := s.DB.Where("referrer_id = ?", account.ID).
		Order("created_at DESC").
		Find(&referrals).Error; err != nil {
		return nil, err
	}

	stats := &ReferralStats{
		ReferralCode: account.ReferralCode,
		Total:        int64(len(referrals)),
		MaxReferrals: account.MaxReferrals,
		Referrals:    referrals,
	}
	for _, r := range referrals {
		if r.RewardPaid {
			stats.Paid++
		}
	}
	stats.CanRefer = account.MaxReferrals == 0 || stats.Total < int64(account.MaxReferrals)
	return stats, nil
}

// UnpaidCompleted returns referral rows whose referred account has finished
// the program but whose payout has not landed yet. The reconciler replays
// these; rows held back only by the cap come out too and stay unpaid.
func (s *ReferralService) UnpaidCompleted(limit int) ([]models.Referral, error) {
	var referrals []models.Referral
	err := s.DB.
		Joins("JOIN accounts ON accounts.id = referrals.referred_id").
		Where("referrals.reward_paid = ? AND accounts.missions_completed = ?", false, true).
		Limit(limit).
		Find(&referrals).Error
	return referrals, err
}
