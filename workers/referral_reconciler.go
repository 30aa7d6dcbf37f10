package workers

import (
	"errors"
	"time"

	"trustmission-platform/services"
	"trustmission-platform/utils"

	"github.com/go-co-op/gocron/v2"
)

// ReferralReconciler replays referral payouts that did not land in the same
// request as the qualifying quiz submission (process crash, concurrent
// balance write). The payout path is idempotent, so replaying is always safe;
// rows held back by the referral cap simply keep coming back unpaid.
type ReferralReconciler struct {
	Referrals *services.ReferralService
	Interval  time.Duration

	scheduler gocron.Scheduler
}

func NewReferralReconciler(referrals *services.ReferralService, interval time.Duration) *ReferralReconciler {
	return &ReferralReconciler{Referrals: referrals, Interval: interval}
}

// Start schedules the reconcile pass. Errors from individual rows are logged
// and never stop the sweep.
func (r *ReferralReconciler) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(r.Interval),
		gocron.NewTask(r.runOnce),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

func (r *ReferralReconciler) Stop() {
	if r.scheduler != nil {
		_ = r.scheduler.Shutdown()
	}
}

func (r *ReferralReconciler) runOnce() {
	rows, err := r.Referrals.UnpaidCompleted(100)
	if err != nil {
		utils.Sugar.Errorw("referral reconcile sweep failed", "err", err)
		return
	}

	paid := 0
	for _, row := range rows {
		err := r.Referrals.OnMissionsCompleted(row.ReferredID)
		switch {
		case err == nil:
			paid++
		case errors.Is(err, services.ErrReferralCapReached):
			// stays unpaid permanently, nothing to do
		default:
			utils.Sugar.Warnw("referral payout replay failed",
				"referral_id", row.ID, "referred_id", row.ReferredID, "err", err)
		}
	}

	if len(rows) > 0 {
		utils.Sugar.Infow("referral reconcile pass finished", "candidates", len(rows), "paid", paid)
	}
}
