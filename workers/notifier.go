package workers

import (
	"context"
	"time"

	"trustmission-platform/services"
	"trustmission-platform/utils"
)

// PollNotifications hands undispatched engine events to the delivery boundary
// at a fixed interval until ctx is cancelled. Actual delivery (toast,
// WhatsApp, email) lives outside this service; this loop logs the payload and
// marks the row dispatched, which is the hand-off contract.
func PollNotifications(ctx context.Context, notifications *services.NotificationService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dispatchPending(notifications)
		}
	}
}

func dispatchPending(notifications *services.NotificationService) {
	pending, err := notifications.Undispatched(50)
	if err != nil {
		utils.Sugar.Errorw("failed to fetch undispatched notifications", "err", err)
		return
	}

	for _, n := range pending {
		if err := notifications.MarkDispatched(n.ID); err != nil {
			// another dispatcher got there first
			continue
		}
		utils.Sugar.Infow("notification dispatched",
			"notification_id", n.ID,
			"account_id", n.AccountID,
			"kind", n.Kind,
			"title", n.Title,
		)
	}
}
