package notify

import (
	"rdq-api/internal/models"

	"go.uber.org/zap"
)

// Notifier receives fire-and-forget hooks on workflow events. Implementations
// must not block and have no way to fail the triggering operation.
type Notifier interface {
	RdqCreated(rdq *models.Rdq)
	RdqSubmitted(rdq *models.Rdq)
	RdqApproved(rdq *models.Rdq)
	RdqRejected(rdq *models.Rdq)
	RdqPendingInfo(rdq *models.Rdq)
	UserWelcome(u *models.User)
}

// LogNotifier records notifications in the application log. Stands in for a
// real mail/queue integration.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) RdqCreated(rdq *models.Rdq) {
	n.Log.Info("rdq created notification",
		zap.Uint("rdq_id", rdq.ID), zap.String("owner", rdq.User.Email))
}

func (n *LogNotifier) RdqSubmitted(rdq *models.Rdq) {
	if rdq.User.Manager == nil {
		return
	}
	n.Log.Info("rdq submitted notification",
		zap.Uint("rdq_id", rdq.ID), zap.String("manager", rdq.User.Manager.Email))
}

func (n *LogNotifier) RdqApproved(rdq *models.Rdq) {
	n.Log.Info("rdq approved notification",
		zap.Uint("rdq_id", rdq.ID), zap.String("owner", rdq.User.Email))
}

func (n *LogNotifier) RdqRejected(rdq *models.Rdq) {
	n.Log.Info("rdq rejected notification",
		zap.Uint("rdq_id", rdq.ID), zap.String("owner", rdq.User.Email))
}

func (n *LogNotifier) RdqPendingInfo(rdq *models.Rdq) {
	n.Log.Info("rdq pending info notification",
		zap.Uint("rdq_id", rdq.ID), zap.String("owner", rdq.User.Email))
}

func (n *LogNotifier) UserWelcome(u *models.User) {
	n.Log.Info("welcome notification", zap.String("user", u.Email))
}
