package mocks

import (
	"rdq-api/internal/models"

	"github.com/stretchr/testify/mock"
)

type Notifier struct{ mock.Mock }

func (m *Notifier) RdqCreated(r *models.Rdq)     { m.Called(r) }
func (m *Notifier) RdqSubmitted(r *models.Rdq)   { m.Called(r) }
func (m *Notifier) RdqApproved(r *models.Rdq)    { m.Called(r) }
func (m *Notifier) RdqRejected(r *models.Rdq)    { m.Called(r) }
func (m *Notifier) RdqPendingInfo(r *models.Rdq) { m.Called(r) }
func (m *Notifier) UserWelcome(u *models.User)   { m.Called(u) }
