package rdq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rdq-api/internal/models"
	"rdq-api/internal/rdq"
)

func TestAccessPredicates(t *testing.T) {
	managerID := uint(2)
	owner := &models.User{ID: 1, Role: models.RoleUser, ManagerID: &managerID}
	manager := &models.User{ID: 2, Role: models.RoleManager}
	grandManager := &models.User{ID: 3, Role: models.RoleManager}
	admin := &models.User{ID: 4, Role: models.RoleAdmin}
	stranger := &models.User{ID: 5, Role: models.RoleUser}

	r := &models.Rdq{ID: 10, UserID: owner.ID, User: *owner}

	assert.True(t, rdq.IsOwner(owner, r))
	assert.False(t, rdq.IsOwner(manager, r))

	assert.True(t, rdq.IsDirectManager(manager, r))
	// The relation is single level: the manager's manager gets nothing.
	assert.False(t, rdq.IsDirectManager(grandManager, r))

	assert.True(t, rdq.CanRead(owner, r))
	assert.True(t, rdq.CanRead(manager, r))
	assert.True(t, rdq.CanRead(admin, r))
	assert.False(t, rdq.CanRead(stranger, r))

	assert.False(t, rdq.CanDecide(owner, r))
	assert.True(t, rdq.CanDecide(manager, r))
	assert.True(t, rdq.CanDecide(admin, r))
	assert.False(t, rdq.CanDecide(stranger, r))
}

func TestAccessWithoutManager(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleUser}
	manager := &models.User{ID: 2, Role: models.RoleManager}
	r := &models.Rdq{ID: 10, UserID: owner.ID, User: *owner}

	assert.False(t, rdq.IsDirectManager(manager, r))
	assert.False(t, rdq.CanDecide(manager, r))
}
