package mocks

import (
	"rdq-api/internal/models"

	"github.com/stretchr/testify/mock"
)

type UserStore struct{ mock.Mock }

func (m *UserStore) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	var u *models.User
	if v := args.Get(0); v != nil {
		u = v.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStore) CreateUser(u *models.User) error {
	return m.Called(u).Error(0)
}

func (m *UserStore) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	var u *models.User
	if v := args.Get(0); v != nil {
		u = v.(*models.User)
	}
	return u, args.Error(1)
}

func (m *UserStore) Update(u *models.User) error {
	return m.Called(u).Error(0)
}

func (m *UserStore) EmailExists(email string, excludeID uint) (bool, error) {
	args := m.Called(email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) ListActive() ([]models.User, error) {
	args := m.Called()
	var list []models.User
	if v := args.Get(0); v != nil {
		list = v.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserStore) ListByRole(role models.Role) ([]models.User, error) {
	args := m.Called(role)
	var list []models.User
	if v := args.Get(0); v != nil {
		list = v.([]models.User)
	}
	return list, args.Error(1)
}

func (m *UserStore) ListByManager(managerID uint) ([]models.User, error) {
	args := m.Called(managerID)
	var list []models.User
	if v := args.Get(0); v != nil {
		list = v.([]models.User)
	}
	return list, args.Error(1)
}
