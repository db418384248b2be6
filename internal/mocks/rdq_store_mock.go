package mocks

import (
	"rdq-api/internal/models"
	"rdq-api/internal/stores"

	"github.com/stretchr/testify/mock"
)

type RdqStore struct{ mock.Mock }

func (m *RdqStore) Create(r *models.Rdq) error {
	return m.Called(r).Error(0)
}

func (m *RdqStore) GetByID(id uint) (*models.Rdq, error) {
	args := m.Called(id)
	var r *models.Rdq
	if v := args.Get(0); v != nil {
		r = v.(*models.Rdq)
	}
	return r, args.Error(1)
}

func (m *RdqStore) Save(r *models.Rdq) error {
	return m.Called(r).Error(0)
}

func (m *RdqStore) Delete(r *models.Rdq) error {
	return m.Called(r).Error(0)
}

func (m *RdqStore) Search(f stores.RdqSearchFilter, page, size int) ([]models.Rdq, int64, error) {
	args := m.Called(f, page, size)
	var rows []models.Rdq
	if v := args.Get(0); v != nil {
		rows = v.([]models.Rdq)
	}
	return rows, args.Get(1).(int64), args.Error(2)
}
