package stores

import (
	"errors"
	"time"

	"rdq-api/internal/models"

	"gorm.io/gorm"
)

// ErrStaleVersion means a concurrent writer updated the record first.
var ErrStaleVersion = errors.New("rdq was modified concurrently")

// RdqSearchFilter carries optional, conjunctive search criteria. A nil field
// means no constraint.
type RdqSearchFilter struct {
	OwnerID  *uint
	Status   *models.RdqStatus
	Type     *models.RdqType
	Priority *models.RdqPriority
	DateFrom *time.Time
	DateTo   *time.Time
}

// RdqStore abstracts request persistence.
type RdqStore interface {
	Create(r *models.Rdq) error
	// GetByID loads a request with its owner and the owner's manager.
	GetByID(id uint) (*models.Rdq, error)
	// Save writes the mutable fields of r, guarded by the version it was
	// read at. Returns ErrStaleVersion when a concurrent writer won.
	Save(r *models.Rdq) error
	// Delete soft-deletes r with the same version guard as Save.
	Delete(r *models.Rdq) error
	// Search returns a page of requests ordered by creation time descending,
	// plus the total match count.
	Search(f RdqSearchFilter, page, size int) ([]models.Rdq, int64, error)
}

// GormRdqStore implements RdqStore using GORM.
type GormRdqStore struct{ DB *gorm.DB }

func (s *GormRdqStore) Create(r *models.Rdq) error {
	r.Version = 1
	return s.DB.Create(r).Error
}

func (s *GormRdqStore) GetByID(id uint) (*models.Rdq, error) {
	var r models.Rdq
	if err := s.DB.Preload("User.Manager").First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// mutableColumns are the only columns Save may touch; owner and timestamps
// stay server-managed.
var mutableColumns = []string{
	"title", "description", "type", "priority", "status",
	"justification", "manager_comment", "requested_date", "version",
}

func (s *GormRdqStore) Save(r *models.Rdq) error {
	readVersion := r.Version
	r.Version = readVersion + 1

	res := s.DB.Model(&models.Rdq{}).
		Where("id = ? AND version = ?", r.ID, readVersion).
		Select(mutableColumns).
		Updates(r)
	if res.Error != nil {
		r.Version = readVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		r.Version = readVersion
		return ErrStaleVersion
	}
	return nil
}

func (s *GormRdqStore) Delete(r *models.Rdq) error {
	res := s.DB.Where("version = ?", r.Version).Delete(&models.Rdq{}, r.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleVersion
	}
	return nil
}

func (s *GormRdqStore) Search(f RdqSearchFilter, page, size int) ([]models.Rdq, int64, error) {
	query := s.DB.Model(&models.Rdq{})

	if f.OwnerID != nil {
		query = query.Where("user_id = ?", *f.OwnerID)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.Type != nil {
		query = query.Where("type = ?", *f.Type)
	}
	if f.Priority != nil {
		query = query.Where("priority = ?", *f.Priority)
	}
	if f.DateFrom != nil {
		query = query.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Rdq
	err := query.Preload("User.Manager").
		Order("created_at DESC").
		Offset(page * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
