package stores

import (
	"rdq-api/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = gorm.ErrRecordNotFound

// UserStore abstracts user persistence.
type UserStore interface {
	// FindByEmail returns a user if it exists, or ErrNotFound.
	FindByEmail(email string) (*models.User, error)
	// CreateUser persists a new user.
	CreateUser(u *models.User) error
	GetByID(id uint) (*models.User, error)
	Update(u *models.User) error
	// EmailExists reports whether another user than excludeID uses email.
	EmailExists(email string, excludeID uint) (bool, error)
	ListActive() ([]models.User, error)
	ListByRole(role models.Role) ([]models.User, error)
	// ListByManager returns the direct reports of a manager.
	ListByManager(managerID uint) ([]models.User, error)
}

// GormUserStore implements UserStore using GORM.
type GormUserStore struct{ DB *gorm.DB }

func (s *GormUserStore) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.DB.Preload("Manager").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) CreateUser(u *models.User) error {
	return s.DB.Create(u).Error
}

func (s *GormUserStore) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.DB.Preload("Manager").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) Update(u *models.User) error {
	return s.DB.Save(u).Error
}

func (s *GormUserStore) EmailExists(email string, excludeID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("email = ? AND id != ?", email, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormUserStore) ListActive() ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("active = ?", true).Order("last_name, first_name").Find(&users).Error
	return users, err
}

func (s *GormUserStore) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("role = ?", role).Order("last_name, first_name").Find(&users).Error
	return users, err
}

func (s *GormUserStore) ListByManager(managerID uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("manager_id = ?", managerID).Order("last_name, first_name").Find(&users).Error
	return users, err
}
