package users

import (
	"errors"
	"strings"
	"unicode/utf8"

	"rdq-api/internal/apperr"
	"rdq-api/internal/models"
	"rdq-api/internal/notify"
	"rdq-api/internal/stores"
	"rdq-api/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the user directory: accounts, roles and the manager tree.
type Service struct {
	users    stores.UserStore
	hasher   user.PasswordHasher
	notifier notify.Notifier
	log      *zap.Logger
}

func NewService(users stores.UserStore, hasher user.PasswordHasher, notifier notify.Notifier, log *zap.Logger) *Service {
	return &Service{users: users, hasher: hasher, notifier: notifier, log: log}
}

type CreateInput struct {
	Email       string
	FirstName   string
	LastName    string
	Password    string
	Role        models.Role
	Department  string
	PhoneNumber string
	ManagerID   *uint
}

// UpdateInput is a partial patch: nil fields are left untouched.
type UpdateInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	Role        *models.Role
	Department  *string
	PhoneNumber *string
	Active      *bool
	ManagerID   *uint
}

func (s *Service) Create(in CreateInput) (*models.User, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(in.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.EmailExists()
	}
	if !user.ValidPassword(in.Password) {
		return nil, apperr.WeakPassword()
	}

	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
		Role:         in.Role,
		Department:   in.Department,
		PhoneNumber:  in.PhoneNumber,
		Active:       true,
	}

	if in.ManagerID != nil {
		manager, err := s.get(*in.ManagerID)
		if err != nil {
			return nil, err
		}
		u.ManagerID = &manager.ID
	}

	if err := s.users.CreateUser(u); err != nil {
		return nil, err
	}

	s.notifier.UserWelcome(u)
	s.log.Info("user created", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *Service) Update(id uint, in UpdateInput) (*models.User, error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		exists, err := s.users.EmailExists(email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.EmailExists()
		}
		u.Email = email
	}
	if in.FirstName != nil {
		if !validName(*in.FirstName) {
			return nil, apperr.Validation("first name must be between 2 and 100 characters")
		}
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		if !validName(*in.LastName) {
			return nil, apperr.Validation("last name must be between 2 and 100 characters")
		}
		u.LastName = *in.LastName
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, apperr.Validation("unknown role")
		}
		u.Role = *in.Role
	}
	if in.Department != nil {
		u.Department = *in.Department
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.ManagerID != nil {
		if err := s.checkManagerAssignment(id, *in.ManagerID); err != nil {
			return nil, err
		}
		u.ManagerID = in.ManagerID
		u.Manager = nil
	}

	if err := s.users.Update(u); err != nil {
		return nil, err
	}

	s.log.Info("user updated", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *Service) Get(id uint) (*models.User, error) {
	return s.get(id)
}

func (s *Service) GetByEmail(email string) (*models.User, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UserNotFoundByEmail(email)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) ListActive() ([]models.User, error) {
	return s.users.ListActive()
}

func (s *Service) ListByRole(role models.Role) ([]models.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("unknown role")
	}
	return s.users.ListByRole(role)
}

// Team returns the direct reports of a manager.
func (s *Service) Team(managerID uint) ([]models.User, error) {
	return s.users.ListByManager(managerID)
}

func (s *Service) Deactivate(id uint) (*models.User, error) {
	return s.setActive(id, false)
}

func (s *Service) Activate(id uint) (*models.User, error) {
	return s.setActive(id, true)
}

func (s *Service) ChangePassword(id uint, oldPassword, newPassword string) error {
	u, err := s.get(id)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.InvalidCredentials()
	}
	if !user.ValidPassword(newPassword) {
		return apperr.WeakPassword()
	}

	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)

	if err := s.users.Update(u); err != nil {
		return err
	}

	s.log.Info("password changed", zap.Uint("user_id", id))
	return nil
}

func (s *Service) setActive(id uint, active bool) (*models.User, error) {
	u, err := s.get(id)
	if err != nil {
		return nil, err
	}
	u.Active = active

	if err := s.users.Update(u); err != nil {
		return nil, err
	}

	s.log.Info("user activation changed", zap.Uint("user_id", id), zap.Bool("active", active))
	return u, nil
}

func (s *Service) get(id uint) (*models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UserNotFound(id)
		}
		return nil, err
	}
	return u, nil
}

// checkManagerAssignment verifies the manager exists and that assigning it
// to userID keeps the manager relation a tree.
func (s *Service) checkManagerAssignment(userID, managerID uint) error {
	if managerID == userID {
		return apperr.Validation("a user cannot be their own manager")
	}

	// Walk up from the proposed manager; hitting userID would close a cycle.
	seen := map[uint]bool{userID: true}
	current := managerID
	for {
		if seen[current] {
			return apperr.Validation("manager assignment would create a cycle")
		}
		seen[current] = true

		m, err := s.get(current)
		if err != nil {
			return err
		}
		if m.ManagerID == nil {
			return nil
		}
		current = *m.ManagerID
	}
}

func validateCreate(in CreateInput) error {
	email := strings.TrimSpace(in.Email)
	if email == "" || utf8.RuneCountInString(email) > 255 || !strings.Contains(email, "@") {
		return apperr.Validation("a valid email is required")
	}
	if !validName(in.FirstName) {
		return apperr.Validation("first name must be between 2 and 100 characters")
	}
	if !validName(in.LastName) {
		return apperr.Validation("last name must be between 2 and 100 characters")
	}
	if !in.Role.Valid() {
		return apperr.Validation("unknown role")
	}
	if utf8.RuneCountInString(in.Department) > 100 {
		return apperr.Validation("department cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(in.PhoneNumber) > 20 {
		return apperr.Validation("phone number cannot exceed 20 characters")
	}
	return nil
}

func validName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= 2 && n <= 100
}
