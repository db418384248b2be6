package rdq

import (
	"errors"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"rdq-api/internal/apperr"
	"rdq-api/internal/models"
	"rdq-api/internal/notify"
	"rdq-api/internal/stores"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the request workflow engine. All status transitions and access
// decisions on requests go through it; handlers never touch the store
// directly.
type Service struct {
	rdqs     stores.RdqStore
	users    stores.UserStore
	notifier notify.Notifier
	log      *zap.Logger
}

func NewService(rdqs stores.RdqStore, users stores.UserStore, notifier notify.Notifier, log *zap.Logger) *Service {
	return &Service{rdqs: rdqs, users: users, notifier: notifier, log: log}
}

type CreateInput struct {
	Title         string
	Description   string
	Type          models.RdqType
	Priority      models.RdqPriority
	Justification string
	RequestedDate *time.Time
}

// UpdateInput is a partial patch: nil fields are left untouched.
type UpdateInput struct {
	Title         *string
	Description   *string
	Type          *models.RdqType
	Priority      *models.RdqPriority
	Justification *string
	RequestedDate *time.Time
}

type SearchInput struct {
	OwnerID  *uint
	Status   *models.RdqStatus
	Type     *models.RdqType
	Priority *models.RdqPriority
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Size     int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Page mirrors the REST pagination envelope.
type Page struct {
	Content          []models.Rdq
	TotalElements    int64
	TotalPages       int
	Number           int
	Size             int
	First            bool
	Last             bool
	NumberOfElements int
}

func (s *Service) Create(callerID uint, in CreateInput) (*models.Rdq, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	owner, err := s.getUser(callerID)
	if err != nil {
		return nil, err
	}

	rdq := &models.Rdq{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Type:          in.Type,
		Priority:      in.Priority,
		Status:        models.StatusDraft,
		Justification: in.Justification,
		RequestedDate: in.RequestedDate,
		UserID:        owner.ID,
		User:          *owner,
	}

	if err := s.rdqs.Create(rdq); err != nil {
		return nil, err
	}

	s.notifier.RdqCreated(rdq)
	s.log.Info("rdq created", zap.Uint("rdq_id", rdq.ID), zap.Uint("owner_id", owner.ID))
	return rdq, nil
}

func (s *Service) Get(id, callerID uint) (*models.Rdq, error) {
	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !CanRead(caller, rdq) {
		return nil, apperr.AccessDenied("you are not allowed to view this RDQ")
	}
	return rdq, nil
}

func (s *Service) Update(id, callerID uint, in UpdateInput) (*models.Rdq, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(caller, rdq) {
		return nil, apperr.AccessDenied("you can only modify your own RDQ")
	}
	if !rdq.CanBeModified() {
		return nil, apperr.InvalidStatus("only draft or pending-info RDQ can be modified")
	}

	if in.Title != nil {
		rdq.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		rdq.Description = *in.Description
	}
	if in.Type != nil {
		rdq.Type = *in.Type
	}
	if in.Priority != nil {
		rdq.Priority = *in.Priority
	}
	if in.Justification != nil {
		rdq.Justification = *in.Justification
	}
	if in.RequestedDate != nil {
		rdq.RequestedDate = in.RequestedDate
	}

	if err := s.save(rdq); err != nil {
		return nil, err
	}

	s.log.Info("rdq updated", zap.Uint("rdq_id", rdq.ID))
	return rdq, nil
}

// Submit moves a draft to SUBMITTED. Owner only.
func (s *Service) Submit(id, callerID uint) (*models.Rdq, error) {
	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(caller, rdq) {
		return nil, apperr.AccessDenied("you can only submit your own RDQ")
	}
	if rdq.Status != models.StatusDraft {
		return nil, apperr.InvalidStatus("only draft RDQ can be submitted")
	}

	rdq.Status = models.StatusSubmitted
	if err := s.save(rdq); err != nil {
		return nil, err
	}

	if rdq.User.Manager != nil {
		s.notifier.RdqSubmitted(rdq)
	}
	s.log.Info("rdq submitted", zap.Uint("rdq_id", rdq.ID))
	return rdq, nil
}

// Resubmit returns a pending-info request to the manager's queue. Owner only.
func (s *Service) Resubmit(id, callerID uint) (*models.Rdq, error) {
	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !IsOwner(caller, rdq) {
		return nil, apperr.AccessDenied("you can only resubmit your own RDQ")
	}
	if rdq.Status != models.StatusPendingInfo {
		return nil, apperr.InvalidStatus("only pending-info RDQ can be resubmitted")
	}

	rdq.Status = models.StatusSubmitted
	if err := s.save(rdq); err != nil {
		return nil, err
	}

	if rdq.User.Manager != nil {
		s.notifier.RdqSubmitted(rdq)
	}
	s.log.Info("rdq resubmitted", zap.Uint("rdq_id", rdq.ID))
	return rdq, nil
}

func (s *Service) Approve(id, callerID uint, comment string) (*models.Rdq, error) {
	if err := validateComment(comment, false); err != nil {
		return nil, err
	}

	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !CanDecide(caller, rdq) {
		return nil, apperr.AccessDenied("you are not the manager of this user")
	}
	if rdq.Status != models.StatusSubmitted {
		return nil, apperr.InvalidStatus("only submitted RDQ can be approved")
	}

	rdq.Status = models.StatusApproved
	rdq.ManagerComment = comment
	if err := s.save(rdq); err != nil {
		return nil, err
	}

	s.notifier.RdqApproved(rdq)
	s.log.Info("rdq approved", zap.Uint("rdq_id", rdq.ID), zap.Uint("manager_id", callerID))
	return rdq, nil
}

func (s *Service) Reject(id, callerID uint, comment string) (*models.Rdq, error) {
	if err := validateComment(comment, true); err != nil {
		return nil, err
	}

	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !CanDecide(caller, rdq) {
		return nil, apperr.AccessDenied("you are not the manager of this user")
	}
	if rdq.Status != models.StatusSubmitted {
		return nil, apperr.InvalidStatus("only submitted RDQ can be rejected")
	}

	rdq.Status = models.StatusRejected
	rdq.ManagerComment = comment
	if err := s.save(rdq); err != nil {
		return nil, err
	}

	s.notifier.RdqRejected(rdq)
	s.log.Info("rdq rejected", zap.Uint("rdq_id", rdq.ID), zap.Uint("manager_id", callerID))
	return rdq, nil
}

// RequestMoreInfo sends a submitted request back to its owner for edits.
func (s *Service) RequestMoreInfo(id, callerID uint, comment string) (*models.Rdq, error) {
	if err := validateComment(comment, false); err != nil {
		return nil, err
	}

	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return nil, err
	}
	if !CanDecide(caller, rdq) {
		return nil, apperr.AccessDenied("you are not the manager of this user")
	}
	if rdq.Status != models.StatusSubmitted {
		return nil, apperr.InvalidStatus("only submitted RDQ can be sent back for information")
	}

	rdq.Status = models.StatusPendingInfo
	rdq.ManagerComment = comment
	if err := s.save(rdq); err != nil {
		return nil, err
	}

	s.notifier.RdqPendingInfo(rdq)
	s.log.Info("rdq sent back for info", zap.Uint("rdq_id", rdq.ID), zap.Uint("manager_id", callerID))
	return rdq, nil
}

func (s *Service) Delete(id, callerID uint) error {
	rdq, caller, err := s.load(id, callerID)
	if err != nil {
		return err
	}
	if !IsOwner(caller, rdq) {
		return apperr.AccessDenied("you can only delete your own RDQ")
	}
	if rdq.Status != models.StatusDraft {
		return apperr.InvalidStatus("only draft RDQ can be deleted")
	}

	if err := s.rdqs.Delete(rdq); err != nil {
		if errors.Is(err, stores.ErrStaleVersion) {
			return apperr.Conflict("RDQ was modified concurrently, reload and retry")
		}
		return err
	}

	s.log.Info("rdq deleted", zap.Uint("rdq_id", rdq.ID))
	return nil
}

// Search applies conjunctive filters and scopes the result to what the
// caller may see: USER callers see only their own requests, MANAGER callers
// may target themselves or a direct report, ADMIN callers are unscoped.
func (s *Service) Search(callerID uint, in SearchInput) (*Page, error) {
	caller, err := s.getUser(callerID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleAdmin:
		// unscoped
	case models.RoleManager:
		if in.OwnerID == nil {
			in.OwnerID = &caller.ID
		} else if *in.OwnerID != caller.ID {
			owner, err := s.getUser(*in.OwnerID)
			if err != nil {
				return nil, err
			}
			if owner.ManagerID == nil || *owner.ManagerID != caller.ID {
				return nil, apperr.AccessDenied("you can only search RDQ of your direct reports")
			}
		}
	default:
		if in.OwnerID != nil && *in.OwnerID != caller.ID {
			return nil, apperr.AccessDenied("you can only search your own RDQ")
		}
		in.OwnerID = &caller.ID
	}

	if in.Page < 0 {
		in.Page = 0
	}
	if in.Size <= 0 {
		in.Size = defaultPageSize
	}
	if in.Size > maxPageSize {
		in.Size = maxPageSize
	}

	filter := stores.RdqSearchFilter{
		OwnerID:  in.OwnerID,
		Status:   in.Status,
		Type:     in.Type,
		Priority: in.Priority,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
	}

	rows, total, err := s.rdqs.Search(filter, in.Page, in.Size)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(in.Size)))
	return &Page{
		Content:          rows,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           in.Page,
		Size:             in.Size,
		First:            in.Page == 0,
		Last:             in.Page >= totalPages-1,
		NumberOfElements: len(rows),
	}, nil
}

// load fetches the request and the acting user in one place so every
// operation re-validates both before mutating anything.
func (s *Service) load(id, callerID uint) (*models.Rdq, *models.User, error) {
	rdq, err := s.rdqs.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.RdqNotFound(id)
		}
		return nil, nil, err
	}
	caller, err := s.getUser(callerID)
	if err != nil {
		return nil, nil, err
	}
	return rdq, caller, nil
}

func (s *Service) getUser(id uint) (*models.User, error) {
	u, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UserNotFound(id)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) save(rdq *models.Rdq) error {
	if err := s.rdqs.Save(rdq); err != nil {
		if errors.Is(err, stores.ErrStaleVersion) {
			return apperr.Conflict("RDQ was modified concurrently, reload and retry")
		}
		return err
	}
	return nil
}

func validateCreate(in CreateInput) error {
	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < 5 || n > 255 {
		return apperr.Validation("title must be between 5 and 255 characters")
	}
	if n := utf8.RuneCountInString(in.Description); n < 20 || n > 2000 {
		return apperr.Validation("description must be between 20 and 2000 characters")
	}
	if !in.Type.Valid() {
		return apperr.Validation("unknown RDQ type")
	}
	if !in.Priority.Valid() {
		return apperr.Validation("unknown RDQ priority")
	}
	if utf8.RuneCountInString(in.Justification) > 1000 {
		return apperr.Validation("justification cannot exceed 1000 characters")
	}
	if in.RequestedDate != nil && !in.RequestedDate.After(time.Now()) {
		return apperr.Validation("requested date must be in the future")
	}
	return nil
}

func validateUpdate(in UpdateInput) error {
	if in.Title != nil {
		if n := utf8.RuneCountInString(strings.TrimSpace(*in.Title)); n < 5 || n > 255 {
			return apperr.Validation("title must be between 5 and 255 characters")
		}
	}
	if in.Description != nil {
		if n := utf8.RuneCountInString(*in.Description); n < 20 || n > 2000 {
			return apperr.Validation("description must be between 20 and 2000 characters")
		}
	}
	if in.Type != nil && !in.Type.Valid() {
		return apperr.Validation("unknown RDQ type")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return apperr.Validation("unknown RDQ priority")
	}
	if in.Justification != nil && utf8.RuneCountInString(*in.Justification) > 1000 {
		return apperr.Validation("justification cannot exceed 1000 characters")
	}
	return nil
}

func validateComment(comment string, required bool) error {
	if required && strings.TrimSpace(comment) == "" {
		return apperr.Validation("a comment is required to reject an RDQ")
	}
	if utf8.RuneCountInString(comment) > 1000 {
		return apperr.Validation("comment cannot exceed 1000 characters")
	}
	return nil
}
