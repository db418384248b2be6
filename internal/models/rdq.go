package models

import (
	"time"

	"gorm.io/gorm"
)

// RdqStatus is the lifecycle state of a request. Transitions between states
// are owned by the workflow service; nothing else writes Status.
type RdqStatus string

const (
	StatusDraft       RdqStatus = "DRAFT"
	StatusSubmitted   RdqStatus = "SUBMITTED"
	StatusPendingInfo RdqStatus = "PENDING_INFO"
	StatusApproved    RdqStatus = "APPROVED"
	StatusRejected    RdqStatus = "REJECTED"
)

func (s RdqStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPendingInfo, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s RdqStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type RdqType string

const (
	TypeFormation RdqType = "FORMATION"
	TypeMateriel  RdqType = "MATERIEL"
	TypeLogiciel  RdqType = "LOGICIEL"
	TypeAutre     RdqType = "AUTRE"
)

func (t RdqType) Valid() bool {
	switch t {
	case TypeFormation, TypeMateriel, TypeLogiciel, TypeAutre:
		return true
	}
	return false
}

type RdqPriority string

const (
	PriorityLow    RdqPriority = "LOW"
	PriorityMedium RdqPriority = "MEDIUM"
	PriorityHigh   RdqPriority = "HIGH"
	PriorityUrgent RdqPriority = "URGENT"
)

func (p RdqPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rdq is a resource request. The owner (UserID) is set at creation and never
// changes. Version backs the optimistic concurrency check: every mutation
// must match the version it read or fail with a conflict.
type Rdq struct {
	ID             uint        `gorm:"primaryKey"`
	Title          string      `gorm:"size:255;not null"`
	Description    string      `gorm:"type:text;not null"`
	Type           RdqType     `gorm:"size:20;not null"`
	Priority       RdqPriority `gorm:"size:20;not null"`
	Status         RdqStatus   `gorm:"size:20;not null;index"`
	Justification  string      `gorm:"type:text"`
	ManagerComment string      `gorm:"type:text"`
	RequestedDate  *time.Time
	UserID         uint `gorm:"not null;index"`
	User           User `gorm:"foreignKey:UserID"`
	Version        int  `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// CanBeModified reports whether the owner may still edit fields.
func (r *Rdq) CanBeModified() bool {
	return r.Status == StatusDraft || r.Status == StatusPendingInfo
}
