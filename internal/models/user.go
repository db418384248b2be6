package models

import (
	"time"

	"gorm.io/gorm"
)

// Role of a user. ADMIN outranks MANAGER outranks USER.
type Role string

const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

var roleRank = map[Role]int{
	RoleUser:    0,
	RoleManager: 1,
	RoleAdmin:   2,
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r holds at least the rank of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// User represents the users table in database. Users are never physically
// deleted; inactive accounts are locked out of authentication instead.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	FirstName    string `gorm:"size:100;not null"`
	LastName     string `gorm:"size:100;not null"`
	PasswordHash string `gorm:"not null"`
	Role         Role   `gorm:"size:20;not null"`
	ManagerID    *uint  `gorm:"index"`
	Manager      *User  `gorm:"foreignKey:ManagerID"`
	Active       bool   `gorm:"not null;default:true"`
	Department   string `gorm:"size:100"`
	PhoneNumber  string `gorm:"size:20"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
