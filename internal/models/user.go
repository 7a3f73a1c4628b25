package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the account record. PasswordHash and the reset-token pair are never
// serialized into responses.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Username     string `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	Roles datatypes.JSONSlice[string] `json:"roles"`

	// One-time password recovery credential; both fields are nil except
	// between forgot-password and reset-password.
	ResetToken       *string    `json:"-" gorm:"uniqueIndex;size:64"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Opaque roadmap document owned by the client; the node completion
	// endpoint is the only server-side mutation that interprets it.
	RoadmapJSON datatypes.JSON `json:"roadmap_json" gorm:"column:roadmap_json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// Roadmap returns the stored roadmap document as a string, empty when the
// user has none.
func (u *User) Roadmap() string {
	return string(u.RoadmapJSON)
}
