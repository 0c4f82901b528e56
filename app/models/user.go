package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can sign in to the panel. Role holds one of the
// rbac role names; authorization always re-reads it from this record, not
// from the token.
type User struct {
	gorm.Model
	DisplayName string `gorm:"size:255;not null" json:"displayName"`
	Email       string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role        string `gorm:"size:50;not null;default:worker" json:"role"`
	Active      bool   `gorm:"not null;default:true" json:"active"`

	// Audit trail for administrative password resets.
	PasswordSetBy          *uint      `json:"passwordSetBy,omitempty"`
	PasswordSetAt          *time.Time `json:"passwordSetAt,omitempty"`
	RequiresPasswordChange bool       `gorm:"not null;default:false" json:"requiresPasswordChange"`
}
