package models

import "gorm.io/gorm"

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	gorm.Model
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255;not null" json:"email"`
	Phone   string `gorm:"size:30"           json:"phone"`
	Message string `gorm:"type:text;not null" json:"message"`
	Read    bool   `gorm:"not null;default:false" json:"read"`
	Replied bool   `gorm:"not null;default:false" json:"replied"`
}
