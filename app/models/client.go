package models

import "gorm.io/gorm"

// Client is a customer a quote can be addressed to.
type Client struct {
	gorm.Model
	Name     string `gorm:"size:255;not null;index" json:"name"`
	Document string `gorm:"size:20;index"           json:"document"` // DNI or RUC
	Email    string `gorm:"size:255"                json:"email"`
	Phone    string `gorm:"size:30"                 json:"phone"`
	Address  string `gorm:"size:500"                json:"address"`
	Active   bool   `gorm:"not null;default:true"   json:"active"`
}
