package models

import "gorm.io/gorm"

// Category groups products in the catalogue and in PDF exports.
type Category struct {
	gorm.Model
	Name   string `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"not null;default:true"         json:"active"`
}

// Unit is a measurement unit assignable to products (und, m, rollo...).
type Unit struct {
	gorm.Model
	Name   string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Active bool   `gorm:"not null;default:true"        json:"active"`
}

// Service is a labour item offered alongside equipment, priced directly
// without stock tracking.
type Service struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text"               json:"description"`
	Price       float64 `gorm:"not null;default:0"      json:"price"`
	Active      bool    `gorm:"not null;default:true"   json:"active"`
}
