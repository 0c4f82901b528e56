package seeders

import (
	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts the starter categories and units when the tables
// are empty.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		categories := []models.Category{
			{Name: "Cámaras", Active: true},
			{Name: "Grabadores", Active: true},
			{Name: "Almacenamiento", Active: true},
			{Name: "Redes", Active: true},
			{Name: "Materiales Adicionales", Active: true},
		}
		if err := db.Create(&categories).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Unit{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		units := []models.Unit{
			{Name: "und", Active: true},
			{Name: "m", Active: true},
			{Name: "rollo", Active: true},
			{Name: "caja", Active: true},
		}
		if err := db.Create(&units).Error; err != nil {
			return err
		}
	}
	return nil
}
