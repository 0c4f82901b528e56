package seeders

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

func init() {
	Register("website", SeedWebsite)
}

// SeedWebsite inserts the default marketing-site copy when no content
// has been written yet.
func SeedWebsite(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.WebsiteSection{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	home, err := json.Marshal(map[string]interface{}{
		"hero_title":    "Protege lo que más importa",
		"hero_subtitle": "Sistemas de videovigilancia CCTV profesionales con tecnología de última generación",
		"features":      []string{},
	})
	if err != nil {
		return err
	}

	sections := []models.WebsiteSection{
		{Section: models.WebsiteSectionHome, Content: home},
		{Section: models.WebsiteSectionAbout, Content: json.RawMessage(`{}`)},
		{Section: models.WebsiteSectionContact, Content: json.RawMessage(`{}`)},
		{Section: models.WebsiteSectionSocial, Content: json.RawMessage(`{}`)},
	}
	return db.Create(&sections).Error
}
