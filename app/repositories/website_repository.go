package repositories

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// WebsiteRepository persists the marketing-site content blocks and the
// public services list.
type WebsiteRepository struct {
	db *gorm.DB
}

func NewWebsiteRepository(db *gorm.DB) *WebsiteRepository {
	return &WebsiteRepository{db: db}
}

// Sections returns every stored content block.
func (r *WebsiteRepository) Sections() ([]models.WebsiteSection, error) {
	var out []models.WebsiteSection
	err := r.db.Order("section asc").Find(&out).Error
	return out, err
}

// UpsertSection writes the content of one block, creating the row on
// first write.
func (r *WebsiteRepository) UpsertSection(section string, content json.RawMessage) (models.WebsiteSection, error) {
	var sec models.WebsiteSection
	err := r.db.Where("section = ?", section).First(&sec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		sec = models.WebsiteSection{Section: section, Content: content}
		return sec, r.db.Create(&sec).Error
	case err != nil:
		return models.WebsiteSection{}, err
	}

	sec.Content = content
	return sec, r.db.Save(&sec).Error
}

// PublicServices lists the marketing-site offerings in display order.
// activeOnly narrows to visible ones for the public endpoint.
func (r *WebsiteRepository) PublicServices(activeOnly bool) ([]models.PublicService, error) {
	query := r.db.Order("sort_order asc")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var out []models.PublicService
	err := query.Find(&out).Error
	return out, err
}

func (r *WebsiteRepository) FindPublicService(id uint) (models.PublicService, error) {
	var svc models.PublicService
	err := r.db.First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svc, &models.NotFoundError{Entity: "public service", ID: id}
	}
	return svc, err
}

func (r *WebsiteRepository) CreatePublicService(s *models.PublicService) error {
	return r.db.Create(s).Error
}

func (r *WebsiteRepository) UpdatePublicService(s *models.PublicService) error {
	return r.db.Save(s).Error
}

func (r *WebsiteRepository) DeletePublicService(id uint) error {
	res := r.db.Delete(&models.PublicService{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "public service", ID: id}
	}
	return nil
}
