package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// CatalogRepository handles the small lookup tables: categories, units
// and services.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Categories() ([]models.Category, error) {
	var out []models.Category
	err := r.db.Where("active = ?", true).Order("name asc").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) CreateCategory(c *models.Category) error {
	return r.db.Create(c).Error
}

func (r *CatalogRepository) DeleteCategory(id uint) error {
	return r.deleteByID(&models.Category{}, "category", id)
}

func (r *CatalogRepository) Units() ([]models.Unit, error) {
	var out []models.Unit
	err := r.db.Where("active = ?", true).Order("name asc").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) CreateUnit(u *models.Unit) error {
	return r.db.Create(u).Error
}

func (r *CatalogRepository) DeleteUnit(id uint) error {
	return r.deleteByID(&models.Unit{}, "unit", id)
}

func (r *CatalogRepository) Services() ([]models.Service, error) {
	var out []models.Service
	err := r.db.Where("active = ?", true).Order("name asc").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) FindService(id uint) (models.Service, error) {
	var svc models.Service
	err := r.db.First(&svc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svc, &models.NotFoundError{Entity: "service", ID: id}
	}
	return svc, err
}

func (r *CatalogRepository) CreateService(s *models.Service) error {
	return r.db.Create(s).Error
}

func (r *CatalogRepository) UpdateService(s *models.Service) error {
	return r.db.Save(s).Error
}

func (r *CatalogRepository) DeleteService(id uint) error {
	return r.deleteByID(&models.Service{}, "service", id)
}

func (r *CatalogRepository) deleteByID(model interface{}, entity string, id uint) error {
	res := r.db.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
