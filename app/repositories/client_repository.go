package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// ClientRepository handles database operations for Client.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindByID(id uint) (models.Client, error) {
	var client models.Client
	err := r.db.First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return client, &models.NotFoundError{Entity: "client", ID: id}
	}
	return client, err
}

// Search pages through clients whose name or document matches term.
func (r *ClientRepository) Search(page, limit int, term string) ([]models.Client, Pagination, error) {
	query := r.db.Model(&models.Client{})
	if term != "" {
		like := "%" + term + "%"
		query = query.Where("name LIKE ? OR document LIKE ?", like, like)
	}

	var clients []models.Client
	pagination, err := paginate(query.Order("name asc"), page, limit, &clients)
	return clients, pagination, err
}

func (r *ClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

func (r *ClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

func (r *ClientRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Client{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "client", ID: id}
	}
	return nil
}
