package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// ContactRepository handles database operations for ContactMessage.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(msg *models.ContactMessage) error {
	return r.db.Create(msg).Error
}

func (r *ContactRepository) FindByID(id uint) (models.ContactMessage, error) {
	var msg models.ContactMessage
	err := r.db.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return msg, &models.NotFoundError{Entity: "contact message", ID: id}
	}
	return msg, err
}

// All pages through messages, unread first, newest first within each group.
func (r *ContactRepository) All(page, limit int) ([]models.ContactMessage, Pagination, error) {
	var msgs []models.ContactMessage
	query := r.db.Model(&models.ContactMessage{}).Order("read asc, created_at desc")
	pagination, err := paginate(query, page, limit, &msgs)
	return msgs, pagination, err
}

// MarkRead flips the read flag.
func (r *ContactRepository) MarkRead(id uint) error {
	res := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "contact message", ID: id}
	}
	return nil
}

// MarkReplied flips the replied flag.
func (r *ContactRepository) MarkReplied(id uint) error {
	res := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("replied", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "contact message", ID: id}
	}
	return nil
}
