package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// QuoteRepository handles database operations for Quote and its items.
type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// FindByID loads a quote with its line items.
func (r *QuoteRepository) FindByID(id uint) (models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("Items").First(&quote, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quote, &models.NotFoundError{Entity: "quote", ID: id}
	}
	return quote, err
}

// FindByCode loads a quote by its public code.
func (r *QuoteRepository) FindByCode(code string) (models.Quote, error) {
	var quote models.Quote
	err := r.db.Preload("Items").Where("code = ?", code).First(&quote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return quote, models.ErrNotFound
	}
	return quote, err
}

// All returns one page of quotes, newest first, optionally filtered by
// status.
func (r *QuoteRepository) All(page, limit int, status models.Status) ([]models.Quote, Pagination, error) {
	query := r.db.Model(&models.Quote{}).Preload("Items")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var quotes []models.Quote
	pagination, err := paginate(query.Order("created_at desc"), page, limit, &quotes)
	return quotes, pagination, err
}

// Create persists a new quote with its items.
func (r *QuoteRepository) Create(quote *models.Quote) error {
	return r.db.Create(quote).Error
}

// Update replaces the quote's scalar fields and its item set.
func (r *QuoteRepository) Update(quote *models.Quote) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(quote).Error
	})
}

// Delete removes a quote and its items.
func (r *QuoteRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&models.QuoteItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Quote{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.NotFoundError{Entity: "quote", ID: id}
		}
		return nil
	})
}

// UpdateStatus persists the status and the stock-deducted flag in one
// update so approval finalization is atomic.
func (r *QuoteRepository) UpdateStatus(id uint, status models.Status, stockDeducted bool) error {
	res := r.db.Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"stock_deducted": stockDeducted,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "quote", ID: id}
	}
	return nil
}

// CountByStatus returns how many quotes sit in the given status.
func (r *QuoteRepository) CountByStatus(status models.Status) (int64, error) {
	var count int64
	err := r.db.Model(&models.Quote{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Stats aggregates dashboard numbers in one pass.
func (r *QuoteRepository) Stats() (total int64, revenue float64, err error) {
	if err = r.db.Model(&models.Quote{}).Count(&total).Error; err != nil {
		return
	}
	var sum struct{ Revenue float64 }
	err = r.db.Model(&models.Quote{}).
		Select("COALESCE(SUM(total), 0) as revenue").
		Where("status IN ?", []models.Status{models.StatusApproved, models.StatusCompleted}).
		Scan(&sum).Error
	revenue = sum.Revenue
	return
}

// Latest returns the n most recent quotes without items.
func (r *QuoteRepository) Latest(n int) ([]models.Quote, error) {
	var quotes []models.Quote
	err := r.db.Order("created_at desc").Limit(n).Find(&quotes).Error
	return quotes, err
}
