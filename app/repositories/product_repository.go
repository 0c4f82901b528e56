package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/duolink/cotizador/app/models"
)

// ProductRepository handles database operations for Product, including
// the two stock mutations the ledger exposes.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, &models.NotFoundError{Entity: "product", ID: id}
	}
	return product, err
}

// FindByIDs loads several products at once, keyed by id.
func (r *ProductRepository) FindByIDs(ids []uint) (map[uint]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

// All returns one page of products, optionally filtered by category or
// active flag.
func (r *ProductRepository) All(page, limit int, category string, activeOnly bool) ([]models.Product, Pagination, error) {
	query := r.db.Model(&models.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var products []models.Product
	pagination, err := paginate(query.Order("name asc"), page, limit, &products)
	return products, pagination, err
}

// CountActive counts products still offered in the catalogue.
func (r *ProductRepository) CountActive() (int64, error) {
	var n int64
	err := r.db.Model(&models.Product{}).Where("active = ?", true).Count(&n).Error
	return n, err
}

// Create persists a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// SetQty overwrites the product's stock with an absolute value. This is
// the manual correction path; normal stock movement goes through Reserve
// and Release.
func (r *ProductRepository) SetQty(id uint, qty int) error {
	if qty < 0 {
		return &models.InvalidArgumentError{Field: "qty", Reason: "must not be negative"}
	}

	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"qty":        qty,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

// Available returns the current quantity for a product.
func (r *ProductRepository) Available(id uint) (int, error) {
	product, err := r.FindByID(id)
	if err != nil {
		return 0, err
	}
	return product.Qty, nil
}

// Reserve atomically deducts qty from the product's stock. The guard in
// the WHERE clause makes the decrement conditional, so two concurrent
// reservations can never drive the quantity negative: the row only
// matches while enough stock remains.
func (r *ProductRepository) Reserve(id uint, qty int) error {
	if qty <= 0 {
		return &models.InvalidArgumentError{Field: "qty", Reason: "must be positive"}
	}

	res := r.db.Model(&models.Product{}).
		Where("id = ? AND qty >= ?", id, qty).
		Updates(map[string]interface{}{
			"qty":        gorm.Expr("qty - ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// No row matched: either the product is gone or stock ran short.
	product, err := r.FindByID(id)
	if err != nil {
		return err
	}
	return &models.InsufficientStockError{
		ProductID:   id,
		ProductName: product.Name,
		Requested:   qty,
		Available:   product.Qty,
	}
}

// Release returns qty units to the product's stock. It compensates a
// prior Reserve, so there is no upper-bound guard.
func (r *ProductRepository) Release(id uint, qty int) error {
	if qty <= 0 {
		return &models.InvalidArgumentError{Field: "qty", Reason: "must be positive"}
	}

	res := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"qty":        gorm.Expr("qty + ?", qty),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}
