package services

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/cache"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/metrics"
	"github.com/duolink/cotizador/pkg/storage"
)

const (
	productListCacheKey = "products:list"
	productCacheTTL     = 5 * time.Minute
)

// ProductStore is the persistence surface for the product catalogue.
type ProductStore interface {
	FindByID(id uint) (models.Product, error)
	All(page, limit int, category string, activeOnly bool) ([]models.Product, repositories.Pagination, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	SetQty(id uint, qty int) error
	Delete(id uint) error
}

// ProductInput is the request body for creating or updating a product.
type ProductInput struct {
	Name             string  `json:"name"             validate:"required|max:255"`
	Description      string  `json:"description"      validate:"nullable"`
	SKU              string  `json:"sku"              validate:"nullable|max:100"`
	Category         string  `json:"category"         validate:"nullable|max:120"`
	Type             string  `json:"type"             validate:"required|in:equipo,servicio"`
	Unit             string  `json:"unit"             validate:"nullable|max:50"`
	Qty              int     `json:"qty"              validate:"gte:0"`
	PriceUSD         float64 `json:"priceUsd"         validate:"gte:0"`
	ExchangeRate     float64 `json:"exchangeRate"     validate:"gte:0"`
	ProfitPercentage float64 `json:"profitPercentage" validate:"gte:0"`
	Active           *bool   `json:"active"`
}

// ProductService manages the catalogue. Listings of the first page are
// cached in Redis and invalidated on every write.
type ProductService struct {
	store ProductStore
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// Find loads one product.
func (s *ProductService) Find(id uint) (models.Product, error) {
	return s.store.FindByID(id)
}

type productPage struct {
	Products   []models.Product        `json:"products"`
	Pagination repositories.Pagination `json:"pagination"`
}

// List pages through products. The unfiltered first page is served from
// cache when present.
func (s *ProductService) List(page, limit int, category string, activeOnly bool) ([]models.Product, repositories.Pagination, error) {
	cacheable := page <= 1 && category == "" && !activeOnly

	if cacheable {
		var cached productPage
		if cache.Get(productListCacheKey, &cached) {
			metrics.CacheHits.WithLabelValues("products").Inc()
			return cached.Products, cached.Pagination, nil
		}
		metrics.CacheMisses.WithLabelValues("products").Inc()
	}

	products, pagination, err := s.store.All(page, limit, category, activeOnly)
	if err != nil {
		return nil, repositories.Pagination{}, err
	}

	if cacheable {
		cache.Set(productListCacheKey, productPage{Products: products, Pagination: pagination}, productCacheTTL)
	}
	return products, pagination, nil
}

// Create validates the type, derives the pricing chain and persists the
// product.
func (s *ProductService) Create(input ProductInput) (models.Product, error) {
	product := models.Product{
		Name:             input.Name,
		Description:      input.Description,
		SKU:              input.SKU,
		Category:         input.Category,
		Type:             input.Type,
		Unit:             input.Unit,
		Qty:              input.Qty,
		PriceUSD:         input.PriceUSD,
		ExchangeRate:     input.ExchangeRate,
		ProfitPercentage: input.ProfitPercentage,
		Active:           true,
	}
	if input.Active != nil {
		product.Active = *input.Active
	}
	product.ComputePricing()

	if err := s.store.Create(&product); err != nil {
		return models.Product{}, err
	}

	cache.Forget(productListCacheKey)
	logger.Info("product: created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// Update applies the input to an existing product and recomputes prices.
// Qty is deliberately not writable here; stock changes go through the
// inventory ledger.
func (s *ProductService) Update(id uint, input ProductInput) (models.Product, error) {
	product, err := s.store.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.SKU = input.SKU
	product.Category = input.Category
	product.Type = input.Type
	product.Unit = input.Unit
	product.PriceUSD = input.PriceUSD
	product.ExchangeRate = input.ExchangeRate
	product.ProfitPercentage = input.ProfitPercentage
	if input.Active != nil {
		product.Active = *input.Active
	}
	product.ComputePricing()

	if err := s.store.Update(&product); err != nil {
		return models.Product{}, err
	}

	cache.Forget(productListCacheKey)
	return product, nil
}

// SetQty overwrites a product's stock count. This is the admin
// correction path for stocktakes and damaged goods; quote approvals
// never use it.
func (s *ProductService) SetQty(id uint, qty int) (models.Product, error) {
	if err := s.store.SetQty(id, qty); err != nil {
		return models.Product{}, err
	}

	cache.Forget(productListCacheKey)
	logger.Info("product: stock corrected", "product_id", id, "qty", qty)
	return s.store.FindByID(id)
}

// Delete removes a product from the catalogue.
func (s *ProductService) Delete(id uint) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	cache.Forget(productListCacheKey)
	return nil
}

// AttachImage stores the uploaded image on the configured disk and saves
// its public URL on the product. The previous image, if any, is removed.
func (s *ProductService) AttachImage(id uint, filename string, content io.Reader) (models.Product, error) {
	product, err := s.store.FindByID(id)
	if err != nil {
		return models.Product{}, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return models.Product{}, &models.InvalidArgumentError{
			Field: "image", Reason: "unsupported format " + ext,
		}
	}

	path := fmt.Sprintf("products/%d/%s%s", id, uuid.NewString(), ext)
	if err := storage.PutStream(path, content); err != nil {
		return models.Product{}, err
	}

	if product.ImageURL != "" {
		if old := storagePath(product.ImageURL); old != "" {
			storage.Delete(old)
		}
	}

	product.ImageURL = storage.URL(path)
	if err := s.store.Update(&product); err != nil {
		return models.Product{}, err
	}

	cache.Forget(productListCacheKey)
	return product, nil
}

// storagePath recovers the disk path from a stored URL. Works for the
// local disk layout; S3 URLs keep the same key structure.
func storagePath(url string) string {
	idx := strings.Index(url, "products/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
