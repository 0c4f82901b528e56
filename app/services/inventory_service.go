package services

import (
	"errors"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/event"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/metrics"
)

// StockStore is the persistence surface the inventory ledger needs.
// *repositories.ProductRepository satisfies it; tests substitute fakes.
type StockStore interface {
	Available(id uint) (int, error)
	FindByIDs(ids []uint) (map[uint]models.Product, error)
	Reserve(id uint, qty int) error
	Release(id uint, qty int) error
}

// InventoryService is the stock ledger. Every quantity change flows
// through Reserve and Release so the non-negative invariant holds at a
// single choke point.
type InventoryService struct {
	store StockStore
}

func NewInventoryService(store StockStore) *InventoryService {
	return &InventoryService{store: store}
}

// Available returns the current stock of one product.
func (s *InventoryService) Available(productID uint) (int, error) {
	return s.store.Available(productID)
}

// Reserve deducts qty from the product's stock. The store performs the
// deduction as a guarded atomic update, so concurrent reservations that
// would together overdraw the stock fail cleanly instead of racing.
func (s *InventoryService) Reserve(productID uint, qty int) error {
	if err := s.store.Reserve(productID, qty); err != nil {
		if errors.Is(err, models.ErrInsufficientStock) {
			metrics.InsufficientStock.Inc()
		}
		return err
	}

	metrics.StockReservations.WithLabelValues("reserve").Inc()
	event.FireAsync(EventStockReserved, StockEvent{ProductID: productID, Quantity: qty})
	logger.Debug("inventory: reserved", "product_id", productID, "qty", qty)
	return nil
}

// Release returns qty units to the product's stock, compensating a prior
// Reserve.
func (s *InventoryService) Release(productID uint, qty int) error {
	if err := s.store.Release(productID, qty); err != nil {
		return err
	}

	metrics.StockReservations.WithLabelValues("release").Inc()
	event.FireAsync(EventStockReleased, StockEvent{ProductID: productID, Quantity: qty})
	logger.Debug("inventory: released", "product_id", productID, "qty", qty)
	return nil
}

// CheckBatch validates that every requested quantity is currently
// coverable. It reads all products in one query and returns the complete
// list of shortages rather than stopping at the first one. A nil product
// entry in the result means the id does not exist.
func (s *InventoryService) CheckBatch(requests map[uint]int) ([]models.InsufficientStockError, error) {
	if len(requests) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(requests))
	for id := range requests {
		ids = append(ids, id)
	}

	products, err := s.store.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	var shortages []models.InsufficientStockError
	for id, qty := range requests {
		product, ok := products[id]
		if !ok {
			return nil, &models.NotFoundError{Entity: "product", ID: id}
		}
		if product.Qty < qty {
			shortages = append(shortages, models.InsufficientStockError{
				ProductID:   id,
				ProductName: product.Name,
				Requested:   qty,
				Available:   product.Qty,
			})
		}
	}
	return shortages, nil
}
