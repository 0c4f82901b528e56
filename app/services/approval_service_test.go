package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/event"
)

// fakeStockStore mimics the guarded-decrement semantics of the product
// repository with an in-memory map.
type fakeStockStore struct {
	mu       sync.Mutex
	products map[uint]*models.Product

	failReserveFor uint // product id whose Reserve always errors
}

func newFakeStockStore(products ...*models.Product) *fakeStockStore {
	s := &fakeStockStore{products: make(map[uint]*models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStockStore) Available(id uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return 0, &models.NotFoundError{Entity: "product", ID: id}
	}
	return p.Qty, nil
}

func (s *fakeStockStore) FindByIDs(ids []uint) (map[uint]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = *p
		}
	}
	return out, nil
}

func (s *fakeStockStore) Reserve(id uint, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failReserveFor {
		return fmt.Errorf("reserve exploded")
	}
	p, ok := s.products[id]
	if !ok {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	if p.Qty < qty {
		return &models.InsufficientStockError{
			ProductID: id, ProductName: p.Name, Requested: qty, Available: p.Qty,
		}
	}
	p.Qty -= qty
	return nil
}

func (s *fakeStockStore) Release(id uint, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return &models.NotFoundError{Entity: "product", ID: id}
	}
	p.Qty += qty
	return nil
}

// fakeQuoteStore holds quotes in memory and can fail the finalize write.
type fakeQuoteStore struct {
	mu           sync.Mutex
	quotes       map[uint]*models.Quote
	failFinalize bool
}

func newFakeQuoteStore(quotes ...*models.Quote) *fakeQuoteStore {
	s := &fakeQuoteStore{quotes: make(map[uint]*models.Quote)}
	for _, q := range quotes {
		s.quotes[q.ID] = q
	}
	return s
}

func (s *fakeQuoteStore) FindByID(id uint) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return models.Quote{}, &models.NotFoundError{Entity: "quote", ID: id}
	}
	return *q, nil
}

func (s *fakeQuoteStore) UpdateStatus(id uint, status models.Status, stockDeducted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFinalize {
		return fmt.Errorf("finalize write failed")
	}
	q, ok := s.quotes[id]
	if !ok {
		return &models.NotFoundError{Entity: "quote", ID: id}
	}
	q.Status = status
	q.StockDeducted = stockDeducted
	return nil
}

func product(id uint, name string, qty int) *models.Product {
	p := &models.Product{Name: name, Type: models.ProductTypeEquipment, Qty: qty}
	p.ID = id
	return p
}

func quoteWith(id uint, status models.Status, items ...models.QuoteItem) *models.Quote {
	q := &models.Quote{Code: fmt.Sprintf("COT-%08d", id), Status: status, Items: items}
	q.ID = id
	q.ComputeTotal()
	return q
}

func item(productID uint, qty int, price float64) models.QuoteItem {
	return models.QuoteItem{
		ProductID:   &productID,
		ProductName: fmt.Sprintf("product-%d", productID),
		Type:        models.ProductTypeEquipment,
		Quantity:    qty,
		UnitPrice:   price,
	}
}

func TestApproveSkipsAdHocItems(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	stock := newFakeStockStore(p1)
	adHoc := models.QuoteItem{ProductName: "Canaleta a medida", Quantity: 3, UnitPrice: 5}
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress, item(1, 4, 10), adHoc))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	got, err := svc.Approve(7)
	require.NoError(t, err)

	assert.True(t, got.StockDeducted)
	assert.Equal(t, 6, p1.Qty, "only the product-linked line deducts")
}

func TestApproveAdHocOnlyQuote(t *testing.T) {
	defer event.Flush()

	quotes := newFakeQuoteStore(quoteWith(8, models.StatusInProgress,
		models.QuoteItem{ProductName: "Visita técnica", Quantity: 1, UnitPrice: 100}))

	svc := NewApprovalService(quotes, NewInventoryService(newFakeStockStore()))

	got, err := svc.Approve(8)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestApproveDeductsStockAndFinalizes(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	p2 := product(2, "dvr", 5)
	stock := newFakeStockStore(p1, p2)
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress,
		item(1, 5, 10), item(2, 2, 20)))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	got, err := svc.Approve(7)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.StockDeducted)
	assert.Equal(t, 90.0, got.Total)
	assert.Equal(t, 5, p1.Qty)
	assert.Equal(t, 3, p2.Qty)

	persisted, _ := quotes.FindByID(7)
	assert.Equal(t, models.StatusApproved, persisted.Status)
	assert.True(t, persisted.StockDeducted)
}

func TestApproveReportsAllShortagesWithoutWriting(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 3)
	p2 := product(2, "dvr", 1)
	stock := newFakeStockStore(p1, p2)
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress,
		item(1, 5, 10), item(2, 2, 20)))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	_, err := svc.Approve(7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))

	var batch *models.InsufficientStockBatchError
	require.True(t, errors.As(err, &batch))
	require.Len(t, batch.Items, 2)
	assert.Equal(t, uint(1), batch.Items[0].ProductID)
	assert.Equal(t, 5, batch.Items[0].Requested)
	assert.Equal(t, 3, batch.Items[0].Available)
	assert.Equal(t, uint(2), batch.Items[1].ProductID)

	// Nothing changed.
	assert.Equal(t, 3, p1.Qty)
	assert.Equal(t, 1, p2.Qty)
	persisted, _ := quotes.FindByID(7)
	assert.Equal(t, models.StatusInProgress, persisted.Status)
	assert.False(t, persisted.StockDeducted)
}

func TestApproveRollsBackOnMidCommitFailure(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	p2 := product(2, "dvr", 5)
	stock := newFakeStockStore(p1, p2)
	stock.failReserveFor = 2
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress,
		item(1, 5, 10), item(2, 2, 20)))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	_, err := svc.Approve(7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPartialCommit))

	var partial *models.PartialCommitFailureError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, uint(2), partial.FailedProductID)
	assert.Equal(t, []uint{1}, partial.Released)

	// The committed reservation on product 1 was compensated.
	assert.Equal(t, 10, p1.Qty)
	assert.Equal(t, 5, p2.Qty)
	persisted, _ := quotes.FindByID(7)
	assert.Equal(t, models.StatusInProgress, persisted.Status)
}

func TestApproveRollsBackWhenFinalizeFails(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	stock := newFakeStockStore(p1)
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress, item(1, 5, 10)))
	quotes.failFinalize = true

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	_, err := svc.Approve(7)
	require.Error(t, err)
	assert.Equal(t, 10, p1.Qty)
}

func TestReApproveIsNoOp(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 5)
	stock := newFakeStockStore(p1)
	q := quoteWith(7, models.StatusApproved, item(1, 5, 10))
	q.StockDeducted = true
	quotes := newFakeQuoteStore(q)

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	got, err := svc.Approve(7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, 5, p1.Qty, "stock must not be deducted twice")
}

func TestApproveRejectsIllegalTransition(t *testing.T) {
	defer event.Flush()

	stock := newFakeStockStore(product(1, "cam", 10))
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusCompleted, item(1, 1, 10)))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	_, err := svc.Approve(7)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func TestApproveSkipsServicesAndZeroQuantities(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	stock := newFakeStockStore(p1)

	svcItem := item(2, 3, 50)
	svcItem.Type = models.ProductTypeService
	zeroItem := item(1, 0, 10)

	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress,
		item(1, 2, 10), svcItem, zeroItem))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	_, err := svc.Approve(7)
	require.NoError(t, err)
	assert.Equal(t, 8, p1.Qty)
}

func TestApproveQuoteWithNoItems(t *testing.T) {
	defer event.Flush()

	stock := newFakeStockStore()
	quotes := newFakeQuoteStore(quoteWith(7, models.StatusInProgress))

	svc := NewApprovalService(quotes, NewInventoryService(stock))

	got, err := svc.Approve(7)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.StockDeducted)
}

func TestApproveMissingQuote(t *testing.T) {
	svc := NewApprovalService(newFakeQuoteStore(), NewInventoryService(newFakeStockStore()))
	_, err := svc.Approve(99)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

// Two quotes race for the last units of the same product; exactly one
// approval may win.
func TestConcurrentApprovalsNeverOversell(t *testing.T) {
	defer event.Flush()

	for i := 0; i < 20; i++ {
		p1 := product(1, "cam", 5)
		stock := newFakeStockStore(p1)
		quotes := newFakeQuoteStore(
			quoteWith(1, models.StatusInProgress, item(1, 4, 10)),
			quoteWith(2, models.StatusInProgress, item(1, 4, 10)),
		)
		svc := NewApprovalService(quotes, NewInventoryService(stock))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, errs[n] = svc.Approve(uint(n + 1))
			}(n)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				failures++
				assert.True(t, errors.Is(err, models.ErrInsufficientStock) ||
					errors.Is(err, models.ErrPartialCommit))
			}
		}
		require.Equal(t, 1, failures, "exactly one approval must lose the race")
		assert.Equal(t, 1, p1.Qty)
		assert.GreaterOrEqual(t, p1.Qty, 0, "stock must never go negative")
	}
}
