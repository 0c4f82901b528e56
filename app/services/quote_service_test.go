package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/event"
)

// fullFakeQuoteStore extends the status-only fake with CRUD.
type fullFakeQuoteStore struct {
	*fakeQuoteStore
	nextID uint
}

func newFullFakeQuoteStore(quotes ...*models.Quote) *fullFakeQuoteStore {
	return &fullFakeQuoteStore{fakeQuoteStore: newFakeQuoteStore(quotes...), nextID: 100}
}

func (s *fullFakeQuoteStore) FindByCode(code string) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.quotes {
		if q.Code == code {
			return *q, nil
		}
	}
	return models.Quote{}, models.ErrNotFound
}

func (s *fullFakeQuoteStore) All(page, limit int, status models.Status) ([]models.Quote, repositories.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Quote
	for _, q := range s.quotes {
		if status == "" || q.Status == status {
			out = append(out, *q)
		}
	}
	return out, repositories.Pagination{Page: page, Limit: limit, Total: int64(len(out)), LastPage: 1}, nil
}

func (s *fullFakeQuoteStore) Create(q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	q.ID = s.nextID
	s.quotes[q.ID] = q
	return nil
}

func (s *fullFakeQuoteStore) Update(q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[q.ID]; !ok {
		return &models.NotFoundError{Entity: "quote", ID: q.ID}
	}
	s.quotes[q.ID] = q
	return nil
}

func (s *fullFakeQuoteStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[id]; !ok {
		return &models.NotFoundError{Entity: "quote", ID: id}
	}
	delete(s.quotes, id)
	return nil
}

func newQuoteService(quotes *fullFakeQuoteStore, stock *fakeStockStore) *QuoteService {
	inventory := NewInventoryService(stock)
	approval := NewApprovalService(quotes, inventory)
	return NewQuoteService(quotes, stock, approval)
}

func TestCreateQuoteSnapshotsProducts(t *testing.T) {
	defer event.Flush()

	cam := product(1, "Cámara Domo", 10)
	cam.SalePrice = 150
	cam.Category = "Cámaras"
	cam.Unit = "und"
	stock := newFakeStockStore(cam)
	quotes := newFullFakeQuoteStore()
	svc := newQuoteService(quotes, stock)

	got, err := svc.Create(QuoteInput{
		ClientName: "Constructora Andina",
		Items:      []QuoteItemInput{{ProductID: 1, Quantity: 2}},
	}, 9)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.Code, "COT-"))
	assert.Equal(t, models.StatusDraft, got.Status)
	assert.Equal(t, uint(9), got.CreatedBy)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cámara Domo", got.Items[0].ProductName)
	assert.Equal(t, "Cámaras", got.Items[0].Category)
	assert.Equal(t, 150.0, got.Items[0].UnitPrice)
	assert.Equal(t, 300.0, got.Total)
}

func TestCreateQuoteAdHocItems(t *testing.T) {
	defer event.Flush()

	svc := newQuoteService(newFullFakeQuoteStore(), newFakeStockStore())

	got, err := svc.Create(QuoteInput{
		ClientName: "Constructora Andina",
		Items: []QuoteItemInput{
			{Name: "Cable HDMI especial", Unit: "m", UnitPrice: 12.5, Quantity: 4},
			{Quantity: 2},
		},
	}, 1)
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Nil(t, got.Items[0].ProductID)
	assert.Equal(t, "Cable HDMI especial", got.Items[0].ProductName)
	assert.Nil(t, got.Items[1].ProductID)
	assert.Equal(t, 50.0, got.Total)
}

func TestCreateQuoteUnknownProduct(t *testing.T) {
	svc := newQuoteService(newFullFakeQuoteStore(), newFakeStockStore())
	_, err := svc.Create(QuoteInput{
		ClientName: "X",
		Items:      []QuoteItemInput{{ProductID: 42, Quantity: 1}},
	}, 1)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSetStatusLegalEdge(t *testing.T) {
	defer event.Flush()

	quotes := newFullFakeQuoteStore(quoteWith(7, models.StatusDraft))
	svc := newQuoteService(quotes, newFakeStockStore())

	got, err := svc.SetStatus(7, models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
}

func TestSetStatusIllegalEdge(t *testing.T) {
	quotes := newFullFakeQuoteStore(quoteWith(7, models.StatusDraft))
	svc := newQuoteService(quotes, newFakeStockStore())

	_, err := svc.SetStatus(7, models.StatusCompleted)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func TestSetStatusUnknownStatus(t *testing.T) {
	quotes := newFullFakeQuoteStore(quoteWith(7, models.StatusDraft))
	svc := newQuoteService(quotes, newFakeStockStore())

	_, err := svc.SetStatus(7, models.Status("aprobado"))
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))
}

func TestSetStatusSameStatusIsNoOp(t *testing.T) {
	quotes := newFullFakeQuoteStore(quoteWith(7, models.StatusDraft))
	svc := newQuoteService(quotes, newFakeStockStore())

	got, err := svc.SetStatus(7, models.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)
}

func TestSetStatusApprovedRunsWorkflow(t *testing.T) {
	defer event.Flush()

	p1 := product(1, "cam", 10)
	quotes := newFullFakeQuoteStore(quoteWith(7, models.StatusInProgress, item(1, 4, 10)))
	svc := newQuoteService(quotes, newFakeStockStore(p1))

	got, err := svc.SetStatus(7, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.True(t, got.StockDeducted)
	assert.Equal(t, 6, p1.Qty)
}

func TestUpdateFrozenAfterDeduction(t *testing.T) {
	q := quoteWith(7, models.StatusApproved, item(1, 1, 10))
	q.StockDeducted = true
	quotes := newFullFakeQuoteStore(q)
	svc := newQuoteService(quotes, newFakeStockStore(product(1, "cam", 5)))

	_, err := svc.Update(7, QuoteInput{ClientName: "X"})
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))

	err = svc.Delete(7)
	assert.True(t, errors.Is(err, models.ErrInvalidTransition))
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc := newQuoteService(newFullFakeQuoteStore(), newFakeStockStore())
	_, _, err := svc.List(1, 10, "bogus")
	assert.True(t, errors.Is(err, models.ErrInvalidArgument))
}
