package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/event"
	"github.com/duolink/cotizador/pkg/logger"
)

// QuoteStore is the persistence surface for quote CRUD.
type QuoteStore interface {
	QuoteStatusStore
	FindByCode(code string) (models.Quote, error)
	All(page, limit int, status models.Status) ([]models.Quote, repositories.Pagination, error)
	Create(quote *models.Quote) error
	Update(quote *models.Quote) error
	Delete(id uint) error
}

// ProductCatalog provides the product snapshots copied into quote lines.
type ProductCatalog interface {
	FindByIDs(ids []uint) (map[uint]models.Product, error)
}

// QuoteItemInput is one requested line when creating or updating a
// quote. A zero ProductID makes the line ad-hoc: the caller supplies the
// name and price directly and the line bypasses the stock ledger.
type QuoteItemInput struct {
	ProductID uint    `json:"productId"`
	Name      string  `json:"name"      validate:"nullable|max:255"`
	Unit      string  `json:"unit"      validate:"nullable|max:50"`
	Category  string  `json:"category"  validate:"nullable|max:120"`
	UnitPrice float64 `json:"unitPrice" validate:"gte:0"`
	Quantity  int     `json:"quantity"  validate:"gte:0"`
}

// QuoteInput is the request body for creating or updating a quote.
type QuoteInput struct {
	ClientID   *uint            `json:"clientId"`
	ClientName string           `json:"clientName" validate:"required|max:255"`
	Notes      string           `json:"notes"      validate:"nullable"`
	Items      []QuoteItemInput `json:"items"`
}

// QuoteService manages the quote lifecycle. Approval is delegated to the
// ApprovalService; every other transition is a plain status write guarded
// by the transition table.
type QuoteService struct {
	quotes   QuoteStore
	products ProductCatalog
	approval *ApprovalService
}

func NewQuoteService(quotes QuoteStore, products ProductCatalog, approval *ApprovalService) *QuoteService {
	return &QuoteService{quotes: quotes, products: products, approval: approval}
}

// Find loads one quote with its items.
func (s *QuoteService) Find(id uint) (models.Quote, error) {
	return s.quotes.FindByID(id)
}

// List pages through quotes, optionally filtered by status. An unknown
// status string is rejected before hitting the database.
func (s *QuoteService) List(page, limit int, status string) ([]models.Quote, repositories.Pagination, error) {
	st := models.Status(status)
	if status != "" && !st.Valid() {
		return nil, repositories.Pagination{}, &models.InvalidArgumentError{
			Field: "status", Reason: "unknown status " + status,
		}
	}
	return s.quotes.All(page, limit, st)
}

// Create builds a quote in draft from the requested lines. Product name,
// category, type and unit price are snapshotted from the catalogue at
// this moment.
func (s *QuoteService) Create(input QuoteInput, createdBy uint) (models.Quote, error) {
	items, err := s.buildItems(input.Items)
	if err != nil {
		return models.Quote{}, err
	}

	quote := models.Quote{
		Code:       newQuoteCode(),
		ClientID:   input.ClientID,
		ClientName: input.ClientName,
		Notes:      input.Notes,
		Status:     models.StatusDraft,
		CreatedBy:  createdBy,
		Items:      items,
	}
	quote.ComputeTotal()

	if err := s.quotes.Create(&quote); err != nil {
		return models.Quote{}, err
	}

	logger.Info("quote: created", "quote_id", quote.ID, "code", quote.Code, "items", len(items))
	return quote, nil
}

// Update replaces the quote's client data and line items and recomputes
// the total. Quotes that already carry a stock deduction are frozen.
func (s *QuoteService) Update(id uint, input QuoteInput) (models.Quote, error) {
	quote, err := s.quotes.FindByID(id)
	if err != nil {
		return models.Quote{}, err
	}
	if quote.StockDeducted {
		return models.Quote{}, &models.InvalidTransitionError{From: quote.Status, To: quote.Status}
	}

	items, err := s.buildItems(input.Items)
	if err != nil {
		return models.Quote{}, err
	}
	for i := range items {
		items[i].QuoteID = quote.ID
	}

	quote.ClientID = input.ClientID
	quote.ClientName = input.ClientName
	quote.Notes = input.Notes
	quote.Items = items
	quote.ComputeTotal()

	if err := s.quotes.Update(&quote); err != nil {
		return models.Quote{}, err
	}
	return quote, nil
}

// Delete removes a quote. Approved quotes cannot be deleted while their
// deduction is applied.
func (s *QuoteService) Delete(id uint) error {
	quote, err := s.quotes.FindByID(id)
	if err != nil {
		return err
	}
	if quote.StockDeducted {
		return &models.InvalidTransitionError{From: quote.Status, To: quote.Status}
	}
	return s.quotes.Delete(id)
}

// SetStatus moves the quote to target. Entering approved runs the full
// two-phase workflow; all other edges are validated against the
// transition table and persisted directly. A same-status request is a
// no-op.
func (s *QuoteService) SetStatus(id uint, target models.Status) (models.Quote, error) {
	if !target.Valid() {
		return models.Quote{}, &models.InvalidArgumentError{
			Field: "status", Reason: "unknown status " + string(target),
		}
	}

	if target == models.StatusApproved {
		return s.approval.Approve(id)
	}

	quote, err := s.quotes.FindByID(id)
	if err != nil {
		return models.Quote{}, err
	}
	if quote.Status == target {
		return quote, nil
	}
	if !quote.Status.CanTransitionTo(target) {
		return models.Quote{}, &models.InvalidTransitionError{From: quote.Status, To: target}
	}

	if err := s.quotes.UpdateStatus(id, target, quote.StockDeducted); err != nil {
		return models.Quote{}, err
	}
	quote.Status = target

	event.FireAsync(EventQuoteStatusChanged, QuoteEvent{
		QuoteID: quote.ID, Code: quote.Code,
		Status: string(target), Total: quote.Total,
	})
	logger.Info("quote: status changed", "quote_id", id, "status", target)
	return quote, nil
}

func (s *QuoteService) buildItems(inputs []QuoteItemInput) ([]models.QuoteItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity < 0 {
			return nil, &models.InvalidArgumentError{Field: "quantity", Reason: "must not be negative"}
		}
		if in.UnitPrice < 0 {
			return nil, &models.InvalidArgumentError{Field: "unitPrice", Reason: "must not be negative"}
		}
		if in.ProductID != 0 {
			ids = append(ids, in.ProductID)
		}
	}

	var products map[uint]models.Product
	if len(ids) > 0 {
		var err error
		products, err = s.products.FindByIDs(ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]models.QuoteItem, 0, len(inputs))
	for _, in := range inputs {
		if in.ProductID == 0 {
			// Ad-hoc line: everything comes from the caller.
			items = append(items, models.QuoteItem{
				ProductName: in.Name,
				Category:    in.Category,
				Unit:        in.Unit,
				Quantity:    in.Quantity,
				UnitPrice:   in.UnitPrice,
			})
			continue
		}

		product, ok := products[in.ProductID]
		if !ok {
			return nil, &models.NotFoundError{Entity: "product", ID: in.ProductID}
		}
		pid := product.ID
		items = append(items, models.QuoteItem{
			ProductID:   &pid,
			ProductName: product.Name,
			Category:    product.Category,
			Type:        product.Type,
			Unit:        product.Unit,
			Quantity:    in.Quantity,
			UnitPrice:   product.Price(),
		})
	}
	return items, nil
}

// newQuoteCode mints a public quote code like COT-3F2A9B1C.
func newQuoteCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "COT-" + id[:8]
}
