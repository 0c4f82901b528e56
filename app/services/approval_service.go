package services

import (
	"sort"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/event"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/metrics"
)

// QuoteStatusStore is the slice of the quote repository the approval
// workflow needs.
type QuoteStatusStore interface {
	FindByID(id uint) (models.Quote, error)
	UpdateStatus(id uint, status models.Status, stockDeducted bool) error
}

// ApprovalService moves quotes into the approved status. Approval is the
// only transition with side effects: it deducts the stock of every
// equipment line item, all or nothing.
type ApprovalService struct {
	quotes    QuoteStatusStore
	inventory *InventoryService
}

func NewApprovalService(quotes QuoteStatusStore, inventory *InventoryService) *ApprovalService {
	return &ApprovalService{quotes: quotes, inventory: inventory}
}

// Approve runs the two-phase approval workflow:
//
//  1. Validate: read every line item's availability and collect all
//     shortages. Nothing is written; on any shortage the caller gets the
//     complete list and both stock and quote are untouched.
//  2. Commit: reserve each item in line order through the ledger's
//     guarded decrement. If a reservation loses a race mid-commit, the
//     already-applied reservations are released and the quote stays in
//     its prior status.
//  3. Finalize: persist status = approved and stockDeducted = true in a
//     single update. If that write fails, the reservations are released
//     as well.
//
// Re-approving a quote that already carries the deduction is a no-op.
func (s *ApprovalService) Approve(quoteID uint) (models.Quote, error) {
	quote, err := s.quotes.FindByID(quoteID)
	if err != nil {
		return models.Quote{}, err
	}

	if quote.Status == models.StatusApproved && quote.StockDeducted {
		logger.Info("approval: already approved, skipping", "quote_id", quoteID)
		return quote, nil
	}

	if !quote.Status.CanTransitionTo(models.StatusApproved) {
		return models.Quote{}, &models.InvalidTransitionError{
			From: quote.Status, To: models.StatusApproved,
		}
	}

	deductions := stockDeductions(quote.Items)

	// Phase 1: validate everything before touching anything.
	requests := make(map[uint]int, len(deductions))
	for _, d := range deductions {
		requests[d.productID] += d.qty
	}
	shortages, err := s.inventory.CheckBatch(requests)
	if err != nil {
		metrics.QuotesApproved.WithLabelValues("error").Inc()
		return models.Quote{}, err
	}
	if len(shortages) > 0 {
		sort.Slice(shortages, func(i, j int) bool {
			return shortages[i].ProductID < shortages[j].ProductID
		})
		metrics.QuotesApproved.WithLabelValues("insufficient_stock").Inc()
		logger.Warn("approval: insufficient stock",
			"quote_id", quoteID, "shortages", len(shortages))
		return models.Quote{}, &models.InsufficientStockBatchError{Items: shortages}
	}

	// Phase 2: commit reservations in line order.
	committed := make([]deduction, 0, len(deductions))
	for _, d := range deductions {
		if err := s.inventory.Reserve(d.productID, d.qty); err != nil {
			released := s.rollback(committed)
			metrics.QuotesApproved.WithLabelValues("partial_commit").Inc()
			logger.Error("approval: commit failed, reservations released",
				"quote_id", quoteID, "product_id", d.productID, "error", err)
			return models.Quote{}, &models.PartialCommitFailureError{
				FailedProductID: d.productID,
				Released:        released,
				Cause:           err,
			}
		}
		committed = append(committed, d)
	}

	// Phase 3: finalize status and deduction flag together.
	if err := s.quotes.UpdateStatus(quoteID, models.StatusApproved, true); err != nil {
		released := s.rollback(committed)
		metrics.QuotesApproved.WithLabelValues("error").Inc()
		logger.Error("approval: finalize failed, reservations released",
			"quote_id", quoteID, "released", len(released), "error", err)
		return models.Quote{}, err
	}

	quote.Status = models.StatusApproved
	quote.StockDeducted = true

	metrics.QuotesApproved.WithLabelValues("approved").Inc()
	event.FireAsync(EventQuoteApproved, QuoteEvent{
		QuoteID: quote.ID, Code: quote.Code,
		Status: string(quote.Status), Total: quote.Total,
	})
	logger.Info("approval: quote approved",
		"quote_id", quoteID, "items", len(deductions), "total", quote.Total)
	return quote, nil
}

// rollback releases committed reservations in reverse order and returns
// the product ids it released. Release failures are logged and skipped;
// the remaining compensations still run.
func (s *ApprovalService) rollback(committed []deduction) []uint {
	released := make([]uint, 0, len(committed))
	for i := len(committed) - 1; i >= 0; i-- {
		d := committed[i]
		if err := s.inventory.Release(d.productID, d.qty); err != nil {
			logger.Error("approval: release failed during rollback",
				"product_id", d.productID, "qty", d.qty, "error", err)
			continue
		}
		released = append(released, d.productID)
	}
	return released
}

type deduction struct {
	productID uint
	qty       int
}

// stockDeductions extracts the ledger-relevant lines: product-linked
// equipment items with a positive quantity. Ad-hoc lines, services and
// zero-quantity lines never touch stock.
func stockDeductions(items []models.QuoteItem) []deduction {
	out := make([]deduction, 0, len(items))
	for _, item := range items {
		if item.ProductID == nil || item.Type == models.ProductTypeService || item.Quantity <= 0 {
			continue
		}
		out = append(out, deduction{productID: *item.ProductID, qty: item.Quantity})
	}
	return out
}
