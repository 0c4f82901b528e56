package models

import (
	"math"

	"gorm.io/gorm"
)

// Status is the quote lifecycle state. Only the transition into
// StatusApproved has side effects (stock deduction).
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
)

// allowedTransitions is the closed set of legal status edges. Rejected
// quotes can be reopened; approved quotes can only move to completed so
// the applied stock deduction is never silently abandoned.
var allowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusDraft, StatusApproved, StatusRejected},
	StatusApproved:   {StatusCompleted},
	StatusRejected:   {StatusInProgress},
	StatusCompleted:  {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target is legal.
// A same-status transition is always allowed as a no-op.
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// QuoteItem is one line of a quote. Unit price and category are copied
// from the product at insertion time so the quote stays stable when the
// catalogue changes later. ProductID is nil for ad-hoc lines typed in by
// hand; those carry their own name and price and never touch stock.
type QuoteItem struct {
	gorm.Model
	QuoteID     uint    `gorm:"not null;index"     json:"quoteId"`
	ProductID   *uint   `gorm:"index"              json:"productId,omitempty"`
	ProductName string  `gorm:"size:255;not null"  json:"productName"`
	Category    string  `gorm:"size:120"           json:"category"`
	Type        string  `gorm:"size:30"            json:"type"`
	Unit        string  `gorm:"size:50"            json:"unit"`
	Quantity    int     `gorm:"not null;default:0" json:"quantity"`
	UnitPrice   float64 `gorm:"not null;default:0" json:"unitPrice"`
}

// Subtotal is the line total.
func (i *QuoteItem) Subtotal() float64 {
	return round2(float64(i.Quantity) * i.UnitPrice)
}

// Quote is the aggregate root of the quotation workflow.
type Quote struct {
	gorm.Model
	Code       string      `gorm:"size:64;uniqueIndex;not null" json:"code"`
	ClientID   *uint       `gorm:"index"                        json:"clientId,omitempty"`
	ClientName string      `gorm:"size:255"                     json:"clientName"`
	Status     Status      `gorm:"size:30;not null;default:draft" json:"status"`
	Total      float64     `gorm:"not null;default:0"           json:"total"`
	Notes      string      `gorm:"type:text"                    json:"notes"`
	CreatedBy  uint        `gorm:"index"                        json:"createdBy"`
	Items      []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`

	// StockDeducted is set together with Status = approved in one update
	// so re-approval can be detected and skipped.
	StockDeducted bool `gorm:"not null;default:false" json:"stockDeducted"`
}

// ComputeTotal recalculates Total from the line items and returns it.
func (q *Quote) ComputeTotal() float64 {
	var total float64
	for i := range q.Items {
		total += q.Items[i].Subtotal()
	}
	q.Total = round2(total)
	return q.Total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
