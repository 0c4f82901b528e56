package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	q := Quote{Items: []QuoteItem{
		{Quantity: 5, UnitPrice: 10},
		{Quantity: 2, UnitPrice: 20},
	}}
	assert.Equal(t, 90.0, q.ComputeTotal())
	assert.Equal(t, 90.0, q.Total)
}

func TestComputeTotalRoundsToCents(t *testing.T) {
	q := Quote{Items: []QuoteItem{
		{Quantity: 3, UnitPrice: 0.1},
	}}
	assert.Equal(t, 0.3, q.ComputeTotal())
}

func TestComputeTotalEmpty(t *testing.T) {
	q := Quote{}
	assert.Equal(t, 0.0, q.ComputeTotal())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusInProgress, StatusApproved, StatusRejected, StatusCompleted} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Status("pendiente").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusInProgress, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusCompleted, false},
		{StatusInProgress, StatusApproved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusDraft, true},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusDraft, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusInProgress, true},
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusDraft, false},
		{StatusCompleted, StatusApproved, false},
		// same-status is a no-op, always legal
		{StatusApproved, StatusApproved, true},
		{StatusDraft, StatusDraft, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestProductPricePrecedence(t *testing.T) {
	p := Product{SalePrice: 120, BasePrice: 100, LegacyPrice: 80}
	assert.Equal(t, 120.0, p.Price())

	p = Product{BasePrice: 100, LegacyPrice: 80}
	assert.Equal(t, 100.0, p.Price())

	p = Product{LegacyPrice: 80}
	assert.Equal(t, 80.0, p.Price())
}

func TestProductComputePricing(t *testing.T) {
	p := Product{PriceUSD: 100, ExchangeRate: 3.75, ProfitPercentage: 20}
	p.ComputePricing()
	assert.Equal(t, 375.0, p.PurchasePrice)
	assert.Equal(t, 75.0, p.Profit)
	assert.Equal(t, 450.0, p.SalePrice)
}

func TestQuoteItemSubtotal(t *testing.T) {
	i := QuoteItem{Quantity: 3, UnitPrice: 33.34}
	assert.InDelta(t, 100.02, i.Subtotal(), 0.001)
}
