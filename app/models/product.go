package models

import "gorm.io/gorm"

// Product types. Services never hold stock; only equipment quantities go
// through the inventory ledger.
const (
	ProductTypeEquipment = "equipo"
	ProductTypeService   = "servicio"
)

// Product is a catalogue entry with its available quantity. Qty is the
// single source of truth for stock; it is only changed through the
// ledger's Reserve and Release operations once a product is in use.
type Product struct {
	gorm.Model
	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text"               json:"description"`
	SKU         string `gorm:"size:100;uniqueIndex"    json:"sku"`
	Category    string `gorm:"size:120;index"          json:"category"`
	Type        string `gorm:"size:30;not null;default:equipo" json:"type"`
	Unit        string `gorm:"size:50"                 json:"unit"`
	ImageURL    string `gorm:"size:500"                json:"imageUrl"`
	Active      bool   `gorm:"not null;default:true"   json:"active"`
	Qty         int    `gorm:"not null;default:0"      json:"qty"`

	// Pricing. SalePrice is canonical; BasePrice and LegacyPrice remain
	// readable for records written before the pricing rework.
	PriceUSD         float64 `gorm:"not null;default:0" json:"priceUsd"`
	ExchangeRate     float64 `gorm:"not null;default:0" json:"exchangeRate"`
	PurchasePrice    float64 `gorm:"not null;default:0" json:"purchasePrice"`
	ProfitPercentage float64 `gorm:"not null;default:0" json:"profitPercentage"`
	Profit           float64 `gorm:"not null;default:0" json:"profit"`
	SalePrice        float64 `gorm:"not null;default:0" json:"salePrice"`
	BasePrice        float64 `gorm:"not null;default:0" json:"basePrice,omitempty"`
	LegacyPrice      float64 `gorm:"column:price;not null;default:0" json:"price,omitempty"`
}

// Price returns the effective unit price, preferring the canonical
// SalePrice and falling back through the legacy fields.
func (p *Product) Price() float64 {
	switch {
	case p.SalePrice != 0:
		return p.SalePrice
	case p.BasePrice != 0:
		return p.BasePrice
	default:
		return p.LegacyPrice
	}
}

// ComputePricing derives the local-currency pricing chain from the USD
// purchase price and the configured margin.
func (p *Product) ComputePricing() {
	p.PurchasePrice = round2(p.PriceUSD * p.ExchangeRate)
	p.Profit = round2(p.PurchasePrice * p.ProfitPercentage / 100)
	p.SalePrice = round2(p.PurchasePrice + p.Profit)
}

// IsEquipment reports whether the product carries stock.
func (p *Product) IsEquipment() bool { return p.Type != ProductTypeService }
