package services

// Event names fired through pkg/event. The dashboard SSE stream listens
// to all of them to push live updates.
const (
	EventStockReserved      = "stock.reserved"
	EventStockReleased      = "stock.released"
	EventQuoteApproved      = "quote.approved"
	EventQuoteStatusChanged = "quote.status_changed"
	EventContactReceived    = "contact.received"
)

// StockEvent is the payload for stock.reserved and stock.released.
type StockEvent struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// QuoteEvent is the payload for the quote lifecycle events.
type QuoteEvent struct {
	QuoteID uint   `json:"quoteId"`
	Code    string `json:"code"`
	Status  string `json:"status"`
	Total   float64 `json:"total"`
}
