package services

import (
	"github.com/duolink/cotizador/app/models"
)

// DashboardStore aggregates the queries the dashboard needs.
type DashboardStore interface {
	Stats() (total int64, revenue float64, err error)
	CountByStatus(status models.Status) (int64, error)
	Latest(n int) ([]models.Quote, error)
}

// ActiveCounter reports how many records of a store are enabled. Both
// the user and the product repositories satisfy it.
type ActiveCounter interface {
	CountActive() (int64, error)
}

// DashboardStats is the payload for the admin dashboard and its SSE feed.
type DashboardStats struct {
	TotalQuotes    int64          `json:"totalQuotes"`
	TotalRevenue   float64        `json:"totalRevenue"`
	PendingQuotes  int64          `json:"pendingQuotes"`
	ApprovedQuotes int64          `json:"approvedQuotes"`
	ActiveProducts int64          `json:"activeProducts"`
	ActiveUsers    int64          `json:"activeUsers"`
	LastQuotes     []models.Quote `json:"lastQuotes"`
}

// DashboardService assembles the stats snapshot.
type DashboardService struct {
	quotes   DashboardStore
	users    ActiveCounter
	products ActiveCounter
}

func NewDashboardService(quotes DashboardStore, users, products ActiveCounter) *DashboardService {
	return &DashboardService{quotes: quotes, users: users, products: products}
}

// Stats gathers the current numbers. Revenue only counts approved and
// completed quotes.
func (s *DashboardService) Stats() (DashboardStats, error) {
	total, revenue, err := s.quotes.Stats()
	if err != nil {
		return DashboardStats{}, err
	}

	pending, err := s.quotes.CountByStatus(models.StatusInProgress)
	if err != nil {
		return DashboardStats{}, err
	}
	approved, err := s.quotes.CountByStatus(models.StatusApproved)
	if err != nil {
		return DashboardStats{}, err
	}
	activeUsers, err := s.users.CountActive()
	if err != nil {
		return DashboardStats{}, err
	}
	activeProducts, err := s.products.CountActive()
	if err != nil {
		return DashboardStats{}, err
	}
	last, err := s.quotes.Latest(5)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalQuotes:    total,
		TotalRevenue:   revenue,
		PendingQuotes:  pending,
		ApprovedQuotes: approved,
		ActiveProducts: activeProducts,
		ActiveUsers:    activeUsers,
		LastQuotes:     last,
	}, nil
}
