package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
)

type staticCounter int64

func (c staticCounter) CountActive() (int64, error) { return int64(c), nil }

type fakeDashboardStore struct {
	total    int64
	revenue  float64
	byStatus map[models.Status]int64
	latest   []models.Quote
}

func (s *fakeDashboardStore) Stats() (int64, float64, error) {
	return s.total, s.revenue, nil
}

func (s *fakeDashboardStore) CountByStatus(status models.Status) (int64, error) {
	return s.byStatus[status], nil
}

func (s *fakeDashboardStore) Latest(n int) ([]models.Quote, error) {
	if len(s.latest) > n {
		return s.latest[:n], nil
	}
	return s.latest, nil
}

func TestDashboardStats(t *testing.T) {
	quotes := &fakeDashboardStore{
		total:   12,
		revenue: 4500.50,
		byStatus: map[models.Status]int64{
			models.StatusInProgress: 3,
			models.StatusApproved:   2,
		},
		latest: []models.Quote{*quoteWith(1, models.StatusDraft)},
	}

	svc := NewDashboardService(quotes, staticCounter(4), staticCounter(31))

	got, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.TotalQuotes)
	assert.Equal(t, 4500.50, got.TotalRevenue)
	assert.Equal(t, int64(3), got.PendingQuotes)
	assert.Equal(t, int64(2), got.ApprovedQuotes)
	assert.Equal(t, int64(4), got.ActiveUsers)
	assert.Equal(t, int64(31), got.ActiveProducts)
	assert.Len(t, got.LastQuotes, 1)
}
