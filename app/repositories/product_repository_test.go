package repositories

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/database"
)

func testDB(t *testing.T) *ProductRepository {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// A shared in-memory database only exists on one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return NewProductRepository(db)
}

func seedProduct(t *testing.T, repo *ProductRepository, name string, qty int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Type: models.ProductTypeEquipment, Qty: qty, Active: true}
	require.NoError(t, repo.Create(&p))
	return p
}

func TestReserveDeductsStock(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 10)

	require.NoError(t, repo.Reserve(p.ID, 4))

	got, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Qty)
}

func TestReserveRejectsShortage(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 3)

	err := repo.Reserve(p.ID, 5)
	require.Error(t, err)

	var shortage *models.InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	assert.Equal(t, 5, shortage.Requested)
	assert.Equal(t, 3, shortage.Available)

	got, _ := repo.FindByID(p.ID)
	assert.Equal(t, 3, got.Qty, "failed reservation must not change stock")
}

func TestReserveExactRemainder(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 5)

	require.NoError(t, repo.Reserve(p.ID, 5))
	got, _ := repo.FindByID(p.ID)
	assert.Equal(t, 0, got.Qty)

	err := repo.Reserve(p.ID, 1)
	assert.True(t, errors.Is(err, models.ErrInsufficientStock))
}

func TestReserveMissingProduct(t *testing.T) {
	repo := testDB(t)
	err := repo.Reserve(999, 1)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestReserveRejectsNonPositiveQty(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 5)

	assert.True(t, errors.Is(repo.Reserve(p.ID, 0), models.ErrInvalidArgument))
	assert.True(t, errors.Is(repo.Reserve(p.ID, -3), models.ErrInvalidArgument))
}

func TestReleaseRestoresStock(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 10)

	require.NoError(t, repo.Reserve(p.ID, 4))
	require.NoError(t, repo.Release(p.ID, 4))

	got, _ := repo.FindByID(p.ID)
	assert.Equal(t, 10, got.Qty)
}

func TestSetQtyOverwritesStock(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 10)

	require.NoError(t, repo.SetQty(p.ID, 42))

	got, _ := repo.FindByID(p.ID)
	assert.Equal(t, 42, got.Qty)
}

func TestSetQtyRejectsNegative(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 10)

	assert.True(t, errors.Is(repo.SetQty(p.ID, -1), models.ErrInvalidArgument))

	got, _ := repo.FindByID(p.ID)
	assert.Equal(t, 10, got.Qty)
}

func TestSetQtyMissingProduct(t *testing.T) {
	repo := testDB(t)
	assert.ErrorIs(t, repo.SetQty(99, 5), models.ErrNotFound)
}

func TestConcurrentReservesNeverGoNegative(t *testing.T) {
	repo := testDB(t)
	p := seedProduct(t, repo, "cam", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Reserve(p.ID, 3); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, _ := repo.FindByID(p.ID)
	assert.GreaterOrEqual(t, got.Qty, 0)
	assert.Equal(t, 10-3*succeeded, got.Qty)
	assert.LessOrEqual(t, succeeded, 3)
}
