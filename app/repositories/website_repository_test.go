package repositories

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/pkg/database"
)

func websiteTestDB(t *testing.T) *WebsiteRepository {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)

	// A shared in-memory database only exists on one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.WebsiteSection{}, &models.PublicService{}))
	return NewWebsiteRepository(db)
}

func TestUpsertSectionCreatesThenUpdates(t *testing.T) {
	repo := websiteTestDB(t)

	first, err := repo.UpsertSection(models.WebsiteSectionHome,
		json.RawMessage(`{"hero_title":"Protege lo que más importa"}`))
	require.NoError(t, err)

	second, err := repo.UpsertSection(models.WebsiteSectionHome,
		json.RawMessage(`{"hero_title":"Nuevo título"}`))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same section must stay one row")

	sections, err := repo.Sections()
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.JSONEq(t, `{"hero_title":"Nuevo título"}`, string(sections[0].Content))
}

func TestPublicServicesOrderAndVisibility(t *testing.T) {
	repo := websiteTestDB(t)

	hidden := models.PublicService{Title: "Mantenimiento", Order: 1, Active: false}
	second := models.PublicService{Title: "Instalación CCTV", Order: 2, Active: true}
	first := models.PublicService{Title: "Asesoría", Order: 0, Active: true}
	for _, svc := range []*models.PublicService{&hidden, &second, &first} {
		require.NoError(t, repo.CreatePublicService(svc))
	}

	visible, err := repo.PublicServices(true)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "Asesoría", visible[0].Title)
	assert.Equal(t, "Instalación CCTV", visible[1].Title)

	all, err := repo.PublicServices(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeletePublicServiceMissing(t *testing.T) {
	repo := websiteTestDB(t)
	assert.ErrorIs(t, repo.DeletePublicService(99), models.ErrNotFound)
}
