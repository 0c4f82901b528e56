package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duolink/cotizador/app/models"
)

func TestGroupItems(t *testing.T) {
	equipmentItem := item(1, 2, 100)
	equipmentItem.Category = "Cámaras"

	serviceItem := item(2, 1, 80)
	serviceItem.Type = models.ProductTypeService

	materialItem := item(3, 10, 2)
	materialItem.Category = "Materiales Adicionales"

	mixedCaseMaterial := item(4, 5, 3)
	mixedCaseMaterial.Category = "MATERIALES ADICIONALES varios"

	equipment, services, materials := groupItems(
		[]models.QuoteItem{equipmentItem, serviceItem, materialItem, mixedCaseMaterial}, nil)

	require.Len(t, equipment, 1)
	assert.Equal(t, uint(1), *equipment[0].ProductID)
	require.Len(t, services, 1)
	assert.Equal(t, uint(2), *services[0].ProductID)
	require.Len(t, materials, 2)
}

func TestGroupItemsUsesCategoryFallback(t *testing.T) {
	legacy := item(3, 10, 2)
	legacy.Category = ""

	_, _, materials := groupItems([]models.QuoteItem{legacy},
		map[uint]string{3: "Materiales Adicionales"})
	require.Len(t, materials, 1)
}

func TestRenderProducesPDF(t *testing.T) {
	cam := item(1, 2, 150)
	cam.Category = "Cámaras"
	cam.Unit = "und"
	install := item(2, 1, 200)
	install.Type = models.ProductTypeService

	q := quoteWith(7, models.StatusApproved, cam, install)
	q.ClientName = "Constructora Andina"

	quotes := newFullFakeQuoteStore(q)
	svc := NewQuotePDFService(quotes, newFakeStockStore())

	data, err := svc.Render(7)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "output must be a PDF document")
	assert.Greater(t, len(data), 500)
}

func TestRenderMissingQuote(t *testing.T) {
	svc := NewQuotePDFService(newFullFakeQuoteStore(), newFakeStockStore())
	_, err := svc.Render(99)
	assert.Error(t, err)
}
