package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/config"
)

const additionalMaterialsCategory = "materiales adicionales"

// QuotePDFService renders a quote as the printable document handed to
// the client: company header, quote box, then the items grouped into
// equipment, services and additional materials.
type QuotePDFService struct {
	quotes   QuoteStore
	products ProductCatalog
}

func NewQuotePDFService(quotes QuoteStore, products ProductCatalog) *QuotePDFService {
	return &QuotePDFService{quotes: quotes, products: products}
}

// Render produces the PDF bytes for one quote.
func (s *QuotePDFService) Render(quoteID uint) ([]byte, error) {
	quote, err := s.quotes.FindByID(quoteID)
	if err != nil {
		return nil, err
	}

	// Items carry a category snapshot; fall back to the catalogue for
	// records written before categories were copied onto lines.
	categories, err := s.resolveCategories(quote.Items)
	if err != nil {
		return nil, err
	}

	equipment, servicesItems, materials := groupItems(quote.Items, categories)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	writeHeader(pdf, tr, quote)

	if len(equipment) > 0 {
		writeSection(pdf, tr, "EQUIPOS", equipment, false)
	}
	if len(servicesItems) > 0 {
		writeSection(pdf, tr, "SERVICIOS", servicesItems, false)
	}
	if len(materials) > 0 {
		writeSection(pdf, tr, "MATERIALES ADICIONALES (Cantidades Aproximadas)", materials, true)
	}

	writeTotal(pdf, tr, quote.Total)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render quote %d: %w", quoteID, err)
	}
	return buf.Bytes(), nil
}

func (s *QuotePDFService) resolveCategories(items []models.QuoteItem) (map[uint]string, error) {
	var missing []uint
	for _, item := range items {
		if item.Category == "" && item.ProductID != nil {
			missing = append(missing, *item.ProductID)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	products, err := s.products.FindByIDs(missing)
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(products))
	for id, p := range products {
		out[id] = p.Category
	}
	return out, nil
}

// groupItems splits the lines into the three document sections. Equipment
// whose category names additional materials goes into its own section.
func groupItems(items []models.QuoteItem, fallback map[uint]string) (equipment, services, materials []models.QuoteItem) {
	for _, item := range items {
		category := item.Category
		if category == "" && item.ProductID != nil {
			category = fallback[*item.ProductID]
		}

		switch {
		case item.Type == models.ProductTypeService:
			services = append(services, item)
		case strings.Contains(strings.ToLower(category), additionalMaterialsCategory):
			materials = append(materials, item)
		default:
			equipment = append(equipment, item)
		}
	}
	return
}

func writeHeader(pdf *gofpdf.Fpdf, tr func(string) string, quote models.Quote) {
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, tr("COTIZACIÓN"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(config.CompanyName()), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr("RUC: "+config.CompanyRUC()), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, tr(config.CompanyAddress()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(63, 7, tr("Código: "+quote.Code), "1", 0, "L", true, 0, "")
	pdf.CellFormat(63, 7, "Fecha: "+quote.CreatedAt.Format("02/01/2006"), "1", 0, "L", true, 0, "")
	client := quote.ClientName
	if client == "" {
		client = "-"
	}
	pdf.CellFormat(64, 7, tr("Cliente: "+client), "1", 1, "L", true, 0, "")
	pdf.Ln(4)
}

func writeSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []models.QuoteItem, highlightQty bool) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(41, 73, 125)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(190, 8, tr(title), "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 7, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Und.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "P. Unit.", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Subtotal", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i := range items {
		item := &items[i]
		unit := item.Unit
		if unit == "" {
			unit = "und"
		}

		pdf.CellFormat(90, 6, tr(item.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, tr(unit), "1", 0, "C", false, 0, "")

		if highlightQty {
			pdf.SetFillColor(255, 243, 205)
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", true, 0, "")
		} else {
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		}

		pdf.CellFormat(30, 6, fmt.Sprintf("S/ %.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("S/ %.2f", item.Subtotal()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)
}

func writeTotal(pdf *gofpdf.Fpdf, tr func(string) string, total float64) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(41, 73, 125)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(160, 8, "TOTAL", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("S/ %.2f", total), "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
