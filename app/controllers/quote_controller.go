package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/middleware"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

type QuoteController struct {
	quotes *services.QuoteService
	pdf    *services.QuotePDFService
}

func NewQuoteController(quotes *services.QuoteService, pdf *services.QuotePDFService) *QuoteController {
	return &QuoteController{quotes: quotes, pdf: pdf}
}

// Index lists quotes, optionally filtered by ?status=.
func (c *QuoteController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	quotes, pagination, err := c.quotes.List(page, limit, r.URL.Query().Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Paginated(w, quotes, pagination)
}

// Show returns one quote with its items.
func (c *QuoteController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	quote, err := c.quotes.Find(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, quote)
}

// Store creates a quote in draft.
func (c *QuoteController) Store(w http.ResponseWriter, r *http.Request) {
	var body services.QuoteInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	quote, err := c.quotes.Create(body, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, quote)
}

// Update replaces a quote's client data and items.
func (c *QuoteController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var body services.QuoteInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	quote, err := c.quotes.Update(id, body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, quote)
}

// Destroy deletes a quote.
func (c *QuoteController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	if err := c.quotes.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetStatus moves the quote to a new status. Approval runs the stock
// workflow; a shortage comes back as 409 with the full breakdown.
func (c *QuoteController) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	var body statusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	quote, err := c.quotes.SetStatus(id, models.Status(body.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, quote)
}

// ExportPDF streams the printable quote document.
func (c *QuoteController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid quote id")
		return
	}

	quote, err := c.quotes.Find(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := c.pdf.Render(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", quote.Code+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
