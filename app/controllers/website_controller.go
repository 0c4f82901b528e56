package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

// WebsiteController serves the marketing-site CMS: editable content
// blocks and the public services list.
type WebsiteController struct {
	website *repositories.WebsiteRepository
}

func NewWebsiteController(website *repositories.WebsiteRepository) *WebsiteController {
	return &WebsiteController{website: website}
}

// Content returns every content block keyed by section. The marketing
// site reads this without authentication.
func (c *WebsiteController) Content(w http.ResponseWriter, r *http.Request) {
	sections, err := c.website.Sections()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make(map[string]json.RawMessage, len(sections))
	for _, sec := range sections {
		out[sec.Section] = sec.Content
	}
	response.Success(w, out)
}

// UpdateSection replaces the content of one block.
func (c *WebsiteController) UpdateSection(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")
	if !models.ValidWebsiteSection(section) {
		response.Error(w, http.StatusBadRequest, "unknown section "+section)
		return
	}

	var content json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sec, err := c.website.UpsertSection(section, content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, sec)
}

// PublicServices lists the visible offerings for the marketing site.
func (c *WebsiteController) PublicServices(w http.ResponseWriter, r *http.Request) {
	services, err := c.website.PublicServices(true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, services)
}

// AllPublicServices lists every offering, hidden ones included, for the
// admin CMS.
func (c *WebsiteController) AllPublicServices(w http.ResponseWriter, r *http.Request) {
	services, err := c.website.PublicServices(false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, services)
}

type publicServiceInput struct {
	Title       string `json:"title"       validate:"required|max:255"`
	Description string `json:"description" validate:"nullable"`
	Category    string `json:"category"    validate:"nullable|max:120"`
	Order       int    `json:"order"       validate:"gte:0"`
	Active      *bool  `json:"active"`
}

func (c *WebsiteController) StorePublicService(w http.ResponseWriter, r *http.Request) {
	var body publicServiceInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	svc := models.PublicService{
		Title:       body.Title,
		Description: body.Description,
		Category:    body.Category,
		Order:       body.Order,
		Active:      true,
	}
	if body.Active != nil {
		svc.Active = *body.Active
	}

	if err := c.website.CreatePublicService(&svc); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, svc)
}

func (c *WebsiteController) UpdatePublicService(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid service id")
		return
	}

	var body publicServiceInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	svc, err := c.website.FindPublicService(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	svc.Title = body.Title
	svc.Description = body.Description
	svc.Category = body.Category
	svc.Order = body.Order
	if body.Active != nil {
		svc.Active = *body.Active
	}

	if err := c.website.UpdatePublicService(&svc); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, svc)
}

func (c *WebsiteController) DestroyPublicService(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid service id")
		return
	}
	if err := c.website.DeletePublicService(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

// SetPublicServiceActive toggles an offering's visibility.
func (c *WebsiteController) SetPublicServiceActive(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid service id")
		return
	}

	var body activeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Active == nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	svc, err := c.website.FindPublicService(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	svc.Active = *body.Active

	if err := c.website.UpdatePublicService(&svc); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, svc)
}
