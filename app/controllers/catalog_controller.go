package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

// CatalogController serves the small lookup tables: categories, units
// and services.
type CatalogController struct {
	catalog *repositories.CatalogRepository
}

func NewCatalogController(catalog *repositories.CatalogRepository) *CatalogController {
	return &CatalogController{catalog: catalog}
}

type nameInput struct {
	Name string `json:"name" validate:"required|max:120"`
}

func (c *CatalogController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, categories)
}

func (c *CatalogController) StoreCategory(w http.ResponseWriter, r *http.Request) {
	var body nameInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	category := models.Category{Name: body.Name, Active: true}
	if err := c.catalog.CreateCategory(&category); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, category)
}

func (c *CatalogController) DestroyCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := c.catalog.DeleteCategory(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

func (c *CatalogController) Units(w http.ResponseWriter, r *http.Request) {
	units, err := c.catalog.Units()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, units)
}

func (c *CatalogController) StoreUnit(w http.ResponseWriter, r *http.Request) {
	var body nameInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	unit := models.Unit{Name: body.Name, Active: true}
	if err := c.catalog.CreateUnit(&unit); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, unit)
}

func (c *CatalogController) DestroyUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid unit id")
		return
	}
	if err := c.catalog.DeleteUnit(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}

type serviceInput struct {
	Name        string  `json:"name"        validate:"required|max:255"`
	Description string  `json:"description" validate:"nullable"`
	Price       float64 `json:"price"       validate:"gte:0"`
}

func (c *CatalogController) Services(w http.ResponseWriter, r *http.Request) {
	services, err := c.catalog.Services()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, services)
}

func (c *CatalogController) StoreService(w http.ResponseWriter, r *http.Request) {
	var body serviceInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	svc := models.Service{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Active:      true,
	}
	if err := c.catalog.CreateService(&svc); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, svc)
}

func (c *CatalogController) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid service id")
		return
	}

	var body serviceInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	svc, err := c.catalog.FindService(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	svc.Name = body.Name
	svc.Description = body.Description
	svc.Price = body.Price

	if err := c.catalog.UpdateService(&svc); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, svc)
}

func (c *CatalogController) DestroyService(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid service id")
		return
	}
	if err := c.catalog.DeleteService(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}
