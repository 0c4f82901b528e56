package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

type clientInput struct {
	Name     string `json:"name"     validate:"required|max:255"`
	Document string `json:"document" validate:"nullable|max:20"`
	Email    string `json:"email"    validate:"nullable|email"`
	Phone    string `json:"phone"    validate:"nullable|max:30"`
	Address  string `json:"address"  validate:"nullable|max:500"`
}

// ClientController is thin CRUD over the client repository; there is no
// business logic to push into a service.
type ClientController struct {
	clients *repositories.ClientRepository
}

func NewClientController(clients *repositories.ClientRepository) *ClientController {
	return &ClientController{clients: clients}
}

// Index lists clients, filtered by ?q= against name and document.
func (c *ClientController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	clients, pagination, err := c.clients.Search(page, limit, r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Paginated(w, clients, pagination)
}

// Show returns one client.
func (c *ClientController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	client, err := c.clients.FindByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, client)
}

// Store creates a client.
func (c *ClientController) Store(w http.ResponseWriter, r *http.Request) {
	var body clientInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	client := models.Client{
		Name:     body.Name,
		Document: body.Document,
		Email:    body.Email,
		Phone:    body.Phone,
		Address:  body.Address,
		Active:   true,
	}
	if err := c.clients.Create(&client); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, client)
}

// Update replaces a client's fields.
func (c *ClientController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	var body clientInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	client, err := c.clients.FindByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	client.Name = body.Name
	client.Document = body.Document
	client.Email = body.Email
	client.Phone = body.Phone
	client.Address = body.Address

	if err := c.clients.Update(&client); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, client)
}

// Destroy deletes a client.
func (c *ClientController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid client id")
		return
	}

	if err := c.clients.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"deleted": true})
}
