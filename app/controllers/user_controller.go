package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

// UserController backs the superadmin account panel.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// Index lists accounts.
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, pagination, err := c.users.List(page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Paginated(w, users, pagination)
}

// Store registers a new account.
func (c *UserController) Store(w http.ResponseWriter, r *http.Request) {
	var body services.UserInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.Create(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, user)
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRole changes an account's role.
func (c *UserController) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body roleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.SetRole(id, body.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, user)
}

type activeRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// SetActive enables or disables an account.
func (c *UserController) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body activeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Active == nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := c.users.SetActive(id, *body.Active)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, user)
}
