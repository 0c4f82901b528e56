package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

type ContactController struct {
	contact *services.ContactService
}

func NewContactController(contact *services.ContactService) *ContactController {
	return &ContactController{contact: contact}
}

// Submit receives the public contact form. This is the only
// unauthenticated write endpoint, so it sits behind the rate limiter.
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var body services.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	msg, err := c.contact.Submit(body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Created(w, msg)
}

// Index lists stored messages for the admin panel.
func (c *ContactController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	msgs, pagination, err := c.contact.List(page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Paginated(w, msgs, pagination)
}

// MarkRead flags a message as read.
func (c *ContactController) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}
	if err := c.contact.MarkRead(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"read": true})
}

// MarkReplied flags a message as replied.
func (c *ContactController) MarkReplied(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}
	if err := c.contact.MarkReplied(id); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"replied": true})
}
