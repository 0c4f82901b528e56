package services

import (
	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/event"
	"github.com/duolink/cotizador/pkg/logger"
)

// ContactStore is the persistence surface for contact messages.
type ContactStore interface {
	Create(msg *models.ContactMessage) error
	FindByID(id uint) (models.ContactMessage, error)
	All(page, limit int) ([]models.ContactMessage, repositories.Pagination, error)
	MarkRead(id uint) error
	MarkReplied(id uint) error
}

// ContactInput is the public contact-form body.
type ContactInput struct {
	Name    string `json:"name"    validate:"required|max:255"`
	Email   string `json:"email"   validate:"required|email"`
	Phone   string `json:"phone"   validate:"nullable|max:30"`
	Message string `json:"message" validate:"required|max:5000"`
}

// Notifier queues the email notification for a stored message. The
// contact notification job implements it; tests stub it out.
type Notifier func(messageID uint) error

// ContactService stores messages from the public form and triggers the
// background notification.
type ContactService struct {
	store  ContactStore
	notify Notifier
}

func NewContactService(store ContactStore, notify Notifier) *ContactService {
	return &ContactService{store: store, notify: notify}
}

// Submit stores the message and dispatches the notification job. A
// notification failure is logged but does not fail the submission.
func (s *ContactService) Submit(input ContactInput) (models.ContactMessage, error) {
	msg := models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Message: input.Message,
	}
	if err := s.store.Create(&msg); err != nil {
		return models.ContactMessage{}, err
	}

	if s.notify != nil {
		if err := s.notify(msg.ID); err != nil {
			logger.Error("contact: notification dispatch failed", "message_id", msg.ID, "error", err)
		}
	}

	event.FireAsync(EventContactReceived, msg)
	logger.Info("contact: message received", "message_id", msg.ID)
	return msg, nil
}

// List pages through stored messages for the admin panel.
func (s *ContactService) List(page, limit int) ([]models.ContactMessage, repositories.Pagination, error) {
	return s.store.All(page, limit)
}

// MarkRead flags a message as read.
func (s *ContactService) MarkRead(id uint) error {
	return s.store.MarkRead(id)
}

// MarkReplied flags a message as replied.
func (s *ContactService) MarkReplied(id uint) error {
	return s.store.MarkReplied(id)
}
