// Package jobs holds the background jobs processed by the queue workers.
package jobs

import (
	"fmt"
	"html"

	"github.com/duolink/cotizador/app/models"
	"github.com/duolink/cotizador/config"
	"github.com/duolink/cotizador/pkg/mail"
	"github.com/duolink/cotizador/pkg/queue"
)

// ContactNotificationJob is the registry name for ContactNotification.
const ContactNotificationJob = "jobs.ContactNotification"

// MessageReader loads the stored contact message when the job runs.
type MessageReader interface {
	FindByID(id uint) (models.ContactMessage, error)
}

var messages MessageReader

// Register wires the job type into the queue registry with its store.
// Call once at boot.
func Register(store MessageReader) {
	messages = store
	queue.Register(ContactNotificationJob, func() queue.Job {
		return &ContactNotification{}
	})
}

// ContactNotification emails the configured inbox about a new contact
// message. Only the message id travels through the queue; the body is
// re-read at execution time.
type ContactNotification struct {
	MessageID uint `json:"messageId"`
}

func (j *ContactNotification) Handle() error {
	if messages == nil {
		return fmt.Errorf("jobs: contact notification store not configured")
	}

	to := config.ContactNotifyTo()
	if to == "" {
		return nil
	}

	msg, err := messages.FindByID(j.MessageID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<h3>Nuevo mensaje de contacto</h3>"+
			"<p><b>Nombre:</b> %s<br><b>Email:</b> %s<br><b>Teléfono:</b> %s</p>"+
			"<p>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Phone),
		html.EscapeString(msg.Message),
	)

	return mail.To(to).
		Subject("Nuevo mensaje de contacto de " + msg.Name).
		Body(body).
		Send()
}
