// Package mail is a fluent SMTP mailer. Contact-form notifications are the
// main caller.
//
//	mail.To("ventas@duolink.pe").
//	    Subject("Nuevo mensaje de contacto").
//	    Body("<p>...</p>").
//	    Send()
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/duolink/cotizador/config"
)

// Message is a fluent builder for one outgoing email.
type Message struct {
	to      []string
	cc      []string
	subject string
	body    string
	isHTML  bool
}

// To starts a message addressed to the given recipients.
func To(addresses ...string) *Message {
	return &Message{to: addresses, isHTML: true}
}

// CC adds carbon-copy recipients.
func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// Send delivers the message through the SMTP server from config. Port
// 465 uses implicit TLS, anything else goes through smtp.SendMail which
// negotiates STARTTLS when the server offers it.
func (m *Message) Send() error {
	user := config.MailUsername()
	if user == "" {
		return fmt.Errorf("mail: MAIL_USERNAME not configured")
	}
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	host := config.MailHost()
	port := config.MailPort()
	from := config.MailFrom()

	raw := m.render(fmt.Sprintf("%s <%s>", config.MailFromName(), from))
	rcpts := append(append([]string{}, m.to...), m.cc...)
	auth := smtp.PlainAuth("", user, config.MailPassword(), host)
	addr := host + ":" + port

	if port == "465" {
		return m.sendImplicitTLS(addr, host, auth, from, rcpts, raw)
	}
	return smtp.SendMail(addr, auth, from, rcpts, raw)
}

// sendImplicitTLS speaks SMTP over an already-encrypted connection, the
// mode legacy providers expose on port 465.
func (m *Message) sendImplicitTLS(addr, host string, auth smtp.Auth, from string, rcpts []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return fmt.Errorf("mail: tls dial %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp handshake: %w", err)
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail: MAIL FROM: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: RCPT %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return fmt.Errorf("mail: write body: %w", err)
	}
	return w.Close()
}

func (m *Message) render(from string) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(m.to, ", "))
	if len(m.cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(m.cc, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: %s; charset=\"UTF-8\"\r\n\r\n", contentType)
	buf.WriteString(m.body)
	return buf.Bytes()
}
