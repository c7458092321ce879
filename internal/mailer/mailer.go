// Package mailer tells the site owner about new contact messages.
package mailer

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type Mailer struct {
	from string
	to   string
	send func(...*gomail.Message) error
	log  logger.Logger
	wg   sync.WaitGroup
}

// NewSMTP returns a mailer that dials opts.Host for every message. Without a
// host or recipient it is disabled.
func NewSMTP(opts Options, log logger.Logger) *Mailer {
	m := &Mailer{from: opts.From, to: opts.To, log: log}
	if opts.Host != "" {
		m.send = gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password).DialAndSend
	}
	return m
}

// New returns a mailer delivering through s.
func New(from, to string, s gomail.Sender, log logger.Logger) *Mailer {
	return &Mailer{
		from: from,
		to:   to,
		send: func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) },
		log:  log,
	}
}

func (m *Mailer) Enabled() bool { return m != nil && m.send != nil && m.to != "" }

// ContactReceived mails c to the owner in the background.
func (m *Mailer) ContactReceived(c *models.Contact) {
	if !m.Enabled() {
		return
	}
	msg := m.contactMessage(c)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.send(msg); err != nil {
			m.log.Warn("contact notification failed", logger.Uint("contact_id", c.ID), logger.Error(err))
			return
		}
		m.log.Debug("contact notification sent", logger.Uint("contact_id", c.ID))
	}()
}

func (m *Mailer) contactMessage(c *models.Contact) *gomail.Message {
	subject := "New contact message"
	if c.Subject != nil && strings.TrimSpace(*c.Subject) != "" {
		subject += ": " + strings.TrimSpace(*c.Subject)
	}

	msg := gomail.NewMessage()
	from := m.from
	if from == "" {
		from = m.to
	}
	msg.SetHeader("From", from)
	msg.SetHeader("To", m.to)
	msg.SetAddressHeader("Reply-To", c.Email, c.Name)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s\n", c.Name, c.Email, c.Message))
	return msg
}

// Wait blocks until queued notifications are sent.
func (m *Mailer) Wait() {
	if m != nil {
		m.wg.Wait()
	}
}
