// Package contact delivers contact-form messages through the EmailJS REST
// API.
//
// A [Message] is validated locally, then posted as template parameters to
// the EmailJS send endpoint. Network failures and 5xx responses are retried
// with exponential backoff; a 429 response fails fast with RATE_LIMITED.
//
//	client, err := contact.NewClient(contact.Config{
//	    ServiceID:  "service_x",
//	    TemplateID: "template_y",
//	    PublicKey:  "pk",
//	})
//	receipt, err := client.Send(ctx, contact.Message{Name: "Ann", Email: "ann@example.com", Body: "Hi"})
package contact

import (
	"strings"
	"time"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

// Field limits.
const (
	MaxNameLen = 100
	MaxBodyLen = 5000
)

// TimeLayout formats the submission time shown in the delivered email.
const TimeLayout = "1/2/2006, 3:04:05 PM"

// Message is one contact-form submission.
type Message struct {
	Name  string    `json:"user_name"`
	Email string    `json:"user_email"`
	Body  string    `json:"message"`
	Time  time.Time `json:"time,omitempty"` // Zero means "when sent"
}

// Normalize trims surrounding whitespace from every field.
func (m Message) Normalize() Message {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Body = strings.TrimSpace(m.Body)
	return m
}

// Validate checks every field and reports all problems at once.
func (m Message) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidInput)
	if err := errors.ValidateText("name", m.Name, MaxNameLen); err != nil {
		v.Add("name", "%s", errors.UserMessage(err))
	}
	if err := errors.ValidateEmail(m.Email); err != nil {
		v.Add("email", "%s", errors.UserMessage(err))
	}
	if err := errors.ValidateText("message", m.Body, MaxBodyLen); err != nil {
		v.Add("message", "%s", errors.UserMessage(err))
	}
	return v.Err()
}

// TemplateParams returns the EmailJS template variables for m. The name
// and address are sent under both the sender and the form field names so
// either template style renders them.
func (m Message) TemplateParams() map[string]string {
	return map[string]string{
		"from_name":  m.Name,
		"from_email": m.Email,
		"user_name":  m.Name,
		"user_email": m.Email,
		"message":    m.Body,
		"time":       m.Time.Format(TimeLayout),
	}
}

// Outcome is the final state of a submission.
type Outcome string

// Outcomes.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Receipt describes a delivery attempt.
type Receipt struct {
	ID         string    `json:"id"`
	Outcome    Outcome   `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Attempts   int       `json:"attempts"`
	SentAt     time.Time `json:"sent_at"`
}
