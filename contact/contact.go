// Package contact handles the site's contact form: validation, the email
// relay, and a small dispatcher that archives then sends each submission.
package contact

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingField = errors.New("required field missing")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("invalid phone number")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Message is one contact form submission. CompanyName is optional;
// everything else is required.
type Message struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	CompanyName string    `json:"companyName,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Message     string    `json:"message"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

// Result is the response shape returned to the form.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// NewMessage trims a submission and stamps it with an id and receive time.
func NewMessage(m Message) Message {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.CompanyName = strings.TrimSpace(m.CompanyName)
	m.Email = strings.TrimSpace(m.Email)
	m.PhoneNumber = strings.TrimSpace(m.PhoneNumber)
	m.Message = strings.TrimSpace(m.Message)
	m.ID = uuid.New().String()
	m.ReceivedAt = time.Now()
	return m
}

// Validate checks the required fields and basic formats.
func (m Message) Validate() error {
	for _, f := range []string{m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Message} {
		if f == "" {
			return ErrMissingField
		}
	}
	if !emailRe.MatchString(m.Email) {
		return ErrInvalidEmail
	}
	if digits := countDigits(m.PhoneNumber); digits < 6 {
		return ErrInvalidPhone
	}
	return nil
}

// FullName joins the sender's first and last names.
func (m Message) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
