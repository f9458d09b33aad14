package ui

import (
	"errors"
	"strings"

	"prazo/internal/deadline"
)

var (
	ErrMissingFields   = errors.New("Todos os campos são obrigatórios.")
	ErrInvalidDeadline = errors.New(`Formato de prazo inválido. Use "X dias" ou "DD/MM/AAAA".`)
)

// Adder is the part of the deadline store the form submits to.
type Adder interface {
	Add(subject, recipient, raw string) (deadline.Deadline, bool)
}

// Form holds the uncommitted input of the add form.
type Form struct {
	Subject   string
	Recipient string
	Deadline  string
	Err       error
}

// Submit validates the fields and hands them to a. On success the form is
// cleared; on failure Err is set and the fields are kept for correction.
func (f *Form) Submit(a Adder) error {
	if strings.TrimSpace(f.Subject) == "" ||
		strings.TrimSpace(f.Recipient) == "" ||
		strings.TrimSpace(f.Deadline) == "" {
		f.Err = ErrMissingFields
		return f.Err
	}
	if _, ok := a.Add(f.Subject, f.Recipient, f.Deadline); !ok {
		f.Err = ErrInvalidDeadline
		return f.Err
	}
	*f = Form{}
	return nil
}
