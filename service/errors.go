package service

import (
	"errors"
	"strings"
)

// Error kinds returned by YarnService. Match them with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("yarn not found")
	ErrStorage      = errors.New("database error")
)

// ValidationError is an ErrInvalidInput with a caller-safe message and,
// for create, the JSON names of the missing fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Public messages, kept identical to what API clients have always seen.
const (
	MsgInvalidID       = "Invalid ID"
	MsgMissingRequired = "Missing required fields"
	MsgInvalidBody     = "Invalid request body"
)
