// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrValidation names the request fields that were missing or invalid.
type ErrValidation struct {
	Fields []string
}

func (e *ErrValidation) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

func NewValidation(fields ...string) error {
	return &ErrValidation{Fields: fields}
}

// ErrPersistence wraps a backend failure so handlers can return a
// generic 500 without leaking driver detail.
type ErrPersistence struct {
	Op  string
	Err error
}

func (e *ErrPersistence) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *ErrPersistence) Unwrap() error { return e.Err }

func NewPersistence(op string, err error) error {
	return &ErrPersistence{Op: op, Err: err}
}
