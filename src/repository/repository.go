// Package repository is the persistence collaborator: forms and their submissions.
package repository

import (
	"context"
	"errors"

	"Backend-FormGen/src/models"
)

// ErrNotFound is returned when a form or submission does not exist.
var ErrNotFound = errors.New("record not found")

// FormRepository covers the forms collection.
type FormRepository interface {
	CreateForm(ctx context.Context, form *models.Form) error
	GetForm(ctx context.Context, id string) (*models.Form, error)
	// ListFormsByUser returns the user's forms, newest first.
	ListFormsByUser(ctx context.Context, userID string) ([]models.Form, error)
	// DeleteForm removes the form and every submission that references it.
	DeleteForm(ctx context.Context, id string) error
}

// SubmissionRepository covers the submissions collection.
type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	// ListSubmissions returns a range of a form's submissions ordered by created_at descending.
	ListSubmissions(ctx context.Context, formID string, skip, limit int64) ([]models.Submission, error)
	CountSubmissions(ctx context.Context, formID string) (int64, error)
	// ListSubmissionsByForms returns the newest submissions across formIDs. limit <= 0 means no limit.
	ListSubmissionsByForms(ctx context.Context, formIDs []string, limit int64) ([]models.Submission, error)
}

// Store is the whole persistence collaborator, constructed once at start-up.
type Store interface {
	FormRepository
	SubmissionRepository
	Close(ctx context.Context) error
}

// PersistenceError is a storage failure surfaced to the caller with the driver's message.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Wrap tags err with the failed operation. ErrNotFound and nil pass through untouched.
func Wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
