// Package forms holds the schema validator and renderer, the fill-in session and the form service.
package forms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRejected is returned for a form that does not accept public submissions.
	ErrRejected = errors.New("form is not public")
	// ErrInvalidSchema wraps a schema that breaks the field invariants.
	ErrInvalidSchema = errors.New("invalid schema")
)

// Service manages forms for their owners.
type Service struct {
	store            repository.Store
	log              *zap.Logger
	countConcurrency int
	now              func() time.Time
}

func NewService(store repository.Store, log *zap.Logger, countConcurrency int) *Service {
	if countConcurrency < 1 {
		countConcurrency = 1
	}
	return &Service{store: store, log: log, countConcurrency: countConcurrency, now: time.Now}
}

// CreateForm persists a generated schema under the caller. New forms are public unless told otherwise.
func (s *Service) CreateForm(ctx context.Context, userID string, req models.CreateFormRequest) (*models.Form, error) {
	if err := req.Schema.Check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	now := s.now().UTC()
	form := &models.Form{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Schema:      req.Schema,
		IsPublic:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.IsPublic != nil {
		form.IsPublic = *req.IsPublic
	}

	if err := s.store.CreateForm(ctx, form); err != nil {
		return nil, repository.Wrap("create form", err)
	}
	s.log.Info("form created", zap.String("form_id", form.ID), zap.String("user_id", userID), zap.Int("fields", len(form.Schema.Fields)))
	return form, nil
}

// GetForm returns a form owned by userID. Forms of other users read as not found.
func (s *Service) GetForm(ctx context.Context, userID, id string) (*models.Form, error) {
	form, err := s.store.GetForm(ctx, id)
	if err != nil {
		return nil, repository.Wrap("get form", err)
	}
	if form.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return form, nil
}

// GetPublicForm returns a form for anonymous filling.
func (s *Service) GetPublicForm(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.store.GetForm(ctx, id)
	if err != nil {
		return nil, repository.Wrap("get form", err)
	}
	if !form.IsPublic {
		return nil, ErrRejected
	}
	return form, nil
}

// ListForms returns the user's forms newest first with one exact submission count per form.
func (s *Service) ListForms(ctx context.Context, userID string) ([]models.FormWithCount, error) {
	forms, err := s.store.ListFormsByUser(ctx, userID)
	if err != nil {
		return nil, repository.Wrap("list forms", err)
	}

	out := make([]models.FormWithCount, len(forms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.countConcurrency)
	for i := range forms {
		out[i].Form = forms[i]
		g.Go(func() error {
			n, err := s.store.CountSubmissions(gctx, forms[i].ID)
			if err != nil {
				return repository.Wrap("count submissions", err)
			}
			out[i].SubmissionCount = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteForm removes the form and its submissions.
func (s *Service) DeleteForm(ctx context.Context, userID, id string) error {
	if _, err := s.GetForm(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.DeleteForm(ctx, id); err != nil {
		return repository.Wrap("delete form", err)
	}
	s.log.Info("form deleted", zap.String("form_id", id), zap.String("user_id", userID))
	return nil
}
