// Package submission accepts filled forms and serves the stored submissions back for viewing and export.
package submission

import (
	"context"
	"strings"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/repository"
	"Backend-FormGen/src/services/forms"

	"go.uber.org/zap"
)

// ErrRejected is returned when the target form is not public.
var ErrRejected = forms.ErrRejected

type Service struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repository.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Submit stores values for a public form. Field rules are checked by the session in front of it.
func (s *Service) Submit(ctx context.Context, formID string, submitter *string, values map[string]any) (*models.Submission, error) {
	form, err := s.store.GetForm(ctx, formID)
	if err != nil {
		return nil, repository.Wrap("get form", err)
	}
	if !form.IsPublic {
		s.log.Warn("submission to private form refused", zap.String("form_id", formID))
		return nil, ErrRejected
	}

	if values == nil {
		values = map[string]any{}
	}
	sub := &models.Submission{
		FormID:    form.ID,
		UserID:    submitter,
		Data:      models.SubmissionData(values),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, repository.Wrap("create submission", err)
	}
	s.log.Info("submission stored", zap.String("form_id", form.ID), zap.String("submission_id", sub.ID), zap.Int("values", len(values)))
	return sub, nil
}

// Page is one page of a form's submissions.
type Page struct {
	Submissions []models.Submission
	Total       int64
}

// List fetches one page newest first. search only narrows the fetched page, the total counts the whole form.
func (s *Service) List(ctx context.Context, formID string, params models.PaginationParams) (*Page, error) {
	params.Normalize()

	total, err := s.store.CountSubmissions(ctx, formID)
	if err != nil {
		return nil, repository.Wrap("count submissions", err)
	}
	subs, err := s.store.ListSubmissions(ctx, formID, params.GetSkip(), int64(params.Limit))
	if err != nil {
		return nil, repository.Wrap("list submissions", err)
	}
	return &Page{Submissions: FilterPage(subs, params.Search), Total: total}, nil
}

// FilterPage keeps submissions whose JSON encoded data contains search, ignoring case.
func FilterPage(subs []models.Submission, search string) []models.Submission {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return subs
	}
	out := make([]models.Submission, 0, len(subs))
	for _, sub := range subs {
		raw, err := forms.MarshalData(sub.Data)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(raw)), needle) {
			out = append(out, sub)
		}
	}
	return out
}

// Get returns one submission of formID.
func (s *Service) Get(ctx context.Context, formID, submissionID string) (*models.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, repository.Wrap("get submission", err)
	}
	if sub.FormID != formID {
		return nil, repository.ErrNotFound
	}
	return sub, nil
}

// All returns every submission of the form, newest first. Used by whole-form exports.
func (s *Service) All(ctx context.Context, formID string) ([]models.Submission, error) {
	subs, err := s.store.ListSubmissions(ctx, formID, 0, 0)
	if err != nil {
		return nil, repository.Wrap("list submissions", err)
	}
	return subs, nil
}

// MaxRecent caps the cross-form submissions list.
const MaxRecent = 200

// Recent returns the newest submissions across every form userID owns, each labelled with its form title.
// limit outside 1..MaxRecent becomes MaxRecent.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]models.LabelledSubmission, error) {
	if limit <= 0 || limit > MaxRecent {
		limit = MaxRecent
	}
	owned, err := s.store.ListFormsByUser(ctx, userID)
	if err != nil {
		return nil, repository.Wrap("list forms", err)
	}
	out := []models.LabelledSubmission{}
	if len(owned) == 0 {
		return out, nil
	}

	titles := make(map[string]string, len(owned))
	ids := make([]string, 0, len(owned))
	for _, f := range owned {
		titles[f.ID] = f.Title
		ids = append(ids, f.ID)
	}
	subs, err := s.store.ListSubmissionsByForms(ctx, ids, int64(limit))
	if err != nil {
		return nil, repository.Wrap("list submissions", err)
	}
	for _, sub := range subs {
		out = append(out, models.LabelledSubmission{Submission: sub, FormTitle: titles[sub.FormID]})
	}
	return out, nil
}

// Summary computes the header cards of the submissions view.
func Summary(form *models.Form, total int64, subs []models.Submission) models.SubmissionSummary {
	users := map[string]struct{}{}
	var latest time.Time
	for _, sub := range subs {
		if sub.UserID != nil && *sub.UserID != "" {
			users[*sub.UserID] = struct{}{}
		}
		if sub.CreatedAt.After(latest) {
			latest = sub.CreatedAt
		}
	}

	out := models.SubmissionSummary{
		TotalSubmissions: int(total),
		UniqueUsers:      len(users),
		Fields:           len(form.Schema.Fields),
		LatestSubmission: "N/A",
	}
	if !latest.IsZero() {
		out.LatestSubmission = latest.UTC().Format(time.RFC3339)
	}
	return out
}
