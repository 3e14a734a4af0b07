package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/repository"
	"Backend-FormGen/src/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(store repository.Store) *Service {
	svc := NewService(store, zap.NewNop(), 4)
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func feedbackRequest() models.CreateFormRequest {
	return models.CreateFormRequest{
		Title: "Feedback",
		Schema: models.Schema{Fields: []models.Field{
			{ID: "rating", Label: "Rating", Type: models.FieldRadio, Options: []string{"1", "2", "3"}},
		}},
	}
}

func TestFormService(t *testing.T) {
	suite := testutil.NewTestSuiteResult("Form Service")
	defer suite.PrintSummary()
	ctx := context.Background()

	t.Run("CreateDefaultsToPublic", func(t *testing.T) {
		defer suite.Track(t, "CreateDefaultsToPublic")()
		svc := newTestService(testutil.NewMemoryStore())

		form, err := svc.CreateForm(ctx, "u1", feedbackRequest())
		require.NoError(t, err)
		assert.NotEmpty(t, form.ID)
		assert.True(t, form.IsPublic)
		assert.Equal(t, "u1", form.UserID)
		assert.Equal(t, form.CreatedAt, form.UpdatedAt)

		private := false
		req := feedbackRequest()
		req.IsPublic = &private
		form, err = svc.CreateForm(ctx, "u1", req)
		require.NoError(t, err)
		assert.False(t, form.IsPublic)
	})

	t.Run("CreateRejectsBrokenSchema", func(t *testing.T) {
		defer suite.Track(t, "CreateRejectsBrokenSchema")()
		svc := newTestService(testutil.NewMemoryStore())

		req := feedbackRequest()
		req.Schema.Fields = append(req.Schema.Fields, models.Field{ID: "rating", Label: "Again", Type: models.FieldText})
		_, err := svc.CreateForm(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidSchema)

		req = feedbackRequest()
		req.Schema.Fields[0].Options = nil
		_, err = svc.CreateForm(ctx, "u1", req)
		assert.ErrorIs(t, err, ErrInvalidSchema)
	})

	t.Run("GetFormIsOwnerScoped", func(t *testing.T) {
		defer suite.Track(t, "GetFormIsOwnerScoped")()
		svc := newTestService(testutil.NewMemoryStore())
		form, err := svc.CreateForm(ctx, "u1", feedbackRequest())
		require.NoError(t, err)

		_, err = svc.GetForm(ctx, "u2", form.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		got, err := svc.GetForm(ctx, "u1", form.ID)
		require.NoError(t, err)
		assert.Equal(t, form.ID, got.ID)
	})

	t.Run("PublicFormGate", func(t *testing.T) {
		defer suite.Track(t, "PublicFormGate")()
		svc := newTestService(testutil.NewMemoryStore())
		private := false
		req := feedbackRequest()
		req.IsPublic = &private
		form, err := svc.CreateForm(ctx, "u1", req)
		require.NoError(t, err)

		_, err = svc.GetPublicForm(ctx, form.ID)
		assert.ErrorIs(t, err, ErrRejected)
		_, err = svc.GetPublicForm(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListFormsCountsSubmissions", func(t *testing.T) {
		defer suite.Track(t, "ListFormsCountsSubmissions")()
		store := testutil.NewMemoryStore()
		svc := newTestService(store)

		first, err := svc.CreateForm(ctx, "u1", feedbackRequest())
		require.NoError(t, err)
		second, err := svc.CreateForm(ctx, "u1", feedbackRequest())
		require.NoError(t, err)
		_, err = svc.CreateForm(ctx, "u2", feedbackRequest())
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			require.NoError(t, store.CreateSubmission(ctx, &models.Submission{FormID: first.ID, Data: models.SubmissionData{"rating": "1"}, CreatedAt: time.Now()}))
		}

		list, err := svc.ListForms(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.EqualValues(t, 0, list[0].SubmissionCount)
		assert.Equal(t, first.ID, list[1].ID)
		assert.EqualValues(t, 3, list[1].SubmissionCount)
	})

	t.Run("DeleteCascades", func(t *testing.T) {
		defer suite.Track(t, "DeleteCascades")()
		store := testutil.NewMemoryStore()
		svc := newTestService(store)
		form, err := svc.CreateForm(ctx, "u1", feedbackRequest())
		require.NoError(t, err)
		require.NoError(t, store.CreateSubmission(ctx, &models.Submission{FormID: form.ID, Data: models.SubmissionData{}, CreatedAt: time.Now()}))

		assert.ErrorIs(t, svc.DeleteForm(ctx, "u2", form.ID), repository.ErrNotFound)
		require.NoError(t, svc.DeleteForm(ctx, "u1", form.ID))
		assert.Zero(t, store.SubmissionCount())
	})

	t.Run("StorageFailureIsPersistenceError", func(t *testing.T) {
		defer suite.Track(t, "StorageFailureIsPersistenceError")()
		store := testutil.NewMemoryStore()
		store.FailWith = errors.New("connection reset")
		svc := newTestService(store)

		_, err := svc.ListForms(ctx, "u1")
		var perr *repository.PersistenceError
		require.ErrorAs(t, err, &perr)
		assert.Contains(t, err.Error(), "connection reset")
	})
}
