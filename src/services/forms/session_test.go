package forms

import (
	"context"
	"errors"
	"testing"

	"Backend-FormGen/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupSchema() models.Schema {
	return models.Schema{Fields: []models.Field{
		{ID: "email", Label: "Email", Type: models.FieldEmail, Required: true},
		{ID: "name", Label: "Name", Type: models.FieldText, Required: true},
		{ID: "topics", Label: "Topics", Type: models.FieldCheckbox, Options: []string{"Go", "Rust"}},
	}}
}

func TestSessionSubmitBlockedByValidation(t *testing.T) {
	s := NewSession(signupSchema())
	called := false
	sink := func(ctx context.Context, values map[string]any) error {
		called = true
		return nil
	}

	err := s.Submit(context.Background(), sink)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"email": "Email is required", "name": "Name is required"}, verr.Errors)
	assert.False(t, called)
	assert.Equal(t, StateDraft, s.State())
}

func TestSessionSetClearsOnlyThatField(t *testing.T) {
	s := NewSession(signupSchema())
	_ = s.Submit(context.Background(), func(context.Context, map[string]any) error { return nil })
	require.Len(t, s.Errors(), 2)

	require.NoError(t, s.Set("email", "bad"))
	errs := s.Errors()
	assert.NotContains(t, errs, "email")
	assert.Contains(t, errs, "name")
}

func TestSessionSubmitHandsValuesToSink(t *testing.T) {
	s := NewSession(signupSchema())
	require.NoError(t, s.Set("email", "a@b.com"))
	require.NoError(t, s.Set("name", "Ann"))
	require.NoError(t, s.Toggle("topics", "Rust"))
	require.NoError(t, s.Toggle("topics", "Go"))

	var got map[string]any
	err := s.Submit(context.Background(), func(ctx context.Context, values map[string]any) error {
		got = values
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, map[string]any{"email": "a@b.com", "name": "Ann", "topics": []string{"Rust", "Go"}}, got)

	assert.ErrorIs(t, s.Set("name", "Bob"), ErrAlreadySubmitted)
	assert.ErrorIs(t, s.Submit(context.Background(), nil), ErrAlreadySubmitted)

	s.Reset()
	assert.Equal(t, StateDraft, s.State())
	assert.Empty(t, s.Values())
}

func TestSessionSinkFailureMovesToError(t *testing.T) {
	s := NewSession(models.Schema{Fields: []models.Field{{ID: "q", Label: "Q", Type: models.FieldText}}})
	boom := errors.New("insert failed")

	err := s.Submit(context.Background(), func(context.Context, map[string]any) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateError, s.State())
	assert.ErrorIs(t, s.Err(), boom)

	// a manual retry is allowed from the error state
	require.NoError(t, s.Submit(context.Background(), func(context.Context, map[string]any) error { return nil }))
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSessionRefusesSecondSubmitInFlight(t *testing.T) {
	s := NewSession(models.Schema{Fields: []models.Field{{ID: "q", Label: "Q", Type: models.FieldText}}})
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Submit(context.Background(), func(context.Context, map[string]any) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	assert.Equal(t, StateSubmitting, s.State())
	assert.ErrorIs(t, s.Submit(context.Background(), nil), ErrSubmitInFlight)
	assert.ErrorIs(t, s.Set("q", "x"), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSessionRejectsBadEdits(t *testing.T) {
	s := NewSession(signupSchema())
	assert.ErrorIs(t, s.Set("nope", 1), ErrUnknownField)
	assert.ErrorIs(t, s.Toggle("name", "Go"), ErrNotCheckbox)
}

func TestSessionToggleTwiceRestores(t *testing.T) {
	s := NewSession(signupSchema())
	require.NoError(t, s.Set("topics", []any{"Rust"}))
	require.NoError(t, s.Toggle("topics", "Go"))
	require.NoError(t, s.Toggle("topics", "Go"))
	assert.Equal(t, []string{"Rust"}, s.Values()["topics"])
}
