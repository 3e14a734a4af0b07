package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"Backend-FormGen/src/models"
)

// State of a fill-in session.
type State string

const (
	StateDraft      State = "draft"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateError      State = "error"
)

var (
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
	ErrAlreadySubmitted = errors.New("form already submitted")
	ErrUnknownField     = errors.New("unknown field")
	ErrNotCheckbox      = errors.New("field is not a checkbox")
)

// ValidationError carries the per-field messages that blocked a submit.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Errors))
}

// Sink receives the values once they pass validation.
type Sink func(ctx context.Context, values map[string]any) error

// Session is the state of one person filling in one form.
type Session struct {
	mu      sync.Mutex
	schema  models.Schema
	values  map[string]any
	errors  map[string]string
	state   State
	lastErr error
}

func NewSession(schema models.Schema) *Session {
	return &Session{
		schema: schema,
		values: map[string]any{},
		errors: map[string]string{},
		state:  StateDraft,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Values returns a copy of the values entered so far.
func (s *Session) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Errors returns a copy of the current field errors.
func (s *Session) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// Err is the failure of the last submit attempt when the session is in StateError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) editable() error {
	switch s.state {
	case StateSubmitting, StateValidating:
		return ErrSubmitInFlight
	case StateSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// Set records a value and clears only that field's error. Other fields are not re-validated.
func (s *Session) Set(fieldID string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	if _, ok := s.schema.FieldByID(fieldID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	s.values[fieldID] = value
	delete(s.errors, fieldID)
	s.state = StateDraft
	return nil
}

// Toggle flips one option of a checkbox field.
func (s *Session) Toggle(fieldID, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	field, ok := s.schema.FieldByID(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}
	if field.Type != models.FieldCheckbox {
		return fmt.Errorf("%w: %s", ErrNotCheckbox, fieldID)
	}
	s.values[fieldID] = ToggleOption(StringList(s.values[fieldID]), option)
	delete(s.errors, fieldID)
	s.state = StateDraft
	return nil
}

// Submit validates every field and hands the values to sink only when none failed.
func (s *Session) Submit(ctx context.Context, sink Sink) error {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StateValidating
	errs := Validate(s.schema, s.values)
	if len(errs) > 0 {
		s.errors = errs
		s.state = StateDraft
		s.mu.Unlock()
		return &ValidationError{Errors: errs}
	}
	s.errors = map[string]string{}
	s.state = StateSubmitting
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	s.mu.Unlock()

	err := sink(ctx, values)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateError
		s.lastErr = err
		return err
	}
	s.state = StateSubmitted
	s.lastErr = nil
	return nil
}

// Reset starts a fresh response on the same schema.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return
	}
	s.values = map[string]any{}
	s.errors = map[string]string{}
	s.lastErr = nil
	s.state = StateDraft
}
