// Package testutil holds the timing harness and the in-memory store shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/repository"

	"github.com/google/uuid"
)

// TestTimer is a utility for measuring test execution time
type TestTimer struct {
	start time.Time
	name  string
}

// NewTestTimer creates a new test timer
func NewTestTimer(name string) *TestTimer {
	return &TestTimer{
		start: time.Now(),
		name:  name,
	}
}

// Stop stops the timer and prints the duration
func (t *TestTimer) Stop() time.Duration {
	duration := time.Since(t.start)
	fmt.Printf("⏱️  %s took %v\n", t.name, duration)
	return duration
}

// PerformanceAssertion checks if a test meets performance requirements
func PerformanceAssertion(t *testing.T, testName string, duration time.Duration, maxDuration time.Duration) {
	t.Helper()
	if duration > maxDuration {
		t.Errorf("❌ %s performance test failed: took %v, expected less than %v", testName, duration, maxDuration)
	} else {
		t.Logf("✅ %s performance test passed: took %v (under %v limit)", testName, duration, maxDuration)
	}
}

// TestResult represents the result of a test with timing information
type TestResult struct {
	Name     string
	Duration time.Duration
	Passed   bool
}

// TestSuiteResult collects timed results and prints a summary at the end of a suite.
type TestSuiteResult struct {
	SuiteName   string
	TotalTests  int
	PassedTests int
	TotalTime   time.Duration
	Results     []TestResult
}

func NewTestSuiteResult(suiteName string) *TestSuiteResult {
	return &TestSuiteResult{SuiteName: suiteName}
}

// Track times one subtest and records whether it passed.
func (tsr *TestSuiteResult) Track(t *testing.T, name string) func() {
	timer := NewTestTimer(name)
	return func() {
		d := timer.Stop()
		tsr.TotalTests++
		tsr.TotalTime += d
		if !t.Failed() {
			tsr.PassedTests++
		}
		tsr.Results = append(tsr.Results, TestResult{Name: name, Duration: d, Passed: !t.Failed()})
	}
}

func (tsr *TestSuiteResult) PrintSummary() {
	if tsr.TotalTests == 0 {
		return
	}
	fmt.Printf("\n📊 Test Suite Summary: %s\n", tsr.SuiteName)
	fmt.Printf("   Total Tests: %d\n", tsr.TotalTests)
	fmt.Printf("   Passed: %d ✅\n", tsr.PassedTests)
	fmt.Printf("   Failed: %d ❌\n", tsr.TotalTests-tsr.PassedTests)
	fmt.Printf("   Total Time: %v\n", tsr.TotalTime)
	for _, r := range tsr.Results {
		status := "✅"
		if !r.Passed {
			status = "❌"
		}
		fmt.Printf("   %s %s: %v\n", status, r.Name, r.Duration)
	}
	fmt.Println()
}

// MemoryStore is a repository.Store kept in process memory.
type MemoryStore struct {
	mu          sync.Mutex
	forms       map[string]models.Form
	submissions []models.Submission

	// FailWith, when set, is returned by every call.
	FailWith error
}

var _ repository.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{forms: map[string]models.Form{}}
}

func (m *MemoryStore) CreateForm(ctx context.Context, form *models.Form) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	m.forms[form.ID] = *form
	return nil
}

func (m *MemoryStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	f, ok := m.forms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (m *MemoryStore) ListFormsByUser(ctx context.Context, userID string) ([]models.Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := []models.Form{}
	for _, f := range m.forms {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) DeleteForm(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.forms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.forms, id)
	kept := m.submissions[:0]
	for _, s := range m.submissions {
		if s.FormID != id {
			kept = append(kept, s)
		}
	}
	m.submissions = kept
	return nil
}

func (m *MemoryStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.forms[sub.FormID]; !ok {
		return errors.New("foreign key violation: form does not exist")
	}
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	m.submissions = append(m.submissions, *sub)
	return nil
}

func (m *MemoryStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, s := range m.submissions {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ListSubmissions orders newest first; equal timestamps keep the later insert first.
func (m *MemoryStore) ListSubmissions(ctx context.Context, formID string, skip, limit int64) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	matched := []models.Submission{}
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if m.submissions[i].FormID == formID {
			matched = append(matched, m.submissions[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if skip >= int64(len(matched)) {
		return []models.Submission{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MemoryStore) ListSubmissionsByForms(ctx context.Context, formIDs []string, limit int64) ([]models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	wanted := map[string]bool{}
	for _, id := range formIDs {
		wanted[id] = true
	}
	matched := []models.Submission{}
	for i := len(m.submissions) - 1; i >= 0; i-- {
		if wanted[m.submissions[i].FormID] {
			matched = append(matched, m.submissions[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MemoryStore) CountSubmissions(ctx context.Context, formID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	var n int64
	for _, s := range m.submissions {
		if s.FormID == formID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

// SubmissionCount is used by tests asserting that nothing was written.
func (m *MemoryStore) SubmissionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.submissions)
}
