package submission

import (
	"context"
	"fmt"
	"testing"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/repository"
	"Backend-FormGen/src/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedForm(t *testing.T, store *testutil.MemoryStore, public bool) *models.Form {
	t.Helper()
	form := &models.Form{
		UserID:   "owner",
		Title:    "Survey",
		Schema:   models.Schema{Fields: []models.Field{{ID: "q", Label: "Q", Type: models.FieldText}}},
		IsPublic: public,
	}
	require.NoError(t, store.CreateForm(context.Background(), form))
	return form
}

func newTestService(store repository.Store) *Service {
	svc := NewService(store, zap.NewNop())
	clock := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestSubmitRejectedForPrivateForm(t *testing.T) {
	store := testutil.NewMemoryStore()
	form := seedForm(t, store, false)
	svc := newTestService(store)

	_, err := svc.Submit(context.Background(), form.ID, nil, map[string]any{"q": "hi"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Zero(t, store.SubmissionCount())
}

func TestSubmitUnknownForm(t *testing.T) {
	svc := newTestService(testutil.NewMemoryStore())
	_, err := svc.Submit(context.Background(), "nope", nil, map[string]any{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSubmitStoresValuesVerbatim(t *testing.T) {
	store := testutil.NewMemoryStore()
	form := seedForm(t, store, true)
	svc := newTestService(store)
	user := "u1"

	values := map[string]any{"q": "hi", "extra": []any{"a"}}
	sub, err := svc.Submit(context.Background(), form.ID, &user, values)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionData(values), sub.Data)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 1, 0, time.UTC), sub.CreatedAt)

	// visible to a list issued after the submit returned
	page, err := svc.List(context.Background(), form.ID, models.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, page.Submissions, 1)
	assert.Equal(t, sub.ID, page.Submissions[0].ID)
}

func TestListPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	form := seedForm(t, store, true)
	svc := newTestService(store)

	for i := 0; i < 30; i++ {
		_, err := svc.Submit(ctx, form.ID, nil, map[string]any{"q": fmt.Sprintf("answer %02d", i)})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, form.ID, models.PaginationParams{Page: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 30, first.Total)
	require.Len(t, first.Submissions, models.DefaultSubmissionPageSize)
	assert.Equal(t, "answer 29", first.Submissions[0].Data["q"])

	second, err := svc.List(ctx, form.ID, models.PaginationParams{Page: 2})
	require.NoError(t, err)
	require.Len(t, second.Submissions, 5)
	assert.Equal(t, "answer 04", second.Submissions[0].Data["q"])
	assert.Equal(t, "answer 00", second.Submissions[4].Data["q"])
}

func TestRecentSpansOwnedFormsOnly(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	svc := newTestService(store)

	survey := seedForm(t, store, true)
	poll := &models.Form{UserID: "owner", Title: "Poll", IsPublic: true}
	foreign := &models.Form{UserID: "someone", Title: "Theirs", IsPublic: true}
	require.NoError(t, store.CreateForm(ctx, poll))
	require.NoError(t, store.CreateForm(ctx, foreign))

	for i, f := range []*models.Form{survey, poll, foreign, survey} {
		_, err := svc.Submit(ctx, f.ID, nil, map[string]any{"q": fmt.Sprintf("v%d", i)})
		require.NoError(t, err)
	}

	got, err := svc.Recent(ctx, "owner", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "v3", got[0].Data["q"])
	assert.Equal(t, "Survey", got[0].FormTitle)
	assert.Equal(t, "Poll", got[1].FormTitle)
	assert.Equal(t, "v0", got[2].Data["q"])

	got, err = svc.Recent(ctx, "owner", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.Recent(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecentCapsLimit(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	form := seedForm(t, store, true)
	svc := newTestService(store)
	for i := 0; i < MaxRecent+5; i++ {
		_, err := svc.Submit(ctx, form.ID, nil, map[string]any{"q": i})
		require.NoError(t, err)
	}

	got, err := svc.Recent(ctx, "owner", 1000)
	require.NoError(t, err)
	assert.Len(t, got, MaxRecent)
}

func TestListSearchOnlyFiltersThePage(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	form := seedForm(t, store, true)
	svc := newTestService(store)

	_, err := svc.Submit(ctx, form.ID, nil, map[string]any{"q": "needle"})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, form.ID, nil, map[string]any{"q": "hay"})
		require.NoError(t, err)
	}

	// the only match sits on page 2 when the page size is 3
	page1, err := svc.List(ctx, form.ID, models.PaginationParams{Page: 1, Limit: 3, Search: "NEEDLE"})
	require.NoError(t, err)
	assert.Empty(t, page1.Submissions)
	assert.EqualValues(t, 4, page1.Total)

	page2, err := svc.List(ctx, form.ID, models.PaginationParams{Page: 2, Limit: 3, Search: "NEEDLE"})
	require.NoError(t, err)
	require.Len(t, page2.Submissions, 1)
	assert.Equal(t, "needle", page2.Submissions[0].Data["q"])
}

func TestGetIsScopedToForm(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemoryStore()
	a := seedForm(t, store, true)
	b := seedForm(t, store, true)
	svc := newTestService(store)

	sub, err := svc.Submit(ctx, a.ID, nil, map[string]any{"q": "x"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, a.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	_, err = svc.Get(ctx, b.ID, sub.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSummary(t *testing.T) {
	u1, u2 := "u1", "u2"
	form := &models.Form{Schema: models.Schema{Fields: []models.Field{{ID: "a"}, {ID: "b"}}}}
	subs := []models.Submission{
		{UserID: &u1, CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{UserID: &u2, CreatedAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{UserID: &u1, CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := Summary(form, 40, subs)
	assert.Equal(t, models.SubmissionSummary{
		TotalSubmissions: 40,
		UniqueUsers:      2,
		Fields:           2,
		LatestSubmission: "2024-01-05T00:00:00Z",
	}, got)

	assert.Equal(t, "N/A", Summary(form, 0, nil).LatestSubmission)
}

func TestFilterPageIgnoresCase(t *testing.T) {
	subs := []models.Submission{
		{ID: "1", Data: models.SubmissionData{"city": "Bangkok"}},
		{ID: "2", Data: models.SubmissionData{"city": "Chiang Mai"}},
	}
	got := FilterPage(subs, "bang")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Len(t, FilterPage(subs, "  "), 2)
}
