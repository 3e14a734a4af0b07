package analytics

import (
	"math/rand"
	"testing"
	"time"

	"Backend-FormGen/src/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sub(data models.SubmissionData, at time.Time) models.Submission {
	return models.Submission{Data: data, CreatedAt: at}
}

func TestTopFieldsTieFollowsFirstEncounter(t *testing.T) {
	at := time.Now()
	forward := []models.Submission{
		sub(models.SubmissionData{"a": 1}, at),
		sub(models.SubmissionData{"a": 2, "b": 1}, at),
		sub(models.SubmissionData{"b": 1}, at),
	}
	want := []FieldCount{{Field: "a", Count: 2}, {Field: "b", Count: 2}}
	if diff := cmp.Diff(want, TopFields(forward, 5)); diff != "" {
		t.Errorf("forward order (-want +got):\n%s", diff)
	}

	backward := []models.Submission{forward[2], forward[1], forward[0]}
	want = []FieldCount{{Field: "b", Count: 2}, {Field: "a", Count: 2}}
	if diff := cmp.Diff(want, TopFields(backward, 5)); diff != "" {
		t.Errorf("backward order (-want +got):\n%s", diff)
	}
}

func TestTopFieldsCountsPresenceAndTruncates(t *testing.T) {
	at := time.Now()
	subs := []models.Submission{
		sub(models.SubmissionData{"a": "", "b": 1, "c": 1, "d": 1, "e": 1, "f": 1}, at),
		sub(models.SubmissionData{"f": 1, "e": 1}, at),
		sub(models.SubmissionData{"f": nil}, at),
	}
	got := TopFields(subs, 0)
	assert.Len(t, got, DefaultTopFields)
	assert.Equal(t, FieldCount{Field: "f", Count: 3}, got[0])
	assert.Equal(t, FieldCount{Field: "e", Count: 2}, got[1])
	assert.Equal(t, "a", got[2].Field)

	assert.Len(t, TopFields(subs, 2), 2)
	assert.Empty(t, TopFields(nil, 5))
}

func TestTopFieldsCountsIgnoreInputOrder(t *testing.T) {
	at := time.Now()
	subs := []models.Submission{
		sub(models.SubmissionData{"a": 1, "b": 1, "c": 1}, at),
		sub(models.SubmissionData{"a": 1, "b": 1}, at),
		sub(models.SubmissionData{"a": 1}, at),
		sub(models.SubmissionData{"d": 1, "c": 1}, at),
	}
	byField := func(fc []FieldCount) map[string]int {
		out := map[string]int{}
		for _, f := range fc {
			out[f.Field] = f.Count
		}
		return out
	}
	baseline := byField(TopFields(subs, 3))

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Submission(nil), subs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, baseline, byField(TopFields(shuffled, 3)))
	}
}

func TestSubmissionsByDayUsesViewerZone(t *testing.T) {
	bangkok := time.FixedZone("ICT", 7*60*60)
	subs := []models.Submission{
		sub(nil, time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)), // 3/11 in Bangkok
		sub(nil, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)),
		sub(nil, time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)),
		sub(nil, time.Date(2024, 12, 1, 1, 0, 0, 0, time.UTC)),
	}

	got := SubmissionsByDay(subs, bangkok)
	want := []DayCount{
		{Date: "3/9/2024", Count: 1},
		{Date: "3/11/2024", Count: 2},
		{Date: "12/1/2024", Count: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SubmissionsByDay (-want +got):\n%s", diff)
	}

	utc := SubmissionsByDay(subs, nil)
	assert.Len(t, utc, 4)
	assert.Empty(t, SubmissionsByDay(nil, bangkok))
}

func TestFormStatsBands(t *testing.T) {
	got := FormStats([]int64{0, 0, 1, 5, 6, 20, 21, 300})
	want := []BandCount{
		{Name: "0 Submissions", Band: BandZero, Value: 2},
		{Name: "1-5 Submissions", Band: BandFew, Value: 2},
		{Name: "6-20 Submissions", Band: BandSome, Value: 2},
		{Name: "21+ Submissions", Band: BandMany, Value: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FormStats (-want +got):\n%s", diff)
	}
}

func dashboardForms() []models.FormWithCount {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mk := func(id, title string, days int, count int64) models.FormWithCount {
		return models.FormWithCount{
			Form:            models.Form{ID: id, Title: title, CreatedAt: base.AddDate(0, 0, days)},
			SubmissionCount: count,
		}
	}
	return []models.FormWithCount{
		mk("1", "Event RSVP", 3, 12),
		mk("2", "bug report", 2, 0),
		mk("3", "Customer Feedback", 2, 4),
		mk("4", "Job application", 0, 40),
	}
}

func ids(forms []models.FormWithCount) []string {
	out := make([]string, len(forms))
	for i, f := range forms {
		out[i] = f.ID
	}
	return out
}

func TestFilterForms(t *testing.T) {
	forms := dashboardForms()

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(FilterForms(forms, "", BandAll, SortLatest)))
	assert.Equal(t, []string{"4", "2", "3", "1"}, ids(FilterForms(forms, "", "", SortOldest)))
	assert.Equal(t, []string{"4", "1", "3", "2"}, ids(FilterForms(forms, "", "", SortMostSubmissions)))
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(FilterForms(forms, "", "", SortLeastSubmissions)))
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(FilterForms(forms, "", "", SortAlphabetical)))

	assert.Equal(t, []string{"3"}, ids(FilterForms(forms, "", BandFew, SortLatest)))
	assert.Equal(t, []string{"1"}, ids(FilterForms(forms, "", BandSome, "")))
	assert.Equal(t, []string{"2"}, ids(FilterForms(forms, "RE", "", "")))

	// input untouched
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(forms))
}

func TestDashboardTotals(t *testing.T) {
	forms := dashboardForms()
	assert.EqualValues(t, 56, TotalSubmissions(forms))
	assert.Equal(t, []int64{12, 0, 4, 40}, Counts(forms))
	assert.Equal(t, FormSubmissions{Name: "Event RSVP", Submissions: 12}, SubmissionsPerForm(forms)[0])

	perDay := FormsPerDay(forms, time.UTC)
	dates := make([]string, len(perDay))
	for i, d := range perDay {
		dates[i] = d.Date
	}
	assert.Equal(t, []string{"1/1/2024", "1/3/2024", "1/4/2024"}, dates)
	assert.Equal(t, 2, perDay[1].Count)
}
