// Package analytics derives chart data from submissions and forms that were already fetched.
// Nothing here touches storage.
package analytics

import (
	"sort"
	"strings"
	"time"

	"Backend-FormGen/src/models"
)

// DayLabelLayout formats a calendar day as M/D/YYYY.
const DayLabelLayout = "1/2/2006"

// DefaultTopFields is the number of keys TopFields keeps when no limit is given.
const DefaultTopFields = 5

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type FieldCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

type BandCount struct {
	Name  string `json:"name"`
	Band  Band   `json:"band"`
	Value int    `json:"value"`
}

type FormSubmissions struct {
	Name        string `json:"name"`
	Submissions int64  `json:"submissions"`
}

// countByDay groups timestamps by calendar day in loc and returns the days in ascending order.
func countByDay(times []time.Time, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.UTC
	}
	type day struct {
		start time.Time
		count int
	}
	days := map[string]*day{}
	for _, ts := range times {
		local := ts.In(loc)
		label := local.Format(DayLabelLayout)
		d, ok := days[label]
		if !ok {
			y, m, dd := local.Date()
			d = &day{start: time.Date(y, m, dd, 0, 0, 0, 0, loc)}
			days[label] = d
		}
		d.count++
	}

	labels := make([]string, 0, len(days))
	for label := range days {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return days[labels[i]].start.Before(days[labels[j]].start)
	})

	out := make([]DayCount, 0, len(labels))
	for _, label := range labels {
		out = append(out, DayCount{Date: label, Count: days[label].count})
	}
	return out
}

// SubmissionsByDay counts submissions per calendar day in loc, oldest day first.
// Days without submissions are left out.
func SubmissionsByDay(subs []models.Submission, loc *time.Location) []DayCount {
	times := make([]time.Time, len(subs))
	for i, s := range subs {
		times[i] = s.CreatedAt
	}
	return countByDay(times, loc)
}

// FormsPerDay counts form creations per calendar day in loc, oldest day first.
func FormsPerDay(forms []models.FormWithCount, loc *time.Location) []DayCount {
	times := make([]time.Time, len(forms))
	for i, f := range forms {
		times[i] = f.CreatedAt
	}
	return countByDay(times, loc)
}

// TopFields counts how many submissions carry each data key, highest first.
// Equal counts keep the order in which the keys were first seen; keys inside
// one submission are visited in lexical order.
func TopFields(subs []models.Submission, limit int) []FieldCount {
	if limit <= 0 {
		limit = DefaultTopFields
	}
	counts := map[string]int{}
	order := []string{}
	for _, s := range subs {
		keys := make([]string, 0, len(s.Data))
		for k := range s.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, seen := counts[k]; !seen {
				order = append(order, k)
			}
			counts[k]++
		}
	}

	out := make([]FieldCount, len(order))
	for i, k := range order {
		out[i] = FieldCount{Field: k, Count: counts[k]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Band is a submission-count bucket of the dashboard distribution chart.
type Band string

const (
	BandAll  Band = "all"
	BandZero Band = "0"
	BandFew  Band = "1-5"
	BandSome Band = "6-20"
	BandMany Band = "21+"
)

var bands = []struct {
	band Band
	name string
}{
	{BandZero, "0 Submissions"},
	{BandFew, "1-5 Submissions"},
	{BandSome, "6-20 Submissions"},
	{BandMany, "21+ Submissions"},
}

// BandOf places a submission count in its band.
func BandOf(count int64) Band {
	switch {
	case count <= 0:
		return BandZero
	case count <= 5:
		return BandFew
	case count <= 20:
		return BandSome
	default:
		return BandMany
	}
}

// FormStats buckets counts that the caller already queried; it never counts anything itself.
func FormStats(counts []int64) []BandCount {
	tally := map[Band]int{}
	for _, c := range counts {
		tally[BandOf(c)]++
	}
	out := make([]BandCount, len(bands))
	for i, b := range bands {
		out[i] = BandCount{Name: b.name, Band: b.band, Value: tally[b.band]}
	}
	return out
}

// Counts pulls the submission counts out of a form list.
func Counts(forms []models.FormWithCount) []int64 {
	out := make([]int64, len(forms))
	for i, f := range forms {
		out[i] = f.SubmissionCount
	}
	return out
}

// TotalSubmissions sums the submission counts of forms.
func TotalSubmissions(forms []models.FormWithCount) int64 {
	var total int64
	for _, f := range forms {
		total += f.SubmissionCount
	}
	return total
}

// SubmissionsPerForm lists each form title with its submission count, in list order.
func SubmissionsPerForm(forms []models.FormWithCount) []FormSubmissions {
	out := make([]FormSubmissions, len(forms))
	for i, f := range forms {
		out[i] = FormSubmissions{Name: f.Title, Submissions: f.SubmissionCount}
	}
	return out
}

// Sort orders of the dashboard form list.
type Sort string

const (
	SortLatest           Sort = "latest"
	SortOldest           Sort = "oldest"
	SortMostSubmissions  Sort = "mostSubmissions"
	SortLeastSubmissions Sort = "leastSubmissions"
	SortAlphabetical     Sort = "alphabetical"
)

// FilterForms applies the dashboard title search, band filter and sort. The input is not modified.
func FilterForms(forms []models.FormWithCount, search string, band Band, order Sort) []models.FormWithCount {
	needle := strings.ToLower(search)
	out := make([]models.FormWithCount, 0, len(forms))
	for _, f := range forms {
		if needle != "" && !strings.Contains(strings.ToLower(f.Title), needle) {
			continue
		}
		if band != "" && band != BandAll && BandOf(f.SubmissionCount) != band {
			continue
		}
		out = append(out, f)
	}

	var less func(a, b models.FormWithCount) bool
	switch order {
	case SortLatest:
		less = func(a, b models.FormWithCount) bool { return a.CreatedAt.After(b.CreatedAt) }
	case SortOldest:
		less = func(a, b models.FormWithCount) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortMostSubmissions:
		less = func(a, b models.FormWithCount) bool { return a.SubmissionCount > b.SubmissionCount }
	case SortLeastSubmissions:
		less = func(a, b models.FormWithCount) bool { return a.SubmissionCount < b.SubmissionCount }
	case SortAlphabetical:
		less = func(a, b models.FormWithCount) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}
