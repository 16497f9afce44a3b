// Package filter holds the pure, in-memory predicates list views apply to an
// already-fetched collection. Every filter composes with logical AND and an
// empty filter matches everything. Nothing here performs I/O.
package filter

import (
	"strings"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

// DateRange selects records by due date relative to today.
type DateRange string

const (
	DateAll       DateRange = "all"
	DateToday     DateRange = "today"
	DateLast5Days DateRange = "last_5_days"
	DateUpcoming  DateRange = "upcoming"
)

const recentWindowDays = 5

// ParseDateRange accepts the known range names; empty means DateAll.
func ParseDateRange(s string) (DateRange, bool) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "", DateAll:
		return DateAll, true
	case DateToday, DateLast5Days, DateUpcoming:
		return r, true
	}
	return "", false
}

// MatchDate reports whether due falls in r. Comparison is per calendar day:
// today's date is taken in its own location and due's date in UTC, where
// due dates are stored as midnight. A missing due date only matches DateAll.
//
//	today        due day == today
//	last_5_days  today-5d < due day < today
//	upcoming     due day > today
func MatchDate(r DateRange, due *time.Time, today time.Time) bool {
	if r == "" || r == DateAll {
		return true
	}
	if due == nil || due.IsZero() {
		return false
	}
	today = domain.CalendarDay(today)
	day := domain.CalendarDay(due.UTC())

	switch r {
	case DateToday:
		return day.Equal(today)
	case DateLast5Days:
		return day.Before(today) && day.After(today.AddDate(0, 0, -recentWindowDays))
	case DateUpcoming:
		return day.After(today)
	}
	return true
}

// MatchEnum is an exact, case-insensitive match. Empty or "all" matches any value.
func MatchEnum(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(want, got)
}

// MatchSearch is a case-insensitive substring match over any of fields.
func MatchSearch(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Apply returns the items matching keep, preserving order. The input slice
// is not modified.
func Apply[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// TaskFilter narrows a task list.
type TaskFilter struct {
	ProjectID string
	Status    string
	Priority  string
	Search    string
	Due       DateRange
}

// Match reports whether t satisfies every set criterion.
func (f TaskFilter) Match(t *domain.Task, today time.Time) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	return MatchEnum(f.Status, string(t.Status)) &&
		MatchEnum(f.Priority, string(t.Priority)) &&
		MatchSearch(f.Search, t.Title, t.Description) &&
		MatchDate(f.Due, t.DueDate, today)
}

// Tasks applies f to tasks.
func Tasks(tasks []*domain.Task, f TaskFilter, today time.Time) []*domain.Task {
	return Apply(tasks, func(t *domain.Task) bool { return f.Match(t, today) })
}

// AssignmentFilter narrows an assignee's list of assignments. Status applies
// to the underlying task's status.
type AssignmentFilter struct {
	Due    DateRange
	Status string
	Search string
}

// Match reports whether a satisfies every set criterion.
func (f AssignmentFilter) Match(a domain.AssignmentView, today time.Time) bool {
	var due *time.Time
	if !a.DueDate.IsZero() {
		due = &a.DueDate
	}
	return MatchDate(f.Due, due, today) &&
		MatchEnum(f.Status, string(a.TaskStatus)) &&
		MatchSearch(f.Search, a.TaskTitle, a.TaskDescription)
}

// Assignments applies f to views.
func Assignments(views []domain.AssignmentView, f AssignmentFilter, today time.Time) []domain.AssignmentView {
	return Apply(views, func(a domain.AssignmentView) bool { return f.Match(a, today) })
}

// RequestFilter narrows a request list.
type RequestFilter struct {
	Status string
	Search string
}

// Requests applies f to views.
func Requests(views []domain.RequestView, f RequestFilter) []domain.RequestView {
	return Apply(views, func(r domain.RequestView) bool {
		return MatchEnum(f.Status, string(r.Status)) && MatchSearch(f.Search, r.Title, r.Description)
	})
}
