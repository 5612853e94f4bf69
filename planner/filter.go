package planner

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/10srav/tasksaver/model"
)

// DateRange is inclusive on both ends and compared at day granularity.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter narrows a collection. Kinds combine with AND; within a kind,
// membership is OR. Empty slices and zero values mean "no constraint".
type Filter struct {
	Status    []string
	Priority  []string
	Tags      []string
	DateRange *DateRange
	Search    string
}

// Casers carry internal state and are not safe for concurrent use, so each
// fold gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// FilterTasks returns the tasks satisfying every supplied predicate. A task
// without a due date never matches a date-range filter.
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if !matchSet(f.Status, t.Status) {
			continue
		}
		if !matchSet(f.Priority, t.Priority) {
			continue
		}
		if !matchTags(f.Tags, t.Tags) {
			continue
		}
		if f.DateRange != nil {
			if t.DueDate == nil {
				continue
			}
			due := StartOfDay(*t.DueDate)
			if due.Before(StartOfDay(f.DateRange.Start)) || due.After(EndOfDay(f.DateRange.End)) {
				continue
			}
		}
		if !matchSearch(f.Search, t.Title, t.Description, t.Tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterEvents is FilterTasks for events; the date-range predicate is an
// interval overlap test instead of a point check.
func FilterEvents(events []model.Event, f Filter) []model.Event {
	var out []model.Event
	for _, e := range events {
		if !matchSet(f.Status, e.Status) {
			continue
		}
		if !matchSet(f.Priority, e.Priority) {
			continue
		}
		if !matchTags(f.Tags, e.Tags) {
			continue
		}
		if f.DateRange != nil {
			start := StartOfDay(e.StartDate)
			end := EndOfDay(e.EndDate)
			if end.Before(StartOfDay(f.DateRange.Start)) || start.After(EndOfDay(f.DateRange.End)) {
				continue
			}
		}
		if !matchSearch(f.Search, e.Title, e.Description, e.Tags) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchSet(wanted []string, value string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if w == value {
			return true
		}
	}
	return false
}

func matchTags(wanted, tags []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, t := range tags {
			if w == t {
				return true
			}
		}
	}
	return false
}

// matchSearch is a case-folded substring match over title, description and
// tags; a hit on any of them satisfies the predicate.
func matchSearch(term, title, description string, tags []string) bool {
	if term == "" {
		return true
	}
	term = fold(term)
	if strings.Contains(fold(title), term) {
		return true
	}
	if description != "" && strings.Contains(fold(description), term) {
		return true
	}
	for _, t := range tags {
		if strings.Contains(fold(t), term) {
			return true
		}
	}
	return false
}
