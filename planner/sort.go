package planner

import (
	"sort"
	"time"

	"github.com/10srav/tasksaver/model"
)

var priorityRank = map[string]int{
	model.PriorityHigh:   3,
	model.PriorityMedium: 2,
	model.PriorityLow:    1,
}

// SortTasksByDate orders tasks by due date ascending. Tasks without a due
// date always sort last; ties keep their input order.
func SortTasksByDate(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DueDate, out[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})
	return out
}

// SortEventsByDate orders events by start date ascending, stable on ties.
func SortEventsByDate(events []model.Event) []model.Event {
	out := append([]model.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// SortTasksByPriority orders high > medium > low, preserving input order
// between tasks of equal priority.
func SortTasksByPriority(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
	})
	return out
}

func SortEventsByPriority(events []model.Event) []model.Event {
	out := append([]model.Event(nil), events...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank[out[i].Priority] > priorityRank[out[j].Priority]
	})
	return out
}

// SortTasksByCreated orders newest first.
func SortTasksByCreated(tasks []model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Overdue reports whether a date's day has fully passed relative to now.
func Overdue(date, now time.Time) bool {
	return EndOfDay(date).Before(now)
}
