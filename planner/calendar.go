package planner

import (
	"time"

	"github.com/10srav/tasksaver/model"
)

// Hour slots shown in the day view.
const (
	DayViewFirstHour = 6
	DayViewLastHour  = 22
)

// MonthGrid returns the calendar days displayed for the month containing
// ref: the month padded with leading and trailing days to full
// Sunday-started weeks. Always a multiple of 7 days.
func MonthGrid(ref time.Time) []time.Time {
	start := StartOfWeek(StartOfMonth(ref))
	end := EndOfWeek(EndOfMonth(ref))
	return eachDay(start, end)
}

// WeekDays returns the 7 days of the week containing ref.
func WeekDays(ref time.Time) []time.Time {
	start := StartOfWeek(ref)
	return eachDay(start, start.AddDate(0, 0, 6))
}

// DayHours returns the hour slots of the day view, 06:00 through 22:00
// inclusive.
func DayHours() []int {
	hours := make([]int, 0, DayViewLastHour-DayViewFirstHour+1)
	for h := DayViewFirstHour; h <= DayViewLastHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

func eachDay(start, end time.Time) []time.Time {
	var days []time.Time
	for d := StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TasksOnDay returns the tasks whose due date falls inside the day's
// [00:00, 23:59:59.999] window. Tasks without a due date belong to no day.
func TasksOnDay(tasks []model.Task, day time.Time) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.DueDate != nil && SameDay(*t.DueDate, day) {
			out = append(out, t)
		}
	}
	return out
}

// EventsOnDay returns the events whose [startDate, endDate] interval
// overlaps the day, including events spanning across it entirely.
func EventsOnDay(events []model.Event, day time.Time) []model.Event {
	dayStart := StartOfDay(day)
	dayEnd := EndOfDay(day)
	var out []model.Event
	for _, e := range events {
		if EndOfDay(e.EndDate).Before(dayStart) || StartOfDay(e.StartDate).After(dayEnd) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// TasksAtHour narrows a day's tasks to one hour slot by the "HH" prefix of
// the due time. Tasks without a time are omitted, not defaulted.
func TasksAtHour(tasks []model.Task, hour int) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if h, ok := ParseHour(t.DueTime); ok && h == hour {
			out = append(out, t)
		}
	}
	return out
}

// EventsAtHour narrows a day's events to one hour slot by the start time.
func EventsAtHour(events []model.Event, hour int) []model.Event {
	var out []model.Event
	for _, e := range events {
		if h, ok := ParseHour(e.StartTime); ok && h == hour {
			out = append(out, e)
		}
	}
	return out
}
