package planner

import (
	"testing"
	"time"

	"github.com/10srav/tasksaver/model"
)

func TestMonthGrid(t *testing.T) {
	grid := MonthGrid(date(2024, 3, 15))

	if len(grid)%7 != 0 {
		t.Fatalf("month grid has %d days; want a multiple of 7", len(grid))
	}
	if grid[0].Weekday() != time.Sunday {
		t.Errorf("grid starts on %s; want Sunday", grid[0].Weekday())
	}

	// 2024-03-01 is a Friday, 2024-03-31 a Sunday: padded to Feb 25 .. Apr 6.
	if !SameDay(grid[0], date(2024, 2, 25)) {
		t.Errorf("grid starts %v; want 2024-02-25", grid[0])
	}
	if !SameDay(grid[len(grid)-1], date(2024, 4, 6)) {
		t.Errorf("grid ends %v; want 2024-04-06", grid[len(grid)-1])
	}

	// Every day of March present exactly once.
	seen := map[int]int{}
	for _, d := range grid {
		if d.Month() == time.March {
			seen[d.Day()]++
		}
	}
	for day := 1; day <= 31; day++ {
		if seen[day] != 1 {
			t.Errorf("March %d appears %d times in grid", day, seen[day])
		}
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(date(2024, 3, 13)) // a Wednesday
	if len(days) != 7 {
		t.Fatalf("week has %d days; want 7", len(days))
	}
	if !SameDay(days[0], date(2024, 3, 10)) {
		t.Errorf("week starts %v; want Sunday 2024-03-10", days[0])
	}
}

func TestDayHours(t *testing.T) {
	hours := DayHours()
	if len(hours) != 17 {
		t.Fatalf("day view has %d slots; want 17 (06..22 inclusive)", len(hours))
	}
	if hours[0] != 6 || hours[len(hours)-1] != 22 {
		t.Errorf("slots run %d..%d; want 6..22", hours[0], hours[len(hours)-1])
	}
}

// A task with a due date lands in exactly one day cell of the month view
// covering that date.
func TestTaskInExactlyOneMonthCell(t *testing.T) {
	task := model.Task{Model: model.Model{ID: "t"}, Title: "Pay rent", DueDate: datePtr(2024, 1, 5)}
	grid := MonthGrid(date(2024, 1, 15))

	hits := 0
	for _, day := range grid {
		if len(TasksOnDay([]model.Task{task}, day)) > 0 {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("task appears in %d cells; want 1", hits)
	}
}

// An event spanning 3 days appears in exactly 3 day cells.
func TestEventSpansThreeCells(t *testing.T) {
	event := model.Event{
		Model:     model.Model{ID: "e"},
		Title:     "Conference",
		StartDate: date(2024, 3, 4),
		EndDate:   date(2024, 3, 6),
	}
	grid := MonthGrid(date(2024, 3, 1))

	hits := 0
	for _, day := range grid {
		if len(EventsOnDay([]model.Event{event}, day)) > 0 {
			hits++
		}
	}
	if hits != 3 {
		t.Errorf("event appears in %d cells; want 3", hits)
	}
}

func TestEventsOnDaySpanning(t *testing.T) {
	// Event fully spanning the day must be included.
	event := model.Event{
		Model:     model.Model{ID: "e"},
		StartDate: date(2024, 3, 1),
		EndDate:   date(2024, 3, 10),
	}
	if len(EventsOnDay([]model.Event{event}, date(2024, 3, 5))) != 1 {
		t.Error("event spanning across the day must belong to it")
	}
}

func TestHourSlots(t *testing.T) {
	tasks := []model.Task{
		{Model: model.Model{ID: "nine"}, DueTime: "09:30"},
		{Model: model.Model{ID: "none"}}, // no time: never in an hour slot
		{Model: model.Model{ID: "ninetoo"}, DueTime: "09:00"},
	}

	at9 := TasksAtHour(tasks, 9)
	if len(at9) != 2 {
		t.Fatalf("hour 9 has %d tasks; want 2", len(at9))
	}

	total := 0
	for _, h := range DayHours() {
		total += len(TasksAtHour(tasks, h))
	}
	if total != 2 {
		t.Errorf("timeless task was assigned an hour slot (total %d; want 2)", total)
	}
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		input string
		hour  int
		ok    bool
	}{
		{"09:30", 9, true},
		{"22:00", 22, true},
		{"0:15", 0, true},
		{"", 0, false},
		{"930", 0, false},
		{"xx:30", 0, false},
		{"25:00", 0, false},
	}

	for _, tt := range tests {
		hour, ok := ParseHour(tt.input)
		if ok != tt.ok || (ok && hour != tt.hour) {
			t.Errorf("ParseHour(%q) = %d, %v; want %d, %v", tt.input, hour, ok, tt.hour, tt.ok)
		}
	}
}
