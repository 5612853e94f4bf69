package planner

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/10srav/tasksaver/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func testTasks() []model.Task {
	return []model.Task{
		{Model: model.Model{ID: "t1"}, Title: "Pay rent", Status: model.TaskStatusPending, Priority: model.PriorityHigh, DueDate: datePtr(2024, 1, 5), Tags: []string{"finance"}},
		{Model: model.Model{ID: "t2"}, Title: "Buy groceries", Status: model.TaskStatusCompleted, Priority: model.PriorityLow, DueDate: datePtr(2024, 1, 6), Tags: []string{"errands"}},
		{Model: model.Model{ID: "t3"}, Title: "Write report", Description: "Quarterly Finance summary", Status: model.TaskStatusInProgress, Priority: model.PriorityMedium},
	}
}

func taskIDs(tasks []model.Task) []string {
	var ids []string
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestFilterTasks(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "no constraints returns everything",
			filter: Filter{},
			want:   []string{"t1", "t2", "t3"},
		},
		{
			name:   "status OR within kind",
			filter: Filter{Status: []string{model.TaskStatusPending, model.TaskStatusCompleted}},
			want:   []string{"t1", "t2"},
		},
		{
			name:   "kinds combine with AND",
			filter: Filter{Status: []string{model.TaskStatusPending, model.TaskStatusCompleted}, Priority: []string{model.PriorityHigh}},
			want:   []string{"t1"},
		},
		{
			name:   "date range excludes tasks without a due date",
			filter: Filter{DateRange: &DateRange{Start: date(2024, 1, 1), End: date(2024, 1, 31)}},
			want:   []string{"t1", "t2"},
		},
		{
			name:   "date range is day granular and inclusive",
			filter: Filter{DateRange: &DateRange{Start: date(2024, 1, 5), End: date(2024, 1, 5)}},
			want:   []string{"t1"},
		},
		{
			name:   "search is case-insensitive over title",
			filter: Filter{Search: "PAY"},
			want:   []string{"t1"},
		},
		{
			name:   "search matches description",
			filter: Filter{Search: "quarterly"},
			want:   []string{"t3"},
		},
		{
			name:   "search matches tags",
			filter: Filter{Search: "errand"},
			want:   []string{"t2"},
		},
		{
			name:   "tag filter",
			filter: Filter{Tags: []string{"finance", "errands"}},
			want:   []string{"t1", "t2"},
		},
		{
			name:   "no match",
			filter: Filter{Search: "nonexistent"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(FilterTasks(testTasks(), tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterTasks() = %v; want %v", got, tt.want)
			}
		})
	}
}

// Filtering never invents items and is idempotent.
func TestFilterTasksProperties(t *testing.T) {
	tasks := testTasks()
	f := Filter{Status: []string{model.TaskStatusPending, model.TaskStatusInProgress}, Search: "r"}

	once := FilterTasks(tasks, f)
	if len(once) > len(tasks) {
		t.Fatalf("filter returned %d items from %d", len(once), len(tasks))
	}
	byID := map[string]bool{}
	for _, task := range tasks {
		byID[task.ID] = true
	}
	for _, task := range once {
		if !byID[task.ID] {
			t.Errorf("filter invented task %s", task.ID)
		}
	}

	twice := FilterTasks(once, f)
	if !reflect.DeepEqual(taskIDs(once), taskIDs(twice)) {
		t.Errorf("filter not idempotent: %v then %v", taskIDs(once), taskIDs(twice))
	}
}

// Search filtering runs on the server side too, so concurrent calls must be
// safe. This trips the race detector if the case folder is ever shared.
func TestFilterTasksConcurrentSearch(t *testing.T) {
	tasks := testTasks()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := FilterTasks(tasks, Filter{Search: "PAY"})
				if len(got) != 1 || got[0].ID != "t1" {
					t.Errorf("concurrent search = %v; want [t1]", taskIDs(got))
				}
			}
		}()
	}
	wg.Wait()
}

func TestFilterEventsDateOverlap(t *testing.T) {
	events := []model.Event{
		{Model: model.Model{ID: "spanning"}, Title: "Offsite", StartDate: date(2024, 2, 28), EndDate: date(2024, 3, 2)},
		{Model: model.Model{ID: "inside"}, Title: "Standup", StartDate: date(2024, 3, 4), EndDate: date(2024, 3, 4)},
		{Model: model.Model{ID: "after"}, Title: "Review", StartDate: date(2024, 3, 10), EndDate: date(2024, 3, 10)},
	}

	f := Filter{DateRange: &DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 7)}}
	got := FilterEvents(events, f)

	ids := map[string]bool{}
	for _, e := range got {
		ids[e.ID] = true
	}
	if !ids["spanning"] {
		t.Error("event overlapping the range start must be included")
	}
	if !ids["inside"] {
		t.Error("event inside the range must be included")
	}
	if ids["after"] {
		t.Error("event after the range must be excluded")
	}
}
