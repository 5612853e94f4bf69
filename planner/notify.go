package planner

import (
	"time"

	"github.com/10srav/tasksaver/model"
)

// OverdueItems returns uncompleted tasks past their due day and uncompleted
// events past their end day.
func OverdueItems(tasks []model.Task, events []model.Event, now time.Time) ([]model.Task, []model.Event) {
	var overdueTasks []model.Task
	for _, t := range tasks {
		if t.Status == model.TaskStatusCompleted || t.DueDate == nil {
			continue
		}
		if Overdue(*t.DueDate, now) {
			overdueTasks = append(overdueTasks, t)
		}
	}

	var overdueEvents []model.Event
	for _, e := range events {
		if e.Status == model.EventStatusCompleted || e.Status == model.EventStatusCancelled {
			continue
		}
		if EndOfDay(e.EndDate).Before(now) {
			overdueEvents = append(overdueEvents, e)
		}
	}

	return overdueTasks, overdueEvents
}

// UpcomingItems returns uncompleted tasks due and events starting within the
// next 24 hours.
func UpcomingItems(tasks []model.Task, events []model.Event, now time.Time) ([]model.Task, []model.Event) {
	tomorrow := now.Add(24 * time.Hour)

	var upcomingTasks []model.Task
	for _, t := range tasks {
		if t.Status == model.TaskStatusCompleted || t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(now) && !t.DueDate.After(tomorrow) {
			upcomingTasks = append(upcomingTasks, t)
		}
	}

	var upcomingEvents []model.Event
	for _, e := range events {
		if e.Status == model.EventStatusCompleted || e.Status == model.EventStatusCancelled {
			continue
		}
		if !e.StartDate.Before(now) && !e.StartDate.After(tomorrow) {
			upcomingEvents = append(upcomingEvents, e)
		}
	}

	return upcomingTasks, upcomingEvents
}
