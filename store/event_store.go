package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/10srav/tasksaver/model"
	"github.com/10srav/tasksaver/planner"
)

// EventStore handles CRUD for events. Unlike tasks, event reads are global:
// no user filter is applied. See DESIGN.md for the open ownership question.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, event *model.Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventStore) FindByID(ctx context.Context, eventID string) (*model.Event, error) {
	var event model.Event
	if err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		return nil, notFound(err)
	}
	return &event, nil
}

func (s *EventStore) Save(ctx context.Context, event *model.Event) error {
	if err := s.db.WithContext(ctx).Save(event).Error; err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

func (s *EventStore) Delete(ctx context.Context, eventID string) error {
	res := s.db.WithContext(ctx).Where("id = ?", eventID).Delete(&model.Event{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RefreshStatuses advances event statuses from their date intervals:
// upcoming once the window opens becomes ongoing, ongoing past its end
// becomes completed. Cancelled events are never touched. End dates count at
// day granularity: an event whose end date is stored as midnight stays
// ongoing through the whole of its last day.
func (s *EventStore) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	var changed int64
	dayStart := planner.StartOfDay(now)

	res := s.db.WithContext(ctx).Model(&model.Event{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", model.EventStatusUpcoming, now, dayStart).
		Update("status", model.EventStatusOngoing)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh ongoing: %w", res.Error)
	}
	changed += res.RowsAffected

	res = s.db.WithContext(ctx).Model(&model.Event{}).
		Where("status IN ? AND end_date < ?", []string{model.EventStatusUpcoming, model.EventStatusOngoing}, dayStart).
		Update("status", model.EventStatusCompleted)
	if res.Error != nil {
		return changed, fmt.Errorf("refresh completed: %w", res.Error)
	}
	changed += res.RowsAffected

	return changed, nil
}
