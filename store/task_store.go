package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/10srav/tasksaver/model"
)

// TaskStore handles CRUD for tasks. Every read and write is scoped to the
// owning user; a task of another user behaves like a missing one.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (s *TaskStore) List(ctx context.Context, userID string) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) FindByID(ctx context.Context, userID, taskID string) (*model.Task, error) {
	var task model.Task
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

func (s *TaskStore) Save(ctx context.Context, task *model.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// Delete removes a task outright. Messages referencing it are not touched.
func (s *TaskStore) Delete(ctx context.Context, userID, taskID string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).
		Delete(&model.Task{})
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
