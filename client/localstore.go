package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/10srav/tasksaver/model"
)

const (
	tasksFile    = "tasks.json"
	eventsFile   = "events.json"
	messagesFile = "messages.json"
)

// LocalStore keeps tasks and events in JSON files under a cache directory.
// It is both the local-only mode's store and the API mode's fallback
// snapshot. A missing or corrupt file reads as an empty collection.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %q: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func readFile[T any](path string) []T {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var items []T
	if err := json.Unmarshal(buf, &items); err != nil {
		return nil
	}
	return items
}

func writeFile[T any](path string, items []T) error {
	buf, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}

func (s *LocalStore) Tasks() []model.Task {
	return readFile[model.Task](filepath.Join(s.dir, tasksFile))
}

func (s *LocalStore) SaveTasks(tasks []model.Task) error {
	return writeFile(filepath.Join(s.dir, tasksFile), tasks)
}

func (s *LocalStore) Events() []model.Event {
	return readFile[model.Event](filepath.Join(s.dir, eventsFile))
}

func (s *LocalStore) SaveEvents(events []model.Event) error {
	return writeFile(filepath.Join(s.dir, eventsFile), events)
}

func (s *LocalStore) Messages() []model.Message {
	return readFile[model.Message](filepath.Join(s.dir, messagesFile))
}

func (s *LocalStore) SaveMessages(messages []model.Message) error {
	return writeFile(filepath.Join(s.dir, messagesFile), messages)
}

func (s *LocalStore) AddMessage(msg *model.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	return s.SaveMessages(append(s.Messages(), *msg))
}

func (s *LocalStore) AddTask(task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	return s.SaveTasks(append(s.Tasks(), *task))
}

func (s *LocalStore) UpdateTask(task *model.Task) error {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == task.ID {
			task.UpdatedAt = time.Now()
			tasks[i] = *task
			return s.SaveTasks(tasks)
		}
	}
	return fmt.Errorf("task %s not found", task.ID)
}

func (s *LocalStore) DeleteTask(id string) error {
	tasks := s.Tasks()
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	if len(out) == len(tasks) {
		return fmt.Errorf("task %s not found", id)
	}
	return s.SaveTasks(out)
}

func (s *LocalStore) AddEvent(event *model.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	return s.SaveEvents(append(s.Events(), *event))
}

func (s *LocalStore) UpdateEvent(event *model.Event) error {
	events := s.Events()
	for i := range events {
		if events[i].ID == event.ID {
			event.UpdatedAt = time.Now()
			events[i] = *event
			return s.SaveEvents(events)
		}
	}
	return fmt.Errorf("event %s not found", event.ID)
}

func (s *LocalStore) DeleteEvent(id string) error {
	events := s.Events()
	out := events[:0]
	for _, e := range events {
		if e.ID != id {
			out = append(out, e)
		}
	}
	if len(out) == len(events) {
		return fmt.Errorf("event %s not found", id)
	}
	return s.SaveEvents(out)
}
