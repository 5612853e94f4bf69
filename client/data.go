package client

import (
	"context"
	"fmt"
	"time"

	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/model"
)

// Collections is the working set the views render from.
type Collections struct {
	Tasks  []model.Task
	Events []model.Event
}

// DataLayer mediates all reads and writes between the views and their
// backend. The mode is fixed at construction; transient network state never
// flips it. Fallback applies to loads only: a failed mutation always
// surfaces to the caller so the user sees it.
type DataLayer struct {
	mode     string
	api      *APIClient
	local    *LocalStore
	fallback bool
}

func NewDataLayer(cfg config.Client) (*DataLayer, error) {
	local, err := NewLocalStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}

	d := &DataLayer{
		mode:     cfg.Mode,
		local:    local,
		fallback: cfg.FallbackOnError,
	}
	if cfg.Mode == config.ClientModeAPI {
		api, err := NewAPIClient(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		d.api = api
	}
	return d, nil
}

// Login authenticates the API mode. Local mode has no accounts.
func (d *DataLayer) Login(ctx context.Context, email, password string) (*model.User, error) {
	if d.api == nil {
		return nil, fmt.Errorf("login requires api mode")
	}
	return d.api.Login(ctx, email, password)
}

// Logout ends the API session. Local mode has nothing to end.
func (d *DataLayer) Logout(ctx context.Context) error {
	if d.api == nil {
		return nil
	}
	return d.api.Logout(ctx)
}

func (d *DataLayer) Profile(ctx context.Context) (*model.User, error) {
	if d.api == nil {
		return nil, fmt.Errorf("profile requires api mode")
	}
	return d.api.Profile(ctx)
}

// LoadAll fetches tasks and events. In API mode a successful fetch is
// snapshotted locally; a failed fetch degrades to the snapshot when fallback
// is enabled. Staleness is preferred to total failure, which also means a
// genuine server-side data loss can be masked by an old snapshot.
func (d *DataLayer) LoadAll(ctx context.Context) (Collections, error) {
	if d.mode == config.ClientModeLocal {
		return Collections{Tasks: d.local.Tasks(), Events: d.local.Events()}, nil
	}

	tasks, err := d.api.ListTasks(ctx)
	if err != nil {
		return d.loadFallback(err)
	}
	events, err := d.api.ListEvents(ctx)
	if err != nil {
		return d.loadFallback(err)
	}

	// Best-effort snapshot; a write failure does not fail the load.
	_ = d.local.SaveTasks(tasks)
	_ = d.local.SaveEvents(events)

	return Collections{Tasks: tasks, Events: events}, nil
}

func (d *DataLayer) loadFallback(cause error) (Collections, error) {
	if !d.fallback {
		return Collections{}, cause
	}
	return Collections{Tasks: d.local.Tasks(), Events: d.local.Events()}, nil
}

// LoadMessages fetches one folder view. The load-fallback policy matches
// LoadAll; only the folderless listing refreshes the snapshot so a narrow
// folder fetch never shrinks it.
func (d *DataLayer) LoadMessages(ctx context.Context, folder string, limit, page int) ([]model.Message, error) {
	if d.mode == config.ClientModeLocal {
		return folderView(d.local.Messages(), folder), nil
	}

	messages, _, err := d.api.ListMessages(ctx, folder, limit, page)
	if err != nil {
		if !d.fallback {
			return nil, err
		}
		return folderView(d.local.Messages(), folder), nil
	}
	if folder == "" {
		_ = d.local.SaveMessages(messages)
	}
	return messages, nil
}

// SendMessage marks the message sent. API mode defers to the server; local
// mode stamps and stores it.
func (d *DataLayer) SendMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if d.mode == config.ClientModeLocal {
		now := time.Now()
		msg.Status = model.MessageStatusSent
		msg.SentAt = &now
		if err := d.local.AddMessage(msg); err != nil {
			return nil, err
		}
		return msg, nil
	}
	out, err := d.api.SendMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	_ = d.local.SaveMessages(append(d.local.Messages(), *out))
	return out, nil
}

// folderView mirrors the server's folder semantics over the local snapshot.
func folderView(messages []model.Message, folder string) []model.Message {
	var out []model.Message
	for _, m := range messages {
		if messageInFolder(m, folder) {
			out = append(out, m)
		}
	}
	return out
}

func messageInFolder(m model.Message, folder string) bool {
	switch folder {
	case model.FolderInbox:
		return m.Status == model.MessageStatusSent || m.Status == model.MessageStatusDraft
	case model.FolderSent:
		return m.Status == model.MessageStatusSent
	case model.FolderDrafts:
		return m.Status == model.MessageStatusDraft
	case model.FolderStarred:
		return m.IsStarred
	case model.FolderImportant:
		return m.IsImportant
	case model.FolderArchived:
		return m.Status == model.MessageStatusArchived
	case model.FolderTrash:
		return m.Status == model.MessageStatusDeleted
	default:
		return true
	}
}

func (d *DataLayer) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	if d.mode == config.ClientModeLocal {
		if err := d.local.AddTask(task); err != nil {
			return nil, err
		}
		return task, nil
	}
	out, err := d.api.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	_ = d.local.SaveTasks(append(d.local.Tasks(), *out))
	return out, nil
}

func (d *DataLayer) UpdateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	if d.mode == config.ClientModeLocal {
		if err := d.local.UpdateTask(task); err != nil {
			return nil, err
		}
		return task, nil
	}
	out, err := d.api.UpdateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	_ = d.local.UpdateTask(out)
	return out, nil
}

func (d *DataLayer) DeleteTask(ctx context.Context, id string) error {
	if d.mode == config.ClientModeLocal {
		return d.local.DeleteTask(id)
	}
	if err := d.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	_ = d.local.DeleteTask(id)
	return nil
}

func (d *DataLayer) CreateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	if d.mode == config.ClientModeLocal {
		if err := d.local.AddEvent(event); err != nil {
			return nil, err
		}
		return event, nil
	}
	out, err := d.api.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	_ = d.local.SaveEvents(append(d.local.Events(), *out))
	return out, nil
}

func (d *DataLayer) UpdateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	if d.mode == config.ClientModeLocal {
		if err := d.local.UpdateEvent(event); err != nil {
			return nil, err
		}
		return event, nil
	}
	out, err := d.api.UpdateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	_ = d.local.UpdateEvent(out)
	return out, nil
}

func (d *DataLayer) DeleteEvent(ctx context.Context, id string) error {
	if d.mode == config.ClientModeLocal {
		return d.local.DeleteEvent(id)
	}
	if err := d.api.DeleteEvent(ctx, id); err != nil {
		return err
	}
	_ = d.local.DeleteEvent(id)
	return nil
}
