package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(config.Database{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func TestTaskOwnershipIsolation(t *testing.T) {
	db := testDB(t)
	tasks := NewTaskStore(db)
	ctx := context.Background()

	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	task := &model.Task{UserID: "alice", Title: "Pay rent", DueDate: &due, Status: model.TaskStatusPending, Priority: model.PriorityMedium}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	aliceTasks, err := tasks.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list alice: %v", err)
	}
	if len(aliceTasks) != 1 {
		t.Fatalf("alice has %d tasks; want 1", len(aliceTasks))
	}

	bobTasks, err := tasks.List(ctx, "bob")
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if len(bobTasks) != 0 {
		t.Errorf("bob sees %d of alice's tasks; want 0", len(bobTasks))
	}

	// Direct lookup across users behaves like a missing row.
	if _, err := tasks.FindByID(ctx, "bob", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user FindByID error = %v; want ErrNotFound", err)
	}
	if err := tasks.Delete(ctx, "bob", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user Delete error = %v; want ErrNotFound", err)
	}
}

func TestTaskHardDelete(t *testing.T) {
	db := testDB(t)
	tasks := NewTaskStore(db)
	ctx := context.Background()

	task := &model.Task{UserID: "alice", Title: "Temp", Status: model.TaskStatusPending, Priority: model.PriorityLow}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tasks.Delete(ctx, "alice", task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := tasks.FindByID(ctx, "alice", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted task still found (err = %v)", err)
	}
}

func TestMessageFoldersAndSoftDelete(t *testing.T) {
	db := testDB(t)
	messages := NewMessageStore(db)
	ctx := context.Background()

	mk := func(status string, starred bool) *model.Message {
		msg := &model.Message{
			UserID:    "alice",
			From:      "alice@example.com",
			To:        []string{"bob@example.com"},
			Subject:   "s",
			Body:      "b",
			Status:    status,
			IsStarred: starred,
			Priority:  model.MessagePriorityNormal,
		}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("create message: %v", err)
		}
		return msg
	}

	sent := mk(model.MessageStatusSent, true)
	draft := mk(model.MessageStatusDraft, false)
	mk(model.MessageStatusArchived, false)

	inbox, _, err := messages.List(ctx, "alice", MessageQuery{Folder: model.FolderInbox})
	if err != nil {
		t.Fatalf("list inbox: %v", err)
	}
	if len(inbox) != 2 {
		t.Errorf("inbox has %d messages; want 2 (sent+draft)", len(inbox))
	}

	starred, _, err := messages.List(ctx, "alice", MessageQuery{Folder: model.FolderStarred})
	if err != nil {
		t.Fatalf("list starred: %v", err)
	}
	if len(starred) != 1 || starred[0].ID != sent.ID {
		t.Errorf("starred folder = %d messages; want the one starred message", len(starred))
	}

	// Soft delete: row survives as status=deleted.
	trashed, err := messages.MoveToTrash(ctx, "alice", sent.ID)
	if err != nil {
		t.Fatalf("move to trash: %v", err)
	}
	if trashed.Status != model.MessageStatusDeleted {
		t.Errorf("status after delete = %q; want deleted", trashed.Status)
	}

	inbox, _, _ = messages.List(ctx, "alice", MessageQuery{Folder: model.FolderInbox})
	for _, m := range inbox {
		if m.ID == sent.ID {
			t.Error("trashed message still listed in inbox")
		}
	}
	sentFolder, _, _ := messages.List(ctx, "alice", MessageQuery{Folder: model.FolderSent})
	for _, m := range sentFolder {
		if m.ID == sent.ID {
			t.Error("trashed message still listed in sent")
		}
	}

	trash, _, _ := messages.List(ctx, "alice", MessageQuery{Folder: model.FolderTrash})
	if len(trash) != 1 || trash[0].ID != sent.ID {
		t.Errorf("trash folder = %d messages; want the trashed one", len(trash))
	}

	// Still retrievable by direct id lookup.
	got, err := messages.FindByID(ctx, "alice", sent.ID)
	if err != nil {
		t.Fatalf("trashed message not retrievable by id: %v", err)
	}
	if got.Status != model.MessageStatusDeleted {
		t.Errorf("retrieved status = %q; want deleted", got.Status)
	}

	drafts, _, err := messages.List(ctx, "alice", MessageQuery{Folder: model.FolderDrafts})
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].ID != draft.ID {
		t.Errorf("drafts folder = %d messages; want the one draft", len(drafts))
	}
}

func TestMessagePagination(t *testing.T) {
	db := testDB(t)
	messages := NewMessageStore(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		msg := &model.Message{
			UserID:   "alice",
			From:     "alice@example.com",
			To:       []string{"bob@example.com"},
			Subject:  "s",
			Body:     "b",
			Status:   model.MessageStatusSent,
			Priority: model.MessagePriorityNormal,
		}
		if err := messages.Create(ctx, msg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, p, err := messages.List(ctx, "alice", MessageQuery{Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page 2 has %d messages; want 2", len(page))
	}
	if p.Total != 5 || p.Pages != 3 {
		t.Errorf("pagination = %+v; want total 5, pages 3", p)
	}
}

func TestEventStatusRefresh(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)
	ctx := context.Background()
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)

	mk := func(id string, start, end time.Time, status string) {
		e := &model.Event{
			Model:     model.Model{ID: id},
			Title:     id,
			StartDate: start,
			EndDate:   end,
			Status:    status,
			Priority:  model.PriorityMedium,
		}
		if err := events.Create(ctx, e); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	// Date-only payloads store midnight timestamps; a single-day event must
	// stay ongoing for the whole of its day.
	midnight := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	mk("future", now.AddDate(0, 0, 1), now.AddDate(0, 0, 2), model.EventStatusUpcoming)
	mk("running", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1), model.EventStatusUpcoming)
	mk("today", midnight, midnight, model.EventStatusUpcoming)
	mk("endsToday", now.AddDate(0, 0, -2), midnight, model.EventStatusOngoing)
	mk("past", now.AddDate(0, 0, -3), now.AddDate(0, 0, -2), model.EventStatusUpcoming)
	mk("cancelled", now.AddDate(0, 0, -3), now.AddDate(0, 0, -2), model.EventStatusCancelled)

	if _, err := events.RefreshStatuses(ctx, now); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	want := map[string]string{
		"future":    model.EventStatusUpcoming,
		"running":   model.EventStatusOngoing,
		"today":     model.EventStatusOngoing,
		"endsToday": model.EventStatusOngoing,
		"past":      model.EventStatusCompleted,
		"cancelled": model.EventStatusCancelled,
	}
	for id, status := range want {
		e, err := events.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find %s: %v", id, err)
		}
		if e.Status != status {
			t.Errorf("event %s status = %q; want %q", id, e.Status, status)
		}
	}
}
