package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/model"
)

func fakeAPI(t *testing.T, healthy bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"error":"database unavailable"}`))
			return
		}
		switch r.URL.Path {
		case "/api/tasks":
			w.Write([]byte(`{"success":true,"data":[{"id":"t1","title":"Pay rent"}]}`))
		case "/api/events":
			w.Write([]byte(`{"success":true,"data":[{"id":"e1","title":"Standup"}]}`))
		case "/api/messages":
			w.Write([]byte(`{"success":true,"data":[{"id":"m1","subject":"Hi","status":"sent"},{"id":"m2","subject":"WIP","status":"draft"}],"pagination":{"page":1,"limit":50,"total":2,"pages":1}}`))
		case "/api/profile":
			w.Write([]byte(`{"success":true,"user":{"id":"u1","name":"Alice","email":"alice@example.com"}}`))
		case "/api/auth/logout":
			w.Write([]byte(`{"success":true,"message":"Logged out"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"error":"not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadAllAPISnapshotsLocally(t *testing.T) {
	srv := fakeAPI(t, true)
	dir := t.TempDir()

	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  srv.URL,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}

	cols, err := d.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(cols.Tasks) != 1 || cols.Tasks[0].Title != "Pay rent" {
		t.Errorf("tasks = %+v; want one task titled Pay rent", cols.Tasks)
	}
	if len(cols.Events) != 1 || cols.Events[0].Title != "Standup" {
		t.Errorf("events = %+v; want one event titled Standup", cols.Events)
	}

	// The fetch must have left a snapshot behind.
	if _, err := os.Stat(filepath.Join(dir, tasksFile)); err != nil {
		t.Errorf("no task snapshot written: %v", err)
	}
}

func TestLoadAllFallbackPolicy(t *testing.T) {
	dir := t.TempDir()

	// Seed a snapshot through a healthy load.
	healthy := fakeAPI(t, true)
	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  healthy.URL,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	if _, err := d.LoadAll(context.Background()); err != nil {
		t.Fatalf("seed load: %v", err)
	}

	broken := fakeAPI(t, false)

	// Fallback enabled: the stale snapshot is served.
	d, err = NewDataLayer(config.Client{
		Mode:            config.ClientModeAPI,
		BaseURL:         broken.URL,
		CacheDir:        dir,
		FallbackOnError: true,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	cols, err := d.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("fallback load: %v", err)
	}
	if len(cols.Tasks) != 1 {
		t.Errorf("fallback tasks = %d; want 1 from snapshot", len(cols.Tasks))
	}

	// Fallback disabled: the error propagates even with a snapshot present.
	d, err = NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  broken.URL,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	if _, err := d.LoadAll(context.Background()); err == nil {
		t.Error("LoadAll succeeded with fallback disabled and a broken server")
	}
}

func TestLoadMessagesFallbackServesFolderViews(t *testing.T) {
	dir := t.TempDir()

	// A folderless fetch refreshes the snapshot.
	healthy := fakeAPI(t, true)
	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  healthy.URL,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	all, err := d.LoadMessages(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("seed load: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("seed load got %d messages; want 2", len(all))
	}

	broken := fakeAPI(t, false)
	d, err = NewDataLayer(config.Client{
		Mode:            config.ClientModeAPI,
		BaseURL:         broken.URL,
		CacheDir:        dir,
		FallbackOnError: true,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}

	// The folder view is computed over the snapshot.
	sent, err := d.LoadMessages(context.Background(), model.FolderSent, 0, 0)
	if err != nil {
		t.Fatalf("fallback load: %v", err)
	}
	if len(sent) != 1 || sent[0].ID != "m1" {
		t.Errorf("fallback sent folder = %d messages; want only m1", len(sent))
	}
	drafts, _ := d.LoadMessages(context.Background(), model.FolderDrafts, 0, 0)
	if len(drafts) != 1 || drafts[0].ID != "m2" {
		t.Errorf("fallback drafts folder = %d messages; want only m2", len(drafts))
	}

	// Without fallback the error propagates.
	d, err = NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  broken.URL,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	if _, err := d.LoadMessages(context.Background(), "", 0, 0); err == nil {
		t.Error("LoadMessages succeeded with fallback disabled and a broken server")
	}
}

func TestProfileAndLogout(t *testing.T) {
	srv := fakeAPI(t, true)
	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeAPI,
		BaseURL:  srv.URL,
		CacheDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	ctx := context.Background()

	user, err := d.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("profile email = %q; want alice@example.com", user.Email)
	}
	if err := d.Logout(ctx); err != nil {
		t.Errorf("Logout: %v", err)
	}

	// Local mode has no session to manage.
	local, err := NewDataLayer(config.Client{Mode: config.ClientModeLocal, CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	if err := local.Logout(ctx); err != nil {
		t.Errorf("local Logout: %v", err)
	}
	if _, err := local.Profile(ctx); err == nil {
		t.Error("local Profile did not error")
	}
}

func TestSendMessageLocalMode(t *testing.T) {
	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeLocal,
		CacheDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	ctx := context.Background()

	sent, err := d.SendMessage(ctx, &model.Message{
		From:    "alice@example.com",
		To:      []string{"bob@example.com"},
		Subject: "Hi",
		Body:    "Hello",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if sent.ID == "" {
		t.Error("local send did not assign an id")
	}
	if sent.Status != model.MessageStatusSent || sent.SentAt == nil {
		t.Errorf("status = %q, sentAt = %v; want sent with a timestamp", sent.Status, sent.SentAt)
	}

	folder, err := d.LoadMessages(ctx, model.FolderSent, 0, 0)
	if err != nil {
		t.Fatalf("LoadMessages: %v", err)
	}
	if len(folder) != 1 || folder[0].ID != sent.ID {
		t.Errorf("sent folder = %d messages; want the sent one", len(folder))
	}
	if drafts, _ := d.LoadMessages(ctx, model.FolderDrafts, 0, 0); len(drafts) != 0 {
		t.Errorf("drafts folder = %d messages; want 0", len(drafts))
	}
}

func TestMutationErrorsAlwaysSurface(t *testing.T) {
	broken := fakeAPI(t, false)
	d, err := NewDataLayer(config.Client{
		Mode:            config.ClientModeAPI,
		BaseURL:         broken.URL,
		CacheDir:        t.TempDir(),
		FallbackOnError: true,
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}

	if _, err := d.CreateTask(context.Background(), &model.Task{Title: "x"}); err == nil {
		t.Error("CreateTask swallowed the server error")
	}
	if err := d.DeleteTask(context.Background(), "t1"); err == nil {
		t.Error("DeleteTask swallowed the server error")
	}
}

func TestLocalModeCRUD(t *testing.T) {
	d, err := NewDataLayer(config.Client{
		Mode:     config.ClientModeLocal,
		CacheDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewDataLayer: %v", err)
	}
	ctx := context.Background()

	task, err := d.CreateTask(ctx, &model.Task{Title: "Water plants"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID == "" {
		t.Fatal("local create did not assign an id")
	}

	task.Title = "Water the plants"
	if _, err := d.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	cols, err := d.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(cols.Tasks) != 1 || cols.Tasks[0].Title != "Water the plants" {
		t.Errorf("tasks = %+v; want the renamed task", cols.Tasks)
	}

	if err := d.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := d.DeleteTask(ctx, task.ID); err == nil {
		t.Error("deleting a deleted task did not error")
	}

	cols, _ = d.LoadAll(ctx)
	if len(cols.Tasks) != 0 {
		t.Errorf("tasks after delete = %d; want 0", len(cols.Tasks))
	}
}

func TestLocalStoreCorruptFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tasksFile), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if got := s.Tasks(); got != nil {
		t.Errorf("Tasks() on corrupt file = %+v; want nil", got)
	}
}
