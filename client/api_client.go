// Package client is the data layer used by the agenda CLI: an API-backed
// mode speaking to tasksaverd and a local file mode, selected once at
// startup, with an explicit fallback policy for failed remote loads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/10srav/tasksaver/model"
	"github.com/10srav/tasksaver/store"
)

// APIClient is a typed client over the REST surface. The cookie jar carries
// the auth cookie after Login. Every call is a single attempt; there are no
// retries and no idempotency keys, so retrying a create can duplicate.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string) (*APIClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

type apiEnvelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	User       json.RawMessage   `json:"user"`
	Token      string            `json:"token"`
	Message    string            `json:"message"`
	Error      string            `json:"error"`
	Pagination *store.Pagination `json:"pagination"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body interface{}) (*apiEnvelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s %s: %s", method, path, msg)
	}
	return &env, nil
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*model.User, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(env.User, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil)
	return err
}

func (c *APIClient) Profile(ctx context.Context) (*model.User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal(env.User, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (c *APIClient) ListTasks(ctx context.Context) ([]model.Task, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/tasks", nil)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := json.Unmarshal(env.Data, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (c *APIClient) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/tasks", task)
	if err != nil {
		return nil, err
	}
	var out model.Task
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &out, nil
}

func (c *APIClient) UpdateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/tasks/"+task.ID, task)
	if err != nil {
		return nil, err
	}
	var out model.Task
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &out, nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil)
	return err
}

func (c *APIClient) ListEvents(ctx context.Context) ([]model.Event, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/events", nil)
	if err != nil {
		return nil, err
	}
	var events []model.Event
	if err := json.Unmarshal(env.Data, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (c *APIClient) CreateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/events", event)
	if err != nil {
		return nil, err
	}
	var out model.Event
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &out, nil
}

func (c *APIClient) UpdateEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/events/"+event.ID, event)
	if err != nil {
		return nil, err
	}
	var out model.Event
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &out, nil
}

func (c *APIClient) DeleteEvent(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/events/"+id, nil)
	return err
}

func (c *APIClient) ListMessages(ctx context.Context, folder string, limit, page int) ([]model.Message, *store.Pagination, error) {
	params := url.Values{}
	if folder != "" {
		params.Set("folder", folder)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	path := "/api/messages"
	if q := params.Encode(); q != "" {
		path += "?" + q
	}

	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	var messages []model.Message
	if err := json.Unmarshal(env.Data, &messages); err != nil {
		return nil, nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, env.Pagination, nil
}

func (c *APIClient) SendMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	payload := struct {
		ID string `json:"id,omitempty"`
		*model.Message
	}{ID: msg.ID, Message: msg}

	env, err := c.do(ctx, http.MethodPost, "/api/messages/send", payload)
	if err != nil {
		return nil, err
	}
	var out model.Message
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &out, nil
}
