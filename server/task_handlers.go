package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/model"
)

func (s *Server) getTasks(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	tasks, err := s.tasks.List(c.Request().Context(), user.ID)
	if err != nil {
		c.Logger().Error("list tasks: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to fetch tasks")
	}
	return ok(c, tasks)
}

func (s *Server) postTask(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var task model.Task
	if err := c.Bind(&task); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(task.Title) == "" {
		return fail(c, http.StatusBadRequest, "Title is required")
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	// Ownership comes from the token, never from the payload.
	task.ID = ""
	task.UserID = user.ID

	if err := s.tasks.Create(c.Request().Context(), &task); err != nil {
		c.Logger().Error("create task: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to create task")
	}
	return created(c, task)
}

func (s *Server) getTask(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	task, err := s.tasks.FindByID(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Task not found", "Failed to fetch task")
	}
	return ok(c, task)
}

func (s *Server) putTask(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()
	task, err := s.tasks.FindByID(ctx, user.ID, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Task not found", "Failed to update task")
	}

	// Bind over the stored row so omitted fields keep their values.
	patched := *task
	if err := c.Bind(&patched); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(patched.Title) == "" {
		return fail(c, http.StatusBadRequest, "Title is required")
	}
	patched.ID = task.ID
	patched.UserID = task.UserID
	patched.CreatedAt = task.CreatedAt

	if err := s.tasks.Save(ctx, &patched); err != nil {
		c.Logger().Error("save task: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to update task")
	}
	return ok(c, patched)
}

func (s *Server) deleteTask(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := s.tasks.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return storeFail(c, err, "Task not found", "Failed to delete task")
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Task deleted successfully"})
}
