package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/model"
)

// Event reads and writes require a login but are not scoped to the owner:
// every authenticated user sees and may mutate every event. UserID is
// recorded on create and carried as metadata only.

func (s *Server) getEvents(c echo.Context) error {
	if _, err := s.currentUser(c); err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	events, err := s.events.List(c.Request().Context())
	if err != nil {
		c.Logger().Error("list events: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to fetch events")
	}
	return ok(c, events)
}

func (s *Server) postEvent(c echo.Context) error {
	user, err := s.currentUser(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var event model.Event
	if err := c.Bind(&event); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(event.Title) == "" {
		return fail(c, http.StatusBadRequest, "Title is required")
	}
	if event.StartDate.IsZero() || event.EndDate.IsZero() {
		return fail(c, http.StatusBadRequest, "Start and end dates are required")
	}
	if event.Priority == "" {
		event.Priority = model.PriorityMedium
	}
	if event.Status == "" {
		event.Status = model.EventStatusUpcoming
	}
	event.ID = ""
	event.UserID = user.ID

	if err := s.events.Create(c.Request().Context(), &event); err != nil {
		c.Logger().Error("create event: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to create event")
	}
	return created(c, event)
}

func (s *Server) getEvent(c echo.Context) error {
	if _, err := s.currentUser(c); err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	event, err := s.events.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Event not found", "Failed to fetch event")
	}
	return ok(c, event)
}

func (s *Server) putEvent(c echo.Context) error {
	if _, err := s.currentUser(c); err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	ctx := c.Request().Context()
	event, err := s.events.FindByID(ctx, c.Param("id"))
	if err != nil {
		return storeFail(c, err, "Event not found", "Failed to update event")
	}

	patched := *event
	if err := c.Bind(&patched); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(patched.Title) == "" {
		return fail(c, http.StatusBadRequest, "Title is required")
	}
	patched.ID = event.ID
	patched.UserID = event.UserID
	patched.CreatedAt = event.CreatedAt

	if err := s.events.Save(ctx, &patched); err != nil {
		c.Logger().Error("save event: ", err)
		return fail(c, http.StatusInternalServerError, "Failed to update event")
	}
	return ok(c, patched)
}

func (s *Server) deleteEvent(c echo.Context) error {
	if _, err := s.currentUser(c); err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	if err := s.events.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return storeFail(c, err, "Event not found", "Failed to delete event")
	}
	return c.JSON(http.StatusOK, Response{Success: true, Message: "Event deleted successfully"})
}
