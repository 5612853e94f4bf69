package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/10srav/tasksaver/store"
)

// Response is the envelope every endpoint answers with. The HTTP status
// mirrors the semantic outcome; Success duplicates it for clients that only
// look at the body.
type Response struct {
	Success    bool              `json:"success"`
	Data       interface{}       `json:"data,omitempty"`
	User       interface{}       `json:"user,omitempty"`
	Token      string            `json:"token,omitempty"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Pagination *store.Pagination `json:"pagination,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: false, Error: msg})
}

// storeFail maps a store error onto the taxonomy: unknown id is 404,
// everything else is a 500 with the operation's message.
func storeFail(c echo.Context, err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, notFoundMsg)
	}
	c.Logger().Error(failMsg, ": ", err)
	return fail(c, http.StatusInternalServerError, failMsg)
}
