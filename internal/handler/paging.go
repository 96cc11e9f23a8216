package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads ?page= and ?size= with sane bounds. Page numbering is
// zero-based.
func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// pagedResult wraps a page of items with the total row count so clients can
// render pagination without a second request.
type pagedResult struct {
	Items any `json:"items"`
	Total int `json:"total"`
}

// respondRepoErr maps storage sentinels onto status codes for the CRUD
// endpoints, which talk to repositories directly.
func respondRepoErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return respondErr(c, http.StatusNotFound, errors.New("not found"))
	case errors.Is(err, repository.ErrEmailExists):
		return respondErr(c, http.StatusConflict, errors.New("specified email is already in use"))
	}
	c.Logger().Error(err)
	return respondErr(c, http.StatusInternalServerError, errInternal)
}

func pathID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
