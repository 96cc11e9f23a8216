package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
)

// EventHandler manages the schedule: concrete occurrences of lessons in rooms.
type EventHandler struct {
	Events  *repository.EventRepo
	Lessons *repository.LessonRepo
	Rooms   *repository.RoomRepo
}

func NewEventHandler(events *repository.EventRepo, lessons *repository.LessonRepo, rooms *repository.RoomRepo) *EventHandler {
	return &EventHandler{Events: events, Lessons: lessons, Rooms: rooms}
}

type eventReq struct {
	LessonID int64     `json:"lessonId"`
	RoomID   int64     `json:"roomId"`
	StartsAt time.Time `json:"startsAt"`
}

type eventView struct {
	ID             int64     `json:"id"`
	LessonID       int64     `json:"lessonId"`
	LessonName     string    `json:"lessonName,omitempty"`
	DurationMinute int       `json:"durationMinute,omitempty"`
	RoomID         int64     `json:"roomId"`
	RoomName       string    `json:"roomName,omitempty"`
	StartsAt       time.Time `json:"startsAt"`
}

func toEventView(e *model.Event) eventView {
	v := eventView{ID: e.ID, LessonID: e.LessonID, RoomID: e.RoomID, StartsAt: e.StartsAt}
	if e.Lesson != nil {
		v.LessonName = e.Lesson.Name
		v.DurationMinute = e.Lesson.DurationMinute
	}
	if e.Room != nil {
		v.RoomName = e.Room.Name
	}
	return v
}

// Create handles POST /api/v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	v.positive("lessonId", req.LessonID)
	v.positive("roomId", req.RoomID)
	if req.StartsAt.IsZero() {
		v.addf("startsAt", "must be set")
	}
	if v.failed() {
		return v.respond(c)
	}

	ctx := c.Request().Context()
	if _, err := h.Lessons.Get(ctx, req.LessonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, errors.New("lesson not found"))
		}
		return respondRepoErr(c, err)
	}
	if _, err := h.Rooms.Get(ctx, req.RoomID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, errors.New("room not found"))
		}
		return respondRepoErr(c, err)
	}

	e := &model.Event{LessonID: req.LessonID, RoomID: req.RoomID, StartsAt: req.StartsAt.UTC()}
	if err := h.Events.Create(ctx, e); err != nil {
		return respondRepoErr(c, err)
	}
	created, err := h.Events.Get(ctx, e.ID)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toEventView(created))
}

// Delete handles DELETE /api/v1/events/:id.
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid event id"))
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, nil)
}

// Get handles GET /api/v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid event id"))
	}
	e, err := h.Events.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toEventView(e))
}

// List handles GET /api/v1/events?from=...&to=... with RFC 3339 bounds.
// Without bounds it returns the coming week.
func (h *EventHandler) List(c echo.Context) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, err)
	}
	items, err := h.Events.ListRange(c.Request().Context(), from, to)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]eventView, 0, len(items))
	for _, e := range items {
		views = append(views, toEventView(e))
	}
	return respondOK(c, views)
}

func rangeParams(c echo.Context) (from, to time.Time, err error) {
	now := time.Now().UTC()
	from = now.Truncate(24 * time.Hour)
	to = from.AddDate(0, 0, 7)

	if raw := c.QueryParam("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			return from, to, errors.New("from must be RFC 3339")
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			return from, to, errors.New("to must be RFC 3339")
		}
	}
	if !to.After(from) {
		return from, to, errors.New("to must be after from")
	}
	return from, to, nil
}
