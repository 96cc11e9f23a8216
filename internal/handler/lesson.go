package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
)

// LessonHandler manages class templates. A lesson must reference an existing
// person flagged as trainer.
type LessonHandler struct {
	Lessons *repository.LessonRepo
	Persons *repository.PersonRepo
}

func NewLessonHandler(lessons *repository.LessonRepo, persons *repository.PersonRepo) *LessonHandler {
	return &LessonHandler{Lessons: lessons, Persons: persons}
}

var (
	errTrainerNotFound = errors.New("trainer not found")
	errNotATrainer     = errors.New("person is not a trainer")
)

type lessonReq struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	TrainerID      int64   `json:"trainerId"`
	DurationMinute int     `json:"durationMinute"`
	BasePrice      float32 `json:"basePrice"`
}

type lessonView struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	TrainerID      int64   `json:"trainerId"`
	TrainerName    string  `json:"trainerName,omitempty"`
	DurationMinute int     `json:"durationMinute"`
	BasePrice      float32 `json:"basePrice"`
}

func toLessonView(l *model.Lesson) lessonView {
	v := lessonView{
		ID:             l.ID,
		Name:           l.Name,
		Description:    l.Description,
		TrainerID:      l.TrainerID,
		DurationMinute: l.DurationMinute,
		BasePrice:      l.BasePrice,
	}
	if l.Trainer != nil {
		v.TrainerName = l.Trainer.FirstName + " " + l.Trainer.LastName
	}
	return v
}

func (req *lessonReq) check(v *validator) {
	v.length("name", req.Name, nameMinLen, nameMaxLen)
	v.optionalMax("description", req.Description, descriptionMax)
	v.positive("trainerId", req.TrainerID)
	v.intRange("durationMinute", req.DurationMinute, lessonDurationMin, lessonDurationMax)
	v.floatRange("basePrice", req.BasePrice, priceMin, priceMax)
}

// checkTrainer verifies the referenced person exists and is a trainer.
func (h *LessonHandler) checkTrainer(ctx context.Context, trainerID int64) error {
	trainer, err := h.Persons.Get(ctx, trainerID)
	if errors.Is(err, repository.ErrNotFound) {
		return errTrainerNotFound
	}
	if err != nil {
		return err
	}
	if !trainer.IsTrainer {
		return errNotATrainer
	}
	return nil
}

func respondTrainerErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errTrainerNotFound):
		return respondErr(c, http.StatusNotFound, err)
	case errors.Is(err, errNotATrainer):
		return respondErr(c, http.StatusBadRequest, err)
	}
	return respondRepoErr(c, err)
}

func (h *LessonHandler) Create(c echo.Context) error {
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	ctx := c.Request().Context()
	if err := h.checkTrainer(ctx, req.TrainerID); err != nil {
		return respondTrainerErr(c, err)
	}
	l := &model.Lesson{
		Name:           req.Name,
		Description:    req.Description,
		TrainerID:      req.TrainerID,
		DurationMinute: req.DurationMinute,
		BasePrice:      req.BasePrice,
	}
	if err := h.Lessons.Create(ctx, l); err != nil {
		return respondRepoErr(c, err)
	}
	created, err := h.Lessons.Get(ctx, l.ID)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toLessonView(created))
}

func (h *LessonHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid lesson id"))
	}
	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	ctx := c.Request().Context()
	if err := h.checkTrainer(ctx, req.TrainerID); err != nil {
		return respondTrainerErr(c, err)
	}
	l := &model.Lesson{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		TrainerID:      req.TrainerID,
		DurationMinute: req.DurationMinute,
		BasePrice:      req.BasePrice,
	}
	if err := h.Lessons.Edit(ctx, l); err != nil {
		return respondRepoErr(c, err)
	}
	updated, err := h.Lessons.Get(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toLessonView(updated))
}

func (h *LessonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid lesson id"))
	}
	l, err := h.Lessons.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toLessonView(l))
}

func (h *LessonHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	items, total, err := h.Lessons.List(c.Request().Context(), page, size)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]lessonView, 0, len(items))
	for _, l := range items {
		views = append(views, toLessonView(l))
	}
	return respondOK(c, pagedResult{Items: views, Total: total})
}
