package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
)

type RoomHandler struct {
	Rooms *repository.RoomRepo
}

func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	return &RoomHandler{Rooms: rooms}
}

type roomReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type roomView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toRoomView(r *model.Room) roomView {
	return roomView{ID: r.ID, Name: r.Name, Description: r.Description}
}

func (req *roomReq) check(v *validator) {
	v.length("name", req.Name, nameMinLen, nameMaxLen)
	v.optionalMax("description", req.Description, descriptionMax)
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	room := &model.Room{Name: req.Name, Description: req.Description}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toRoomView(room))
}

func (h *RoomHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid room id"))
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	room := &model.Room{ID: id, Name: req.Name, Description: req.Description}
	if err := h.Rooms.Edit(c.Request().Context(), room); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toRoomView(room))
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid room id"))
	}
	room, err := h.Rooms.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toRoomView(room))
}

func (h *RoomHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	items, total, err := h.Rooms.List(c.Request().Context(), page, size)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]roomView, 0, len(items))
	for _, r := range items {
		views = append(views, toRoomView(r))
	}
	return respondOK(c, pagedResult{Items: views, Total: total})
}
