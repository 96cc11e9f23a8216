package handler

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
)

// PersonHandler exposes person management. Access grants are not handled
// here; they belong to the auth lifecycle.
type PersonHandler struct {
	Persons *repository.PersonRepo
}

func NewPersonHandler(persons *repository.PersonRepo) *PersonHandler {
	return &PersonHandler{Persons: persons}
}

type personReq struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Description string `json:"description"`
	IsTrainer   bool   `json:"isTrainer"`
}

type personView struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Description string `json:"description,omitempty"`
	IsTrainer   bool   `json:"isTrainer"`
	HaveAuth    bool   `json:"haveAuth"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
	Status      string `json:"status,omitempty"`
}

func toPersonView(p *model.Person) personView {
	v := personView{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Description: p.Description,
		IsTrainer:   p.IsTrainer,
		HaveAuth:    p.HaveAuth,
	}
	if p.Auth != nil {
		v.Email = p.Auth.Email
		v.Role = p.Auth.Role.String()
		v.Status = p.Auth.Status.String()
	}
	return v
}

func (req *personReq) check(v *validator) {
	v.length("firstName", req.FirstName, nameMinLen, nameMaxLen)
	v.length("lastName", req.LastName, nameMinLen, nameMaxLen)
	v.optionalMax("description", req.Description, descriptionMax)
}

// titleName upper-cases the first letter; names are stored in that form.
func titleName(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Create handles POST /api/v1/persons.
func (h *PersonHandler) Create(c echo.Context) error {
	var req personReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	p := &model.Person{
		FirstName:   titleName(req.FirstName),
		LastName:    titleName(req.LastName),
		Description: req.Description,
		IsTrainer:   req.IsTrainer,
	}
	if err := h.Persons.Create(c.Request().Context(), p); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toPersonView(p))
}

// Edit handles PUT /api/v1/persons/:id.
func (h *PersonHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid person id"))
	}
	var req personReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	p := &model.Person{
		ID:          id,
		FirstName:   titleName(req.FirstName),
		LastName:    titleName(req.LastName),
		Description: req.Description,
		IsTrainer:   req.IsTrainer,
	}
	if err := h.Persons.Edit(c.Request().Context(), p); err != nil {
		return respondRepoErr(c, err)
	}
	updated, err := h.Persons.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toPersonView(updated))
}

// Get handles GET /api/v1/persons/:id.
func (h *PersonHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid person id"))
	}
	p, err := h.Persons.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toPersonView(p))
}

// List handles GET /api/v1/persons.
func (h *PersonHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	items, total, err := h.Persons.List(c.Request().Context(), page, size)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]personView, 0, len(items))
	for _, p := range items {
		views = append(views, toPersonView(p))
	}
	return respondOK(c, pagedResult{Items: views, Total: total})
}
