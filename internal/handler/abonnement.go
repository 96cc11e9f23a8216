package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
)

// AbonnementHandler manages subscription products and their sale to clients.
type AbonnementHandler struct {
	Abonnements *repository.AbonnementRepo
	Sold        *repository.SoldAbonnementRepo
	Persons     *repository.PersonRepo
}

func NewAbonnementHandler(abonnements *repository.AbonnementRepo, sold *repository.SoldAbonnementRepo, persons *repository.PersonRepo) *AbonnementHandler {
	return &AbonnementHandler{Abonnements: abonnements, Sold: sold, Persons: persons}
}

type abonnementReq struct {
	Name              string  `json:"name"`
	Validity          string  `json:"validity"` // ONE_MONTH | THREE_MONTHS | SIX_MONTHS | YEAR
	MaxNumberOfVisits int     `json:"maxNumberOfVisits"`
	BasePrice         float32 `json:"basePrice"`
	MaxDiscount       int     `json:"maxDiscount"` // percent, one of the discount steps
	LessonIDs         []int64 `json:"lessonIds"`
}

type abonnementView struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Validity          string  `json:"validity"`
	MaxNumberOfVisits int     `json:"maxNumberOfVisits"`
	BasePrice         float32 `json:"basePrice"`
	MaxDiscount       int     `json:"maxDiscount"`
	LessonIDs         []int64 `json:"lessonIds"`
}

type sellReq struct {
	PersonID int64 `json:"personId"`
	Discount int   `json:"discount"` // percent, must not exceed the product max
}

type soldAbonnementView struct {
	ID                int64     `json:"id"`
	PersonID          int64     `json:"personId"`
	Active            bool      `json:"active"`
	DateSale          time.Time `json:"dateSale"`
	DateExpiration    time.Time `json:"dateExpiration"`
	PriceSold         float32   `json:"priceSold"`
	Discount          int       `json:"discount"`
	VisitCounter      int       `json:"visitCounter"`
	Name              string    `json:"name"`
	Validity          string    `json:"validity"`
	MaxNumberOfVisits int       `json:"maxNumberOfVisits"`
	BasePrice         float32   `json:"basePrice"`
	LessonIDs         []int64   `json:"lessonIds"`
}

func toAbonnementView(a *model.Abonnement) abonnementView {
	return abonnementView{
		ID:                a.ID,
		Name:              a.Name,
		Validity:          a.Validity.String(),
		MaxNumberOfVisits: a.MaxNumberOfVisits,
		BasePrice:         a.BasePrice,
		MaxDiscount:       int(a.MaxDiscount.Code()),
		LessonIDs:         a.LessonIDs,
	}
}

func toSoldView(s *model.SoldAbonnement) soldAbonnementView {
	return soldAbonnementView{
		ID:                s.ID,
		PersonID:          s.PersonID,
		Active:            s.Active,
		DateSale:          s.DateSale,
		DateExpiration:    s.DateExpiration,
		PriceSold:         s.PriceSold,
		Discount:          int(s.Discount.Code()),
		VisitCounter:      s.VisitCounter,
		Name:              s.Name,
		Validity:          s.Validity.String(),
		MaxNumberOfVisits: s.MaxNumberOfVisits,
		BasePrice:         s.BasePrice,
		LessonIDs:         s.LessonIDs,
	}
}

func (req *abonnementReq) check(v *validator) (model.AbonnementValidity, model.Discount) {
	v.length("name", req.Name, nameMinLen, nameMaxLen)
	v.intRange("maxNumberOfVisits", req.MaxNumberOfVisits, visitsMin, visitsMax)
	v.floatRange("basePrice", req.BasePrice, priceMin, priceMax)

	validity, verr := model.ParseValidity(req.Validity)
	if verr != nil {
		v.addf("validity", "must be one of ONE_MONTH, THREE_MONTHS, SIX_MONTHS, YEAR")
	}
	discount, derr := parseDiscount(req.MaxDiscount)
	if derr != nil {
		v.addf("maxDiscount", "must be one of the allowed discount steps")
	}
	for _, id := range req.LessonIDs {
		if id <= 0 {
			v.addf("lessonIds", "must contain positive ids")
			break
		}
	}
	return validity, discount
}

func parseDiscount(percent int) (model.Discount, error) {
	if percent < 0 || percent > 255 {
		return 0, errors.New("discount out of range")
	}
	return model.DiscountFromCode(byte(percent))
}

func (h *AbonnementHandler) Create(c echo.Context) error {
	var req abonnementReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	validity, discount := req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	a := &model.Abonnement{
		Name:              req.Name,
		Validity:          validity,
		MaxNumberOfVisits: req.MaxNumberOfVisits,
		BasePrice:         req.BasePrice,
		MaxDiscount:       discount,
		LessonIDs:         req.LessonIDs,
	}
	if err := h.Abonnements.Create(c.Request().Context(), a); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toAbonnementView(a))
}

func (h *AbonnementHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid abonnement id"))
	}
	var req abonnementReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	validity, discount := req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	a := &model.Abonnement{
		ID:                id,
		Name:              req.Name,
		Validity:          validity,
		MaxNumberOfVisits: req.MaxNumberOfVisits,
		BasePrice:         req.BasePrice,
		MaxDiscount:       discount,
		LessonIDs:         req.LessonIDs,
	}
	if err := h.Abonnements.Edit(c.Request().Context(), a); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toAbonnementView(a))
}

func (h *AbonnementHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid abonnement id"))
	}
	a, err := h.Abonnements.Get(c.Request().Context(), id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toAbonnementView(a))
}

func (h *AbonnementHandler) List(c echo.Context) error {
	page, size := pageParams(c)
	items, total, err := h.Abonnements.List(c.Request().Context(), page, size)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]abonnementView, 0, len(items))
	for _, a := range items {
		views = append(views, toAbonnementView(a))
	}
	return respondOK(c, pagedResult{Items: views, Total: total})
}

// Sell handles POST /api/v1/abonnements/:id/sell. The sale snapshots the
// product: later edits to the abonnement never change what was sold.
func (h *AbonnementHandler) Sell(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid abonnement id"))
	}
	var req sellReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	v.positive("personId", req.PersonID)
	discount, derr := parseDiscount(req.Discount)
	if derr != nil {
		v.addf("discount", "must be one of the allowed discount steps")
	}
	if v.failed() {
		return v.respond(c)
	}

	ctx := c.Request().Context()
	a, err := h.Abonnements.Get(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if _, err := h.Persons.Get(ctx, req.PersonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, errors.New("person not found"))
		}
		return respondRepoErr(c, err)
	}
	if discount.Code() > a.MaxDiscount.Code() {
		return respondErr(c, http.StatusBadRequest, errors.New("discount exceeds the abonnement maximum"))
	}

	now := time.Now().UTC()
	sold := &model.SoldAbonnement{
		PersonID:          req.PersonID,
		Active:            true,
		DateSale:          now,
		DateExpiration:    now.AddDate(0, a.Validity.Months(), 0),
		PriceSold:         a.BasePrice * (1 - discount.Fraction()),
		Discount:          discount,
		VisitCounter:      0,
		Name:              a.Name,
		Validity:          a.Validity,
		MaxNumberOfVisits: a.MaxNumberOfVisits,
		BasePrice:         a.BasePrice,
		LessonIDs:         a.LessonIDs,
	}
	if err := h.Sold.Create(ctx, sold); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, toSoldView(sold))
}

// SoldByPerson handles GET /api/v1/persons/:id/abonnements.
func (h *AbonnementHandler) SoldByPerson(c echo.Context) error {
	personID, err := pathID(c, "id")
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid person id"))
	}
	ctx := c.Request().Context()
	if _, err := h.Persons.Get(ctx, personID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return respondErr(c, http.StatusNotFound, errors.New("person not found"))
		}
		return respondRepoErr(c, err)
	}
	items, err := h.Sold.ListByPerson(ctx, personID)
	if err != nil {
		return respondRepoErr(c, err)
	}
	views := make([]soldAbonnementView, 0, len(items))
	for _, s := range items {
		views = append(views, toSoldView(s))
	}
	return respondOK(c, views)
}
