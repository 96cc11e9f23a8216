package handler

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
)

// Validation bounds shared across handlers. They mirror the storage column
// sizes and the product rules, so the database never sees a value the API
// already knows is out of range.
const (
	passwordMinLen = 6
	passwordMaxLen = 64
	nameMinLen     = 2
	nameMaxLen     = 64
	descriptionMax = 4096

	lessonDurationMin = 15
	lessonDurationMax = 180
	priceMin          = 1.0
	priceMax          = 100000.0
	visitsMin         = 1
	visitsMax         = 100
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validator aggregates field errors so a request reports everything wrong
// with it at once, unlike the workflow which short-circuits on the first
// failed precondition.
type validator struct {
	errs []fieldError
}

func (v *validator) addf(field, format string, args ...any) {
	v.errs = append(v.errs, fieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) length(field, value string, min, max int) {
	if len(value) < min || len(value) > max {
		v.addf(field, "length must be between %d and %d", min, max)
	}
}

func (v *validator) optionalMax(field, value string, max int) {
	if len(value) > max {
		v.addf(field, "length must be at most %d", max)
	}
}

func (v *validator) email(field, value string) {
	v.length(field, value, nameMinLen, nameMaxLen)
	if _, err := mail.ParseAddress(value); err != nil {
		v.addf(field, "must be a valid email address")
	}
}

func (v *validator) intRange(field string, value, min, max int) {
	if value < min || value > max {
		v.addf(field, "must be between %d and %d", min, max)
	}
}

func (v *validator) floatRange(field string, value, min, max float32) {
	if value < min || value > max {
		v.addf(field, "must be between %g and %g", min, max)
	}
}

func (v *validator) positive(field string, value int64) {
	if value <= 0 {
		v.addf(field, "must be positive")
	}
}

func (v *validator) failed() bool { return len(v.errs) > 0 }

// respond writes the aggregated field errors as HTTP 422.
func (v *validator) respond(c echo.Context) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"ok":     false,
		"error":  "validation error",
		"fields": v.errs,
	})
}
