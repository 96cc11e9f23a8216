package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/auth"
	"github.com/uritmix/studio-api/internal/model"
)

// AuthHandler exposes the session and account lifecycle over HTTP. Every
// endpoint binds, validates, delegates to the workflow service and maps the
// sentinel it gets back onto a status code.
type AuthHandler struct {
	Svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// ----- DTOs -----

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenReq struct {
	Token string `json:"token"`
}

type codePasswordReq struct {
	ConfirmCode     string `json:"confirmCode"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type resetQueryReq struct {
	Email string `json:"email"`
}

type grantAccessReq struct {
	Email string `json:"email"`
	Role  string `json:"role"` // ADMIN | MANAGER | SERVER
}

type loggedPersonView struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// authStatus maps each workflow sentinel to its HTTP status. Unknown errors
// are infrastructure failures and surface as 500 with a generic message.
func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrCredential),
		errors.Is(err, auth.ErrRefreshTokenInvalid),
		errors.Is(err, auth.ErrRefreshTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrPersonBlocked),
		errors.Is(err, auth.ErrUserBlocked),
		errors.Is(err, auth.ErrNotActivated):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrPersonNotFound),
		errors.Is(err, auth.ErrEmailNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrAlreadyHasAccess),
		errors.Is(err, auth.ErrEmailInUse):
		return http.StatusConflict
	case errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrInvalidCode):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var errInternal = errors.New("internal error")

func respondAuthErr(c echo.Context, err error) error {
	status := authStatus(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
		return respondErr(c, status, errInternal)
	}
	return respondErr(c, status, err)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	v.email("email", req.Email)
	v.length("password", req.Password, passwordMinLen, passwordMaxLen)
	if v.failed() {
		return v.respond(c)
	}

	logged, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, toLoggedView(logged))
}

// Logout handles POST /api/v1/auth/logout. Logging out twice is an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return respondErr(c, http.StatusBadRequest, errors.New("token required"))
	}
	if err := h.Svc.Logout(c.Request().Context(), req.Token); err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, nil)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return respondErr(c, http.StatusBadRequest, errors.New("token required"))
	}
	logged, err := h.Svc.Refresh(c.Request().Context(), req.Token)
	if err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, toLoggedView(logged))
}

// PasswordResetQuery handles POST /api/v1/auth/password-reset-query.
func (h *AuthHandler) PasswordResetQuery(c echo.Context) error {
	var req resetQueryReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	v.email("email", req.Email)
	if v.failed() {
		return v.respond(c)
	}
	if err := h.Svc.PasswordResetQuery(c.Request().Context(), req.Email); err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, nil)
}

// PasswordReset handles POST /api/v1/auth/password-reset.
func (h *AuthHandler) PasswordReset(c echo.Context) error {
	var req codePasswordReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	if err := h.Svc.PasswordReset(c.Request().Context(), req.ConfirmCode, req.Password, req.PasswordConfirm); err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, nil)
}

// Activate handles POST /api/v1/auth/activate.
func (h *AuthHandler) Activate(c echo.Context) error {
	var req codePasswordReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	req.check(&v)
	if v.failed() {
		return v.respond(c)
	}
	if err := h.Svc.Activate(c.Request().Context(), req.ConfirmCode, req.Password, req.PasswordConfirm); err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, nil)
}

// GrantAccess handles POST /api/v1/auth/:personId (admin only).
func (h *AuthHandler) GrantAccess(c echo.Context) error {
	personID, err := strconv.ParseInt(c.Param("personId"), 10, 64)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid person id"))
	}
	var req grantAccessReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, errors.New("invalid body"))
	}
	var v validator
	v.email("email", req.Email)
	role, roleErr := model.ParseRole(req.Role)
	if roleErr != nil {
		v.addf("role", "must be one of ADMIN, MANAGER, SERVER")
	}
	if v.failed() {
		return v.respond(c)
	}
	if err := h.Svc.GrantAccess(c.Request().Context(), personID, req.Email, role); err != nil {
		return respondAuthErr(c, err)
	}
	return respondOK(c, nil)
}

func (req *codePasswordReq) check(v *validator) {
	v.length("confirmCode", req.ConfirmCode, nameMinLen, nameMaxLen)
	v.length("password", req.Password, passwordMinLen, passwordMaxLen)
	v.length("passwordConfirm", req.PasswordConfirm, passwordMinLen, passwordMaxLen)
}

func toLoggedView(l *auth.LoggedPerson) loggedPersonView {
	return loggedPersonView{
		FirstName:    l.FirstName,
		LastName:     l.LastName,
		Email:        l.Email,
		Role:         l.Role.String(),
		AccessToken:  l.AccessToken,
		RefreshToken: l.RefreshToken,
	}
}
