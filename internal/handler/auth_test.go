package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/uritmix/studio-api/internal/auth"
	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
	"github.com/uritmix/studio-api/internal/utils"
)

func TestAuthStatus(t *testing.T) {
	t.Parallel()

	cases := map[error]int{
		auth.ErrCredential:          http.StatusUnauthorized,
		auth.ErrRefreshTokenInvalid: http.StatusUnauthorized,
		auth.ErrRefreshTokenRevoked: http.StatusUnauthorized,
		auth.ErrPersonBlocked:       http.StatusForbidden,
		auth.ErrUserBlocked:         http.StatusForbidden,
		auth.ErrNotActivated:        http.StatusForbidden,
		auth.ErrPersonNotFound:      http.StatusNotFound,
		auth.ErrEmailNotFound:       http.StatusNotFound,
		auth.ErrAlreadyHasAccess:    http.StatusConflict,
		auth.ErrEmailInUse:          http.StatusConflict,
		auth.ErrPasswordMismatch:    http.StatusBadRequest,
		auth.ErrInvalidCode:         http.StatusBadRequest,
		context.DeadlineExceeded:    http.StatusInternalServerError,
	}
	for err, want := range cases {
		require.Equal(t, want, authStatus(err), "error %q", err)
	}
}

// -------- a single-person store backing the login endpoint test --------

type onePersonStore struct {
	person *model.Person
}

func (s *onePersonStore) Get(_ context.Context, id int64) (*model.Person, error) {
	if s.person != nil && s.person.ID == id {
		return s.person, nil
	}
	return nil, repository.ErrNotFound
}

func (s *onePersonStore) FindByEmail(_ context.Context, email string) (*model.Person, error) {
	if s.person != nil && s.person.Auth != nil && s.person.Auth.Email == email {
		return s.person, nil
	}
	return nil, repository.ErrNotFound
}

func (s *onePersonStore) GrantAuth(context.Context, int64, model.AuthRole, string) error { return nil }

func (s *onePersonStore) SetPassword(context.Context, int64, string, []byte, bool, string) error {
	return nil
}

type memCodeStore struct{}

func (memCodeStore) Create(context.Context, *model.ConfirmationCode) error { return nil }
func (memCodeStore) Find(context.Context, string) (*model.ConfirmationCode, error) {
	return nil, repository.ErrNotFound
}
func (memCodeStore) DeleteForPerson(context.Context, int64, model.CodeType) error { return nil }

type memTokenStore struct {
	row *model.RefreshToken
}

func (s *memTokenStore) CreateOrUpdate(_ context.Context, personID int64, isRevoked bool) (*model.RefreshToken, error) {
	s.row = &model.RefreshToken{ID: 1, PersonID: personID, IsRevoked: isRevoked}
	return s.row, nil
}

func (s *memTokenStore) Get(_ context.Context, id int64) (*model.RefreshToken, error) {
	if s.row == nil || s.row.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.row, nil
}

type noopNotifier struct{}

func (noopNotifier) SendActivationToken(string)    {}
func (noopNotifier) SendPasswordResetToken(string) {}

func loginTestHandler(t *testing.T) *AuthHandler {
	t.Helper()
	salt, err := utils.NewSalt()
	require.NoError(t, err)
	persons := &onePersonStore{person: &model.Person{
		ID:        1,
		FirstName: "Lena",
		LastName:  "Orlova",
		HaveAuth:  true,
		Auth: &model.Auth{
			PersonID: 1,
			Role:     model.RoleManager,
			Status:   model.StatusActivated,
			Email:    "lena@b.c",
			Hash:     utils.HashPassword("secret-1", salt),
			Salt:     salt,
		},
	}}
	issuer := utils.NewTokenIssuer(utils.TokenOptions{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessTTLSecond:  60,
		RefreshTTLSecond: 3600,
	})
	svc := auth.NewService(persons, memCodeStore{}, &memTokenStore{}, issuer, noopNotifier{})
	return NewAuthHandler(svc)
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	h := loginTestHandler(t)
	rec := postJSON(t, h.Login, `{"email":"lena@b.c","password":"secret-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK     bool `json:"ok"`
		Result struct {
			FirstName    string `json:"firstName"`
			Role         string `json:"role"`
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Equal(t, "Lena", resp.Result.FirstName)
	require.Equal(t, "MANAGER", resp.Result.Role)
	require.NotEmpty(t, resp.Result.AccessToken)
	require.NotEmpty(t, resp.Result.RefreshToken)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	t.Parallel()

	h := loginTestHandler(t)
	rec := postJSON(t, h.Login, `{"email":"lena@b.c","password":"wrong-1"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.OK)
	require.Equal(t, "credential error", resp.Error)
}

func TestLoginEndpoint_ValidationAggregates(t *testing.T) {
	t.Parallel()

	h := loginTestHandler(t)
	rec := postJSON(t, h.Login, `{"email":"x","password":"abc"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		OK     bool `json:"ok"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.OK)
	require.Len(t, resp.Fields, 3, "short email, invalid email, short password")
}
