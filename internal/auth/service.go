// Package auth implements the session and account lifecycle: granting
// access, activation, login, refresh, logout and password reset. The service
// is stateless; every invariant lives in the ordering of checks below and in
// the transactional store contract it consumes.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
	"github.com/uritmix/studio-api/internal/utils"
)

// PersonStore is the slice of the credential store the workflow needs for
// person and auth records. Lookups return repository.ErrNotFound when no row
// matches. SetPassword must apply the hash/salt mutation and consume the
// confirmation code as one transaction.
type PersonStore interface {
	Get(ctx context.Context, id int64) (*model.Person, error)
	FindByEmail(ctx context.Context, email string) (*model.Person, error)
	GrantAuth(ctx context.Context, personID int64, role model.AuthRole, email string) error
	SetPassword(ctx context.Context, personID int64, hash string, salt []byte, activate bool, consumeToken string) error
}

// CodeStore persists single-use confirmation codes.
type CodeStore interface {
	Create(ctx context.Context, c *model.ConfirmationCode) error
	Find(ctx context.Context, token string) (*model.ConfirmationCode, error)
	DeleteForPerson(ctx context.Context, personID int64, t model.CodeType) error
}

// TokenStore persists the single refresh-session row per person.
type TokenStore interface {
	CreateOrUpdate(ctx context.Context, personID int64, isRevoked bool) (*model.RefreshToken, error)
	Get(ctx context.Context, id int64) (*model.RefreshToken, error)
}

// Notifier delivers confirmation codes out-of-band. Fire-and-forget: the
// workflow neither retries nor fails on delivery problems.
type Notifier interface {
	SendActivationToken(token string)
	SendPasswordResetToken(token string)
}

// LoggedPerson is what a successful login or refresh returns.
type LoggedPerson struct {
	FirstName    string
	LastName     string
	Email        string
	Role         model.AuthRole
	AccessToken  string
	RefreshToken string
}

// Service orchestrates the auth workflow over its collaborators.
type Service struct {
	persons PersonStore
	codes   CodeStore
	tokens  TokenStore
	issuer  *utils.TokenIssuer
	notify  Notifier
}

func NewService(persons PersonStore, codes CodeStore, tokens TokenStore, issuer *utils.TokenIssuer, notify Notifier) *Service {
	return &Service{persons: persons, codes: codes, tokens: tokens, issuer: issuer, notify: notify}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GrantAccess attaches a NotActivated auth record to a person and issues an
// activation code. Fails when the person already has access or the email is
// taken by anyone.
func (s *Service) GrantAccess(ctx context.Context, personID int64, email string, role model.AuthRole) error {
	email = normalizeEmail(email)

	person, err := s.persons.Get(ctx, personID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPersonNotFound
	}
	if err != nil {
		return err
	}
	if person.HaveAuth {
		return ErrAlreadyHasAccess
	}
	if _, err := s.persons.FindByEmail(ctx, email); err == nil {
		return ErrEmailInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if err := s.persons.GrantAuth(ctx, personID, role, email); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return ErrEmailInUse
		}
		return err
	}
	return s.issueCode(ctx, personID, model.CodeActivatePerson)
}

// Activate redeems an activation code and sets the first password. The
// account status is intentionally not re-checked first: any unconsumed code
// re-activates, matching the historical behavior (permitted re-activation).
func (s *Service) Activate(ctx context.Context, confirmCode, password, passwordConfirm string) error {
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}
	code, err := s.codes.Find(ctx, confirmCode)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	person, err := s.persons.Get(ctx, code.PersonID)
	if err != nil {
		return err
	}
	if person.Auth == nil {
		return ErrInvalidCode
	}
	return s.applyPassword(ctx, code, password, true)
}

// Login verifies credentials and opens (or re-opens) the person's single
// refresh session. The check order — existence, blocked, not-activated,
// password — is a deliberate enumeration-leak policy and must not change.
func (s *Service) Login(ctx context.Context, email, password string) (*LoggedPerson, error) {
	person, err := s.persons.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCredential
	}
	if err != nil {
		return nil, err
	}
	if person.Auth == nil {
		return nil, ErrCredential
	}
	if person.Auth.Status == model.StatusBlocked {
		return nil, ErrPersonBlocked
	}
	if person.Auth.Status != model.StatusActivated {
		return nil, ErrNotActivated
	}
	hash := utils.HashPassword(password, person.Auth.Salt)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(person.Auth.Hash)) != 1 {
		return nil, ErrCredential
	}

	row, err := s.tokens.CreateOrUpdate(ctx, person.ID, false)
	if err != nil {
		return nil, err
	}
	return s.loggedPerson(person, row.ID)
}

// Refresh re-confirms an existing session. The row id is not rotated; the
// new refresh token embeds the same id.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoggedPerson, error) {
	row, err := s.resolveSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if row.Person.Auth.Status == model.StatusBlocked {
		return nil, ErrUserBlocked
	}
	if _, err := s.tokens.CreateOrUpdate(ctx, row.PersonID, false); err != nil {
		return nil, err
	}
	return s.loggedPerson(row.Person, row.ID)
}

// Logout revokes the session. Logging out an already-revoked session is an
// error, not a no-op.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	row, err := s.resolveSession(ctx, refreshToken)
	if err != nil {
		return err
	}
	_, err = s.tokens.CreateOrUpdate(ctx, row.PersonID, true)
	return err
}

// PasswordResetQuery issues a reset code for the account behind the email.
func (s *Service) PasswordResetQuery(ctx context.Context, email string) error {
	person, err := s.persons.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEmailNotFound
	}
	if err != nil {
		return err
	}
	return s.issueCode(ctx, person.ID, model.CodeResetPassword)
}

// PasswordReset redeems a reset code. Unlike Activate this path does verify
// the current status: blocked accounts and accounts that never activated are
// rejected.
func (s *Service) PasswordReset(ctx context.Context, confirmCode, password, passwordConfirm string) error {
	if password != passwordConfirm {
		return ErrPasswordMismatch
	}
	code, err := s.codes.Find(ctx, confirmCode)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	person, err := s.persons.Get(ctx, code.PersonID)
	if err != nil {
		return err
	}
	if person.Auth == nil {
		return ErrInvalidCode
	}
	if person.Auth.Status == model.StatusBlocked {
		return ErrPersonBlocked
	}
	if person.Auth.Status != model.StatusActivated {
		return ErrNotActivated
	}
	return s.applyPassword(ctx, code, password, false)
}

// resolveSession maps a raw refresh token to its live session row, applying
// the shared refresh/logout failure taxonomy.
func (s *Service) resolveSession(ctx context.Context, refreshToken string) (*model.RefreshToken, error) {
	id, validity := s.issuer.ResolveRefreshToken(refreshToken)
	if validity != utils.RefreshValid {
		return nil, ErrRefreshTokenInvalid
	}
	row, err := s.tokens.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRefreshTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if row.Person == nil || row.Person.Auth == nil {
		return nil, ErrRefreshTokenInvalid
	}
	if row.IsRevoked {
		return nil, ErrRefreshTokenRevoked
	}
	return row, nil
}

// issueCode replaces any pending code of the same type and dispatches the
// fresh one out-of-band.
func (s *Service) issueCode(ctx context.Context, personID int64, t model.CodeType) error {
	if err := s.codes.DeleteForPerson(ctx, personID, t); err != nil {
		return err
	}
	code := &model.ConfirmationCode{
		PersonID: personID,
		Token:    uuid.NewString(),
		Type:     t,
		Created:  time.Now().UTC(),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return err
	}
	switch t {
	case model.CodeActivatePerson:
		s.notify.SendActivationToken(code.Token)
	case model.CodeResetPassword:
		s.notify.SendPasswordResetToken(code.Token)
	}
	return nil
}

// applyPassword derives a fresh salt and hash and hands both plus the code
// to the store's transactional SetPassword.
func (s *Service) applyPassword(ctx context.Context, code *model.ConfirmationCode, password string, activate bool) error {
	salt, err := utils.NewSalt()
	if err != nil {
		return err
	}
	hash := utils.HashPassword(password, salt)
	return s.persons.SetPassword(ctx, code.PersonID, hash, salt, activate, code.Token)
}

func (s *Service) loggedPerson(person *model.Person, rowID int64) (*LoggedPerson, error) {
	access, err := s.issuer.CreateAccessToken(person.ID, person.Auth.Email, person.Auth.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.CreateRefreshToken(person.Auth.Email, rowID)
	if err != nil {
		return nil, err
	}
	return &LoggedPerson{
		FirstName:    person.FirstName,
		LastName:     person.LastName,
		Email:        person.Auth.Email,
		Role:         person.Auth.Role,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
