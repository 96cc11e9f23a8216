package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uritmix/studio-api/internal/model"
	"github.com/uritmix/studio-api/internal/repository"
	"github.com/uritmix/studio-api/internal/utils"
)

// -------- test fakes --------

type fakePersonStore struct {
	persons map[int64]*model.Person
	codes   *fakeCodeStore // consumed inside SetPassword, like the real transaction
	nextID  int64
}

func newFakePersonStore(codes *fakeCodeStore) *fakePersonStore {
	return &fakePersonStore{persons: map[int64]*model.Person{}, codes: codes, nextID: 1}
}

func (f *fakePersonStore) add(p *model.Person) *model.Person {
	p.ID = f.nextID
	f.nextID++
	if p.Auth != nil {
		p.Auth.PersonID = p.ID
	}
	f.persons[p.ID] = p
	return p
}

func (f *fakePersonStore) Get(_ context.Context, id int64) (*model.Person, error) {
	p, ok := f.persons[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePersonStore) FindByEmail(_ context.Context, email string) (*model.Person, error) {
	for _, p := range f.persons {
		if p.Auth != nil && p.Auth.Email == email {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePersonStore) GrantAuth(_ context.Context, personID int64, role model.AuthRole, email string) error {
	for _, p := range f.persons {
		if p.Auth != nil && p.Auth.Email == email {
			return repository.ErrEmailExists
		}
	}
	p := f.persons[personID]
	p.HaveAuth = true
	p.Auth = &model.Auth{PersonID: personID, Role: role, Status: model.StatusNotActivated, Email: email}
	return nil
}

func (f *fakePersonStore) SetPassword(_ context.Context, personID int64, hash string, salt []byte, activate bool, consumeToken string) error {
	p, ok := f.persons[personID]
	if !ok || p.Auth == nil {
		return repository.ErrNotFound
	}
	p.Auth.Hash = hash
	p.Auth.Salt = salt
	if activate {
		p.Auth.Status = model.StatusActivated
	}
	delete(f.codes.codes, consumeToken)
	return nil
}

type fakeCodeStore struct {
	codes  map[string]*model.ConfirmationCode
	nextID int64
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: map[string]*model.ConfirmationCode{}, nextID: 1}
}

func (f *fakeCodeStore) Create(_ context.Context, c *model.ConfirmationCode) error {
	c.ID = f.nextID
	f.nextID++
	f.codes[c.Token] = c
	return nil
}

func (f *fakeCodeStore) Find(_ context.Context, token string) (*model.ConfirmationCode, error) {
	c, ok := f.codes[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCodeStore) DeleteForPerson(_ context.Context, personID int64, t model.CodeType) error {
	for token, c := range f.codes {
		if c.PersonID == personID && c.Type == t {
			delete(f.codes, token)
		}
	}
	return nil
}

type fakeTokenStore struct {
	rows    map[int64]*model.RefreshToken // keyed by person id, like the unique index
	persons *fakePersonStore
	nextID  int64
}

func newFakeTokenStore(persons *fakePersonStore) *fakeTokenStore {
	return &fakeTokenStore{rows: map[int64]*model.RefreshToken{}, persons: persons, nextID: 1}
}

func (f *fakeTokenStore) CreateOrUpdate(_ context.Context, personID int64, isRevoked bool) (*model.RefreshToken, error) {
	row, ok := f.rows[personID]
	if !ok {
		row = &model.RefreshToken{ID: f.nextID, PersonID: personID}
		f.nextID++
		f.rows[personID] = row
	}
	row.IsRevoked = isRevoked
	return &model.RefreshToken{ID: row.ID, PersonID: personID, IsRevoked: isRevoked}, nil
}

func (f *fakeTokenStore) Get(_ context.Context, id int64) (*model.RefreshToken, error) {
	for _, row := range f.rows {
		if row.ID == id {
			person := f.persons.persons[row.PersonID]
			return &model.RefreshToken{ID: row.ID, PersonID: row.PersonID, IsRevoked: row.IsRevoked, Person: person}, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeNotifier struct {
	activationTokens []string
	resetTokens      []string
}

func (f *fakeNotifier) SendActivationToken(token string)    { f.activationTokens = append(f.activationTokens, token) }
func (f *fakeNotifier) SendPasswordResetToken(token string) { f.resetTokens = append(f.resetTokens, token) }

func (f *fakeNotifier) lastActivation(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.activationTokens)
	return f.activationTokens[len(f.activationTokens)-1]
}

func (f *fakeNotifier) lastReset(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.resetTokens)
	return f.resetTokens[len(f.resetTokens)-1]
}

// -------- harness --------

type harness struct {
	svc     *Service
	persons *fakePersonStore
	codes   *fakeCodeStore
	tokens  *fakeTokenStore
	notify  *fakeNotifier
}

func newHarness() *harness {
	codes := newFakeCodeStore()
	persons := newFakePersonStore(codes)
	tokens := newFakeTokenStore(persons)
	notify := &fakeNotifier{}
	issuer := utils.NewTokenIssuer(utils.TokenOptions{
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessTTLSecond:  60,
		RefreshTTLSecond: 3600,
	})
	return &harness{
		svc:     NewService(persons, codes, tokens, issuer, notify),
		persons: persons,
		codes:   codes,
		tokens:  tokens,
		notify:  notify,
	}
}

func (h *harness) addPlainPerson() *model.Person {
	return h.persons.add(&model.Person{FirstName: "Lena", LastName: "Orlova"})
}

func (h *harness) addActivatedPerson(email, password string) *model.Person {
	salt, _ := utils.NewSalt()
	return h.persons.add(&model.Person{
		FirstName: "Lena",
		LastName:  "Orlova",
		HaveAuth:  true,
		Auth: &model.Auth{
			Role:   model.RoleManager,
			Status: model.StatusActivated,
			Email:  email,
			Hash:   utils.HashPassword(password, salt),
			Salt:   salt,
		},
	})
}

// -------- grant access --------

func TestGrantAccess(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()

	err := h.svc.GrantAccess(context.Background(), p.ID, "Lena@Example.COM", model.RoleManager)
	require.NoError(t, err)

	require.True(t, p.HaveAuth)
	require.NotNil(t, p.Auth)
	require.Equal(t, model.StatusNotActivated, p.Auth.Status)
	require.Equal(t, "lena@example.com", p.Auth.Email, "email must be normalized before storage")
	require.Len(t, h.notify.activationTokens, 1)
}

func TestGrantAccess_UnknownPerson(t *testing.T) {
	h := newHarness()
	err := h.svc.GrantAccess(context.Background(), 99, "x@y.z", model.RoleServer)
	require.ErrorIs(t, err, ErrPersonNotFound)
}

func TestGrantAccess_Twice(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()

	require.NoError(t, h.svc.GrantAccess(context.Background(), p.ID, "a@b.c", model.RoleServer))
	err := h.svc.GrantAccess(context.Background(), p.ID, "other@b.c", model.RoleServer)
	require.ErrorIs(t, err, ErrAlreadyHasAccess)
}

func TestGrantAccess_EmailTaken(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("taken@b.c", "secret-1")
	p := h.addPlainPerson()

	err := h.svc.GrantAccess(context.Background(), p.ID, "taken@b.c", model.RoleServer)
	require.ErrorIs(t, err, ErrEmailInUse)
}

// -------- activate --------

func TestActivate(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()
	require.NoError(t, h.svc.GrantAccess(context.Background(), p.ID, "a@b.c", model.RoleServer))
	code := h.notify.lastActivation(t)

	require.NoError(t, h.svc.Activate(context.Background(), code, "password1", "password1"))
	require.Equal(t, model.StatusActivated, p.Auth.Status)
	require.NotEmpty(t, p.Auth.Hash)

	// The code is single-use: redeeming it again must fail.
	err := h.svc.Activate(context.Background(), code, "password2", "password2")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestActivate_PasswordMismatch(t *testing.T) {
	h := newHarness()
	err := h.svc.Activate(context.Background(), "whatever", "one", "two")
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestActivate_UnknownCode(t *testing.T) {
	h := newHarness()
	err := h.svc.Activate(context.Background(), "no-such-code", "password1", "password1")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestActivate_ReissueInvalidatesOldCode(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()
	require.NoError(t, h.svc.GrantAccess(context.Background(), p.ID, "a@b.c", model.RoleServer))
	first := h.notify.lastActivation(t)

	// A second reset-type issue must not disturb the activation code, but a
	// fresh activation code replaces the first.
	require.NoError(t, h.svc.issueCode(context.Background(), p.ID, model.CodeActivatePerson))
	second := h.notify.lastActivation(t)
	require.NotEqual(t, first, second)

	require.ErrorIs(t, h.svc.Activate(context.Background(), first, "password1", "password1"), ErrInvalidCode)
	require.NoError(t, h.svc.Activate(context.Background(), second, "password1", "password1"))
}

// -------- login --------

func TestLogin(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("lena@b.c", "secret-1")

	logged, err := h.svc.Login(context.Background(), "  LENA@B.C ", "secret-1")
	require.NoError(t, err)
	require.Equal(t, "lena@b.c", logged.Email)
	require.Equal(t, model.RoleManager, logged.Role)
	require.NotEmpty(t, logged.AccessToken)
	require.NotEmpty(t, logged.RefreshToken)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("lena@b.c", "secret-1")

	_, errUnknown := h.svc.Login(context.Background(), "ghost@b.c", "secret-1")
	_, errWrongPw := h.svc.Login(context.Background(), "lena@b.c", "not-it")
	require.ErrorIs(t, errUnknown, ErrCredential)
	require.ErrorIs(t, errWrongPw, ErrCredential)
	require.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_BlockedBeatsPasswordCheck(t *testing.T) {
	h := newHarness()
	p := h.addActivatedPerson("lena@b.c", "secret-1")
	p.Auth.Status = model.StatusBlocked

	// Even with the correct password the blocked status wins.
	_, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.ErrorIs(t, err, ErrPersonBlocked)
}

func TestLogin_NotActivated(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()
	require.NoError(t, h.svc.GrantAccess(context.Background(), p.ID, "lena@b.c", model.RoleServer))

	_, err := h.svc.Login(context.Background(), "lena@b.c", "anything-6")
	require.ErrorIs(t, err, ErrNotActivated)
}

// -------- refresh / logout --------

func TestRefresh_KeepsSessionRow(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("lena@b.c", "secret-1")

	logged, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.NoError(t, err)

	refreshed, err := h.svc.Refresh(context.Background(), logged.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Len(t, h.tokens.rows, 1, "refresh must reuse the single session row")
}

func TestRefresh_Garbage(t *testing.T) {
	h := newHarness()
	_, err := h.svc.Refresh(context.Background(), "not.a.jwt")
	require.ErrorIs(t, err, ErrRefreshTokenInvalid)
}

func TestRefresh_BlockedPerson(t *testing.T) {
	h := newHarness()
	p := h.addActivatedPerson("lena@b.c", "secret-1")

	logged, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.NoError(t, err)

	p.Auth.Status = model.StatusBlocked
	_, err = h.svc.Refresh(context.Background(), logged.RefreshToken)
	require.ErrorIs(t, err, ErrUserBlocked)
}

func TestLogout_NotIdempotent(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("lena@b.c", "secret-1")

	logged, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(context.Background(), logged.RefreshToken))
	err = h.svc.Logout(context.Background(), logged.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshTokenRevoked)

	_, err = h.svc.Refresh(context.Background(), logged.RefreshToken)
	require.ErrorIs(t, err, ErrRefreshTokenRevoked)
}

func TestLogin_ReopensRevokedSession(t *testing.T) {
	h := newHarness()
	h.addActivatedPerson("lena@b.c", "secret-1")

	first, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.NoError(t, err)
	require.NoError(t, h.svc.Logout(context.Background(), first.RefreshToken))

	second, err := h.svc.Login(context.Background(), "lena@b.c", "secret-1")
	require.NoError(t, err)
	_, err = h.svc.Refresh(context.Background(), second.RefreshToken)
	require.NoError(t, err)
}

// -------- password reset --------

func TestPasswordReset(t *testing.T) {
	h := newHarness()
	p := h.addActivatedPerson("lena@b.c", "old-secret")
	oldHash := p.Auth.Hash

	require.NoError(t, h.svc.PasswordResetQuery(context.Background(), "lena@b.c"))
	code := h.notify.lastReset(t)

	require.NoError(t, h.svc.PasswordReset(context.Background(), code, "new-secret", "new-secret"))
	require.NotEqual(t, oldHash, p.Auth.Hash)

	_, err := h.svc.Login(context.Background(), "lena@b.c", "old-secret")
	require.ErrorIs(t, err, ErrCredential)
	_, err = h.svc.Login(context.Background(), "lena@b.c", "new-secret")
	require.NoError(t, err)

	// Single use.
	err = h.svc.PasswordReset(context.Background(), code, "another-1", "another-1")
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestPasswordResetQuery_UnknownEmail(t *testing.T) {
	h := newHarness()
	err := h.svc.PasswordResetQuery(context.Background(), "ghost@b.c")
	require.ErrorIs(t, err, ErrEmailNotFound)
}

func TestPasswordReset_Blocked(t *testing.T) {
	h := newHarness()
	p := h.addActivatedPerson("lena@b.c", "old-secret")
	require.NoError(t, h.svc.PasswordResetQuery(context.Background(), "lena@b.c"))
	code := h.notify.lastReset(t)

	p.Auth.Status = model.StatusBlocked
	err := h.svc.PasswordReset(context.Background(), code, "new-secret", "new-secret")
	require.ErrorIs(t, err, ErrPersonBlocked)
}

func TestPasswordReset_NotActivated(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()
	require.NoError(t, h.svc.GrantAccess(context.Background(), p.ID, "lena@b.c", model.RoleServer))
	require.NoError(t, h.svc.PasswordResetQuery(context.Background(), "lena@b.c"))
	code := h.notify.lastReset(t)

	err := h.svc.PasswordReset(context.Background(), code, "new-secret", "new-secret")
	require.ErrorIs(t, err, ErrNotActivated)
}

func TestPasswordReset_Mismatch(t *testing.T) {
	h := newHarness()
	err := h.svc.PasswordReset(context.Background(), "whatever", "one", "two")
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

// -------- full lifecycle --------

func TestLifecycle(t *testing.T) {
	h := newHarness()
	p := h.addPlainPerson()
	ctx := context.Background()

	require.NoError(t, h.svc.GrantAccess(ctx, p.ID, "lena@b.c", model.RoleManager))
	require.NoError(t, h.svc.Activate(ctx, h.notify.lastActivation(t), "secret-1", "secret-1"))

	logged, err := h.svc.Login(ctx, "lena@b.c", "secret-1")
	require.NoError(t, err)

	refreshed, err := h.svc.Refresh(ctx, logged.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, refreshed.RefreshToken))
	require.ErrorIs(t, h.svc.Logout(ctx, refreshed.RefreshToken), ErrRefreshTokenRevoked)
}
