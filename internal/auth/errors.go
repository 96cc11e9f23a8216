package auth

import "errors"

// Domain errors surfaced by the workflow. The messages are the user-facing
// error identities; handlers map each sentinel to an HTTP status but must not
// reword them. Login deliberately reports a missing account and a wrong
// password with the same ErrCredential so accounts cannot be enumerated.
var (
	ErrCredential          = errors.New("credential error")
	ErrPersonBlocked       = errors.New("person is blocked")
	ErrNotActivated        = errors.New("person has not activated account")
	ErrUserBlocked         = errors.New("user is blocked")
	ErrRefreshTokenInvalid = errors.New("refresh token not valid")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidCode         = errors.New("confirm code not valid")
	ErrPersonNotFound      = errors.New("person not found")
	ErrAlreadyHasAccess    = errors.New("person already has access to the system")
	ErrEmailInUse          = errors.New("specified email is already in use")
	ErrEmailNotFound       = errors.New("email not found")
)
