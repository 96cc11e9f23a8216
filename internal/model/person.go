// Package model holds the domain types shared by repositories, services and
// handlers. Enumerations are closed types; the numeric codes written to the
// database go through the explicit mapping functions in enums.go and never
// flow into domain logic unchecked.
package model

// Person is an identity record. A person may or may not be allowed to log in;
// when HaveAuth is true exactly one Auth record is attached.
type Person struct {
	ID          int64
	FirstName   string
	LastName    string
	Description string
	IsTrainer   bool
	HaveAuth    bool
	Auth        *Auth
}

// Auth is the authentication sub-record of a person. Hash and Salt stay empty
// until the account is activated; both are regenerated on every password
// reset.
type Auth struct {
	PersonID int64
	Role     AuthRole
	Status   AuthStatus
	Email    string
	Hash     string
	Salt     []byte
}
