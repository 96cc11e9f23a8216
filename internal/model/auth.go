package model

import "time"

// ConfirmationCode is a single-use opaque token proving control of an
// account, scoped to one purpose. At most one unconsumed code per person and
// type is kept; issuing a new one removes its predecessors.
type ConfirmationCode struct {
	ID       int64
	PersonID int64
	Token    string
	Type     CodeType
	Created  time.Time
}

// RefreshToken is the single session row kept per person. Logins and
// refreshes upsert it with IsRevoked=false; logout flips IsRevoked.
type RefreshToken struct {
	ID        int64
	PersonID  int64
	IsRevoked bool
	Person    *Person
}
