// Package repository contains the data-access layer. Repositories own the
// SQL; callers see domain models and sentinel errors only. Multi-row
// mutations that must be observed as a single transition run inside one
// sql.Tx.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint on auth records.
var ErrEmailExists = errors.New("email already exists")
