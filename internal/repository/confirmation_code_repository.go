package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// ConfirmationCodeRepo persists single-use confirmation codes.
type ConfirmationCodeRepo struct {
	db *sql.DB
}

func NewConfirmationCodeRepo(db *sql.DB) *ConfirmationCodeRepo {
	return &ConfirmationCodeRepo{db: db}
}

// Create inserts a code and fills in the assigned id.
func (r *ConfirmationCodeRepo) Create(ctx context.Context, c *model.ConfirmationCode) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO confirmation_codes (person_id, token, type, created_at) VALUES (?,?,?,?)",
		c.PersonID, c.Token, c.Type.Code(), c.Created)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// Find looks a code up by its opaque token.
func (r *ConfirmationCodeRepo) Find(ctx context.Context, token string) (*model.ConfirmationCode, error) {
	var (
		c        model.ConfirmationCode
		typeCode byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, person_id, token, type, created_at FROM confirmation_codes WHERE token=?",
		token).Scan(&c.ID, &c.PersonID, &c.Token, &typeCode, &c.Created)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t, err := model.CodeTypeFromCode(typeCode)
	if err != nil {
		return nil, err
	}
	c.Type = t
	return &c, nil
}

// DeleteForPerson removes every code of the given type for a person. Called
// before issuing a replacement so at most one stays redeemable.
func (r *ConfirmationCodeRepo) DeleteForPerson(ctx context.Context, personID int64, t model.CodeType) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM confirmation_codes WHERE person_id=? AND type=?", personID, t.Code())
	return err
}
