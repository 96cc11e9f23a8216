package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// RefreshTokenRepo persists the single refresh-session row kept per person.
type RefreshTokenRepo struct {
	db *sql.DB
}

func NewRefreshTokenRepo(db *sql.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

// CreateOrUpdate upserts the row keyed by person_id and returns it with its
// stable id. The LAST_INSERT_ID(id) trick makes MySQL report the existing
// row id on the update path.
func (r *RefreshTokenRepo) CreateOrUpdate(ctx context.Context, personID int64, isRevoked bool) (*model.RefreshToken, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (person_id, is_revoked) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE id=LAST_INSERT_ID(id), is_revoked=VALUES(is_revoked)`,
		personID, isRevoked)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.RefreshToken{ID: id, PersonID: personID, IsRevoked: isRevoked}, nil
}

// Get loads a session row by id together with its owning person and auth.
func (r *RefreshTokenRepo) Get(ctx context.Context, id int64) (*model.RefreshToken, error) {
	var (
		t        model.RefreshToken
		p        model.Person
		desc     sql.NullString
		roleCode sql.NullByte
		stCode   sql.NullByte
		email    sql.NullString
		hash     sql.NullString
		salt     []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.person_id, t.is_revoked, `+personColumns+`
		 FROM refresh_tokens t
		 JOIN persons p ON p.id = t.person_id
		 LEFT JOIN auths a ON a.person_id = p.id
		 WHERE t.id = ?`, id).
		Scan(&t.ID, &t.PersonID, &t.IsRevoked,
			&p.ID, &p.FirstName, &p.LastName, &desc, &p.IsTrainer, &p.HaveAuth,
			&roleCode, &stCode, &email, &hash, &salt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	if roleCode.Valid {
		role, rerr := model.RoleFromCode(roleCode.Byte)
		if rerr != nil {
			return nil, rerr
		}
		status, serr := model.StatusFromCode(stCode.Byte)
		if serr != nil {
			return nil, serr
		}
		p.Auth = &model.Auth{PersonID: p.ID, Role: role, Status: status, Email: email.String, Hash: hash.String, Salt: salt}
	}
	t.Person = &p
	return &t, nil
}
