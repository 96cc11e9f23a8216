package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/uritmix/studio-api/internal/model"
)

// PersonRepo persists persons and their optional auth sub-record.
type PersonRepo struct {
	db *sql.DB
}

func NewPersonRepo(db *sql.DB) *PersonRepo { return &PersonRepo{db: db} }

const personColumns = `p.id, p.first_name, p.last_name, p.description, p.is_trainer, p.have_auth,
	a.role, a.status, a.email, a.hash, a.salt`

const personSelect = `SELECT ` + personColumns + `
	FROM persons p LEFT JOIN auths a ON a.person_id = p.id`

func scanPerson(row *sql.Row) (*model.Person, error) {
	var (
		p        model.Person
		desc     sql.NullString
		roleCode sql.NullByte
		stCode   sql.NullByte
		email    sql.NullString
		hash     sql.NullString
		salt     []byte
	)
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &desc, &p.IsTrainer, &p.HaveAuth,
		&roleCode, &stCode, &email, &hash, &salt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	if roleCode.Valid {
		role, err := model.RoleFromCode(roleCode.Byte)
		if err != nil {
			return nil, err
		}
		status, err := model.StatusFromCode(stCode.Byte)
		if err != nil {
			return nil, err
		}
		p.Auth = &model.Auth{
			PersonID: p.ID,
			Role:     role,
			Status:   status,
			Email:    email.String,
			Hash:     hash.String,
			Salt:     salt,
		}
	}
	return &p, nil
}

// Get loads a person by id, auth record included when present.
func (r *PersonRepo) Get(ctx context.Context, id int64) (*model.Person, error) {
	return scanPerson(r.db.QueryRowContext(ctx, personSelect+" WHERE p.id = ?", id))
}

// FindByEmail loads a person by the email on its auth record. The caller is
// responsible for normalizing the email before lookup.
func (r *PersonRepo) FindByEmail(ctx context.Context, email string) (*model.Person, error) {
	return scanPerson(r.db.QueryRowContext(ctx, personSelect+" WHERE a.email = ?", email))
}

// Create inserts a person without auth and fills in the assigned id.
func (r *PersonRepo) Create(ctx context.Context, p *model.Person) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO persons (first_name, last_name, description, is_trainer, have_auth) VALUES (?,?,?,?,?)",
		p.FirstName, p.LastName, nullIfEmpty(p.Description), p.IsTrainer, p.HaveAuth)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Edit updates the administrative person fields. Auth is untouched.
func (r *PersonRepo) Edit(ctx context.Context, p *model.Person) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE persons SET first_name=?, last_name=?, description=?, is_trainer=? WHERE id=?",
		p.FirstName, p.LastName, nullIfEmpty(p.Description), p.IsTrainer, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// The row may exist with identical values; distinguish via lookup.
		if _, gerr := r.Get(ctx, p.ID); gerr != nil {
			return gerr
		}
	}
	return err
}

// List returns one page of persons plus the total count.
func (r *PersonRepo) List(ctx context.Context, page, size int) ([]*model.Person, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, personSelect+" ORDER BY p.id LIMIT ? OFFSET ?", size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.Person
	for rows.Next() {
		var (
			p        model.Person
			desc     sql.NullString
			roleCode sql.NullByte
			stCode   sql.NullByte
			email    sql.NullString
			hash     sql.NullString
			salt     []byte
		)
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &desc, &p.IsTrainer, &p.HaveAuth,
			&roleCode, &stCode, &email, &hash, &salt); err != nil {
			return nil, 0, err
		}
		p.Description = desc.String
		if roleCode.Valid {
			role, rerr := model.RoleFromCode(roleCode.Byte)
			if rerr != nil {
				return nil, 0, rerr
			}
			status, serr := model.StatusFromCode(stCode.Byte)
			if serr != nil {
				return nil, 0, serr
			}
			p.Auth = &model.Auth{PersonID: p.ID, Role: role, Status: status, Email: email.String, Hash: hash.String, Salt: salt}
		}
		items = append(items, &p)
	}
	return items, total, rows.Err()
}

// GrantAuth attaches a NotActivated auth record to the person and flips
// have_auth, as one transaction.
func (r *PersonRepo) GrantAuth(ctx context.Context, personID int64, role model.AuthRole, email string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO auths (person_id, role, status, email) VALUES (?,?,?,?)",
		personID, role.Code(), model.StatusNotActivated.Code(), email); err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE persons SET have_auth=1 WHERE id=?", personID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetPassword writes a new hash and salt, optionally promotes the status to
// Activated, and consumes the confirmation code — all in one transaction so
// a changed password with a live code is never observable.
func (r *PersonRepo) SetPassword(ctx context.Context, personID int64, hash string, salt []byte, activate bool, consumeToken string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if activate {
		_, err = tx.ExecContext(ctx,
			"UPDATE auths SET hash=?, salt=?, status=? WHERE person_id=?",
			hash, salt, model.StatusActivated.Code(), personID)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE auths SET hash=?, salt=? WHERE person_id=?",
			hash, salt, personID)
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM confirmation_codes WHERE token=?", consumeToken); err != nil {
		return err
	}
	return tx.Commit()
}

// CountByRole counts auth records carrying the given role. Used by the
// startup admin bootstrap.
func (r *PersonRepo) CountByRole(ctx context.Context, role model.AuthRole) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM auths WHERE role=?", role.Code()).Scan(&n)
	return n, err
}

// CreateWithAuth inserts a person together with an already-activated auth
// record, in one transaction. Only the admin bootstrap uses it.
func (r *PersonRepo) CreateWithAuth(ctx context.Context, p *model.Person) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO persons (first_name, last_name, description, is_trainer, have_auth) VALUES (?,?,?,?,1)",
		p.FirstName, p.LastName, nullIfEmpty(p.Description), p.IsTrainer)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	a := p.Auth
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO auths (person_id, role, status, email, hash, salt) VALUES (?,?,?,?,?,?)",
		id, a.Role.Code(), a.Status.Code(), a.Email, a.Hash, a.Salt); err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return tx.Commit()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// MySQL reports unique violations as error 1062.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
