package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// AbonnementRepo persists subscription products and their lesson links.
type AbonnementRepo struct {
	db *sql.DB
}

func NewAbonnementRepo(db *sql.DB) *AbonnementRepo { return &AbonnementRepo{db: db} }

// Create inserts the abonnement and its lesson links in one transaction.
func (r *AbonnementRepo) Create(ctx context.Context, a *model.Abonnement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO abonnements (name, validity, max_visits, base_price, max_discount) VALUES (?,?,?,?,?)",
		a.Name, a.Validity.Code(), a.MaxNumberOfVisits, a.BasePrice, a.MaxDiscount.Code())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	for _, lessonID := range a.LessonIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO abonnement_lessons (abonnement_id, lesson_id) VALUES (?,?)", id, lessonID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Edit rewrites the abonnement fields and replaces its lesson links.
func (r *AbonnementRepo) Edit(ctx context.Context, a *model.Abonnement) error {
	if _, err := r.Get(ctx, a.ID); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"UPDATE abonnements SET name=?, validity=?, max_visits=?, base_price=?, max_discount=? WHERE id=?",
		a.Name, a.Validity.Code(), a.MaxNumberOfVisits, a.BasePrice, a.MaxDiscount.Code(), a.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM abonnement_lessons WHERE abonnement_id=?", a.ID); err != nil {
		return err
	}
	for _, lessonID := range a.LessonIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO abonnement_lessons (abonnement_id, lesson_id) VALUES (?,?)", a.ID, lessonID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *AbonnementRepo) Get(ctx context.Context, id int64) (*model.Abonnement, error) {
	var (
		a       model.Abonnement
		valCode byte
		disCode byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, validity, max_visits, base_price, max_discount FROM abonnements WHERE id=?", id).
		Scan(&a.ID, &a.Name, &valCode, &a.MaxNumberOfVisits, &a.BasePrice, &disCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if a.Validity, err = model.ValidityFromCode(valCode); err != nil {
		return nil, err
	}
	if a.MaxDiscount, err = model.DiscountFromCode(disCode); err != nil {
		return nil, err
	}
	a.LessonIDs, err = r.lessonIDs(ctx, id)
	return &a, err
}

func (r *AbonnementRepo) List(ctx context.Context, page, size int) ([]*model.Abonnement, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM abonnements").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, validity, max_visits, base_price, max_discount FROM abonnements ORDER BY id LIMIT ? OFFSET ?",
		size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.Abonnement
	for rows.Next() {
		var (
			a       model.Abonnement
			valCode byte
			disCode byte
		)
		if err := rows.Scan(&a.ID, &a.Name, &valCode, &a.MaxNumberOfVisits, &a.BasePrice, &disCode); err != nil {
			return nil, 0, err
		}
		if a.Validity, err = model.ValidityFromCode(valCode); err != nil {
			return nil, 0, err
		}
		if a.MaxDiscount, err = model.DiscountFromCode(disCode); err != nil {
			return nil, 0, err
		}
		items = append(items, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, a := range items {
		if a.LessonIDs, err = r.lessonIDs(ctx, a.ID); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *AbonnementRepo) lessonIDs(ctx context.Context, abonnementID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lesson_id FROM abonnement_lessons WHERE abonnement_id=? ORDER BY lesson_id", abonnementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
