package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// SoldAbonnementRepo persists per-client sale snapshots.
type SoldAbonnementRepo struct {
	db *sql.DB
}

func NewSoldAbonnementRepo(db *sql.DB) *SoldAbonnementRepo {
	return &SoldAbonnementRepo{db: db}
}

// Create inserts the sale snapshot and its lesson links in one transaction.
func (r *SoldAbonnementRepo) Create(ctx context.Context, s *model.SoldAbonnement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sold_abonnements
		 (person_id, active, date_sale, date_expiration, price_sold, discount, visit_counter, name, validity, max_visits, base_price)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		s.PersonID, s.Active, s.DateSale, s.DateExpiration, s.PriceSold, s.Discount.Code(),
		s.VisitCounter, s.Name, s.Validity.Code(), s.MaxNumberOfVisits, s.BasePrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	for _, lessonID := range s.LessonIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sold_abonnement_lessons (sold_abonnement_id, lesson_id) VALUES (?,?)", id, lessonID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByPerson returns every abonnement ever sold to the person, newest first.
func (r *SoldAbonnementRepo) ListByPerson(ctx context.Context, personID int64) ([]*model.SoldAbonnement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, person_id, active, date_sale, date_expiration, price_sold, discount, visit_counter, name, validity, max_visits, base_price
		 FROM sold_abonnements WHERE person_id=? ORDER BY date_sale DESC`, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.SoldAbonnement
	for rows.Next() {
		var (
			s       model.SoldAbonnement
			disCode byte
			valCode byte
		)
		if err := rows.Scan(&s.ID, &s.PersonID, &s.Active, &s.DateSale, &s.DateExpiration, &s.PriceSold,
			&disCode, &s.VisitCounter, &s.Name, &valCode, &s.MaxNumberOfVisits, &s.BasePrice); err != nil {
			return nil, err
		}
		if s.Discount, err = model.DiscountFromCode(disCode); err != nil {
			return nil, err
		}
		if s.Validity, err = model.ValidityFromCode(valCode); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range items {
		if s.LessonIDs, err = r.soldLessonIDs(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *SoldAbonnementRepo) soldLessonIDs(ctx context.Context, soldID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT lesson_id FROM sold_abonnement_lessons WHERE sold_abonnement_id=? ORDER BY lesson_id", soldID)
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
