package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// LessonRepo persists class templates. Each lesson references the trainer
// person leading it; the trainer is loaded alongside for display.
type LessonRepo struct {
	db *sql.DB
}

func NewLessonRepo(db *sql.DB) *LessonRepo { return &LessonRepo{db: db} }

const lessonSelect = `SELECT l.id, l.name, l.description, l.trainer_id, l.duration_minute, l.base_price,
	p.first_name, p.last_name
	FROM lessons l JOIN persons p ON p.id = l.trainer_id`

func (r *LessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO lessons (name, description, trainer_id, duration_minute, base_price) VALUES (?,?,?,?,?)",
		l.Name, nullIfEmpty(l.Description), l.TrainerID, l.DurationMinute, l.BasePrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (r *LessonRepo) Edit(ctx context.Context, l *model.Lesson) error {
	if _, err := r.Get(ctx, l.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE lessons SET name=?, description=?, trainer_id=?, duration_minute=?, base_price=? WHERE id=?",
		l.Name, nullIfEmpty(l.Description), l.TrainerID, l.DurationMinute, l.BasePrice, l.ID)
	return err
}

func (r *LessonRepo) Get(ctx context.Context, id int64) (*model.Lesson, error) {
	var (
		l     model.Lesson
		desc  sql.NullString
		first string
		last  string
	)
	err := r.db.QueryRowContext(ctx, lessonSelect+" WHERE l.id=?", id).
		Scan(&l.ID, &l.Name, &desc, &l.TrainerID, &l.DurationMinute, &l.BasePrice, &first, &last)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	l.Description = desc.String
	l.Trainer = &model.Person{ID: l.TrainerID, FirstName: first, LastName: last, IsTrainer: true}
	return &l, nil
}

func (r *LessonRepo) List(ctx context.Context, page, size int) ([]*model.Lesson, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lessons").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx, lessonSelect+" ORDER BY l.id LIMIT ? OFFSET ?", size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.Lesson
	for rows.Next() {
		var (
			l     model.Lesson
			desc  sql.NullString
			first string
			last  string
		)
		if err := rows.Scan(&l.ID, &l.Name, &desc, &l.TrainerID, &l.DurationMinute, &l.BasePrice, &first, &last); err != nil {
			return nil, 0, err
		}
		l.Description = desc.String
		l.Trainer = &model.Person{ID: l.TrainerID, FirstName: first, LastName: last, IsTrainer: true}
		items = append(items, &l)
	}
	return items, total, rows.Err()
}
