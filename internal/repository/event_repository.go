package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/uritmix/studio-api/internal/model"
)

// EventRepo persists scheduled lesson occurrences. Collision detection is
// deliberately absent; two events may share a room and time.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventSelect = `SELECT e.id, e.lesson_id, e.room_id, e.starts_at,
	l.name, l.duration_minute, r.name
	FROM events e
	JOIN lessons l ON l.id = e.lesson_id
	JOIN rooms r ON r.id = e.room_id`

func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO events (lesson_id, room_id, starts_at) VALUES (?,?,?)",
		e.LessonID, e.RoomID, e.StartsAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepo) Get(ctx context.Context, id int64) (*model.Event, error) {
	row := r.db.QueryRowContext(ctx, eventSelect+" WHERE e.id=?", id)
	e, err := scanEvent(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return e, err
}

// ListRange returns the events starting inside [from, to), earliest first.
func (r *EventRepo) ListRange(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		eventSelect+" WHERE e.starts_at >= ? AND e.starts_at < ? ORDER BY e.starts_at", from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func scanEvent(scan func(dest ...any) error) (*model.Event, error) {
	var (
		e          model.Event
		lessonName string
		duration   int
		roomName   string
	)
	if err := scan(&e.ID, &e.LessonID, &e.RoomID, &e.StartsAt, &lessonName, &duration, &roomName); err != nil {
		return nil, err
	}
	e.Lesson = &model.Lesson{ID: e.LessonID, Name: lessonName, DurationMinute: duration}
	e.Room = &model.Room{ID: e.RoomID, Name: roomName}
	return &e, nil
}
