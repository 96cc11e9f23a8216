package repository

import (
	"context"
	"database/sql"

	"github.com/uritmix/studio-api/internal/model"
)

// RoomRepo persists studio rooms.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (name, description) VALUES (?,?)",
		room.Name, nullIfEmpty(room.Description))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

func (r *RoomRepo) Edit(ctx context.Context, room *model.Room) error {
	if _, err := r.Get(ctx, room.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET name=?, description=? WHERE id=?",
		room.Name, nullIfEmpty(room.Description), room.ID)
	return err
}

func (r *RoomRepo) Get(ctx context.Context, id int64) (*model.Room, error) {
	var (
		room model.Room
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM rooms WHERE id=?", id).
		Scan(&room.ID, &room.Name, &desc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	room.Description = desc.String
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context, page, size int) ([]*model.Room, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, description FROM rooms ORDER BY id LIMIT ? OFFSET ?", size, page*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*model.Room
	for rows.Next() {
		var (
			room model.Room
			desc sql.NullString
		)
		if err := rows.Scan(&room.ID, &room.Name, &desc); err != nil {
			return nil, 0, err
		}
		room.Description = desc.String
		items = append(items, &room)
	}
	return items, total, rows.Err()
}
