package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-notes-api/internal/model"
)

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, n model.Note) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notes (id, user_id, title, content, tags, is_pinned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Title, n.Content, n.Tags, n.IsPinned, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at
		 FROM notes WHERE user_id = $1
		 ORDER BY is_pinned DESC, updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) FindByIDForUser(ctx context.Context, noteID string, userID string) (model.Note, error) {
	var n model.Note
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at
		 FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, model.ErrNoteNotFound
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("find note: %w", err)
	}
	return n, nil
}

func (r *NoteRepository) Update(ctx context.Context, n model.Note) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notes SET title = $3, content = $4, tags = $5, is_pinned = $6, updated_at = $7
		 WHERE id = $1 AND user_id = $2`,
		n.ID, n.UserID, n.Title, n.Content, n.Tags, n.IsPinned, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) SetPinned(ctx context.Context, noteID string, userID string, pinned bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notes SET is_pinned = $3, updated_at = $4 WHERE id = $1 AND user_id = $2`,
		noteID, userID, pinned, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set pinned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) Search(ctx context.Context, userID string, query string) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, content, tags, is_pinned, created_at, updated_at
		 FROM notes
		 WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		 ORDER BY is_pinned DESC, updated_at DESC`, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

func (r *NoteRepository) Delete(ctx context.Context, noteID string, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func scanNotes(rows pgx.Rows) ([]model.Note, error) {
	notes := make([]model.Note, 0)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Tags, &n.IsPinned, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
