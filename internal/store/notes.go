package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/freshrack/internal/model"
)

// CreateNote appends a note to a food item.
func CreateNote(ctx context.Context, db *sql.DB, foodID, text, authorEmail string, postedAt time.Time) (*model.Note, error) {
	n := &model.Note{
		ID:          uuid.NewString(),
		ItemID:      foodID,
		Text:        text,
		AuthorEmail: model.NormalizeEmail(authorEmail),
		PostedAt:    postedAt.UTC(),
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO notes (id, food_id, text, author_email, posted_at) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.ItemID, n.Text, n.AuthorEmail, n.PostedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}
	return n, nil
}

// ListNotes returns a food item's notes in the order they were added.
func ListNotes(ctx context.Context, db *sql.DB, foodID string) ([]model.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, food_id, text, author_email, posted_at
		 FROM notes WHERE food_id = ? ORDER BY seq`, foodID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.ItemID, &n.Text, &n.AuthorEmail, &n.PostedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		n.PostedAt = n.PostedAt.UTC()
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
