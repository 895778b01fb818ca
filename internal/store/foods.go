package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/freshrack/internal/model"
)

// FoodFilter narrows ListFoods. Zero fields match everything.
type FoodFilter struct {
	Search     string
	Category   model.FoodCategory
	OwnerEmail string
}

const foodColumns = `id, title, category, quantity, expiry_date, added_date, owner_email, image_url, description`

// CreateFood inserts a new food item with a fresh ID and returns the stored row.
// Dates must already be normalized to YYYY-MM-DD.
func CreateFood(ctx context.Context, db *sql.DB, f *model.FoodItem) (*model.FoodItem, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO foods (id, title, category, quantity, expiry_date, added_date, owner_email, image_url, description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.Title, string(f.Category), f.Quantity, f.ExpiryDate, f.AddedDate,
		model.NormalizeEmail(f.OwnerEmail), f.ImageURL, f.Description,
	)
	if err != nil {
		return nil, fmt.Errorf("creating food: %w", err)
	}
	return GetFood(ctx, db, id)
}

// GetFood returns a food item by ID, or nil if it does not exist.
func GetFood(ctx context.Context, db *sql.DB, id string) (*model.FoodItem, error) {
	row := db.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting food: %w", err)
	}
	return f, nil
}

// ListFoods returns food items matching the filter, soonest expiry first.
// Search is a case-insensitive substring match on the title.
func ListFoods(ctx context.Context, db *sql.DB, filter FoodFilter) ([]model.FoodItem, error) {
	var where []string
	var args []any

	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, `title LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(s)+"%")
	}
	if filter.Category != "" {
		where = append(where, `category = ?`)
		args = append(args, string(filter.Category))
	}
	if filter.OwnerEmail != "" {
		where = append(where, `owner_email = ?`)
		args = append(args, model.NormalizeEmail(filter.OwnerEmail))
	}

	query := `SELECT ` + foodColumns + ` FROM foods`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY expiry_date, title COLLATE NOCASE`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing foods: %w", err)
	}
	defer rows.Close()

	var foods []model.FoodItem
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning food: %w", err)
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

// UpdateFood overwrites the mutable fields of a food item. The added date and
// owner never change.
func UpdateFood(ctx context.Context, db *sql.DB, f *model.FoodItem) error {
	_, err := db.ExecContext(ctx,
		`UPDATE foods SET title = ?, category = ?, quantity = ?, expiry_date = ?, image_url = ?,
		        description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		f.Title, string(f.Category), f.Quantity, f.ExpiryDate, f.ImageURL, f.Description, f.ID,
	)
	if err != nil {
		return fmt.Errorf("updating food: %w", err)
	}
	return nil
}

// DeleteFood removes a food item and its notes.
func DeleteFood(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting food: %w", err)
	}
	return nil
}

// SetFoodImage stores an uploaded photo and points the item's image URL at it.
func SetFoodImage(ctx context.Context, db *sql.DB, id string, image []byte, mime, imageURL string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE foods SET image = ?, image_mime = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		image, mime, imageURL, id,
	)
	if err != nil {
		return fmt.Errorf("setting food image: %w", err)
	}
	return nil
}

// GetFoodImage returns a food item's stored photo and its MIME type. Data is
// nil when the item or the photo does not exist.
func GetFoodImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM foods WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting food image: %w", err)
	}
	return image, mime.String, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (*model.FoodItem, error) {
	f := &model.FoodItem{}
	var category string
	err := row.Scan(&f.ID, &f.Title, &category, &f.Quantity, &f.ExpiryDate, &f.AddedDate,
		&f.OwnerEmail, &f.ImageURL, &f.Description)
	if err != nil {
		return nil, err
	}
	f.Category = model.FoodCategory(category)
	return f, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
