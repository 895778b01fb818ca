package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

// FoodStats counts all food items per expiry category as of now. Every stored
// date goes through the same classifier the clients use.
func FoodStats(ctx context.Context, db *sql.DB, now time.Time, p expiry.Policy) (expiry.Summary, error) {
	rows, err := db.QueryContext(ctx, `SELECT expiry_date FROM foods`)
	if err != nil {
		return expiry.Summary{}, fmt.Errorf("querying expiry dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return expiry.Summary{}, fmt.Errorf("scanning expiry date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return expiry.Summary{}, fmt.Errorf("reading expiry dates: %w", err)
	}

	summary, err := expiry.Tally(now, dates, p)
	if err != nil {
		return expiry.Summary{}, fmt.Errorf("tallying food stats: %w", err)
	}
	return summary, nil
}

// ListFoodsInCategory returns the food items that classify into cat as of
// now. Expired items are ordered most recently expired first, all others
// soonest expiry first.
func ListFoodsInCategory(ctx context.Context, db *sql.DB, now time.Time, p expiry.Policy, cat expiry.Category) ([]model.FoodItem, error) {
	foods, err := ListFoods(ctx, db, FoodFilter{})
	if err != nil {
		return nil, err
	}

	var matched []model.FoodItem
	for _, f := range foods {
		c, err := expiry.ClassifyString(now, f.ExpiryDate, p)
		if err != nil {
			return nil, fmt.Errorf("classifying food %s: %w", f.ID, err)
		}
		if c.Category == cat {
			matched = append(matched, f)
		}
	}

	if cat == expiry.Expired {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ExpiryDate > matched[j].ExpiryDate
		})
	}
	return matched, nil
}
