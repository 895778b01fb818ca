// Package expiry classifies food items by how close they are to their expiry date.
//
// All dates are compared as calendar dates normalized to UTC midnight, so an
// item's category depends only on the two dates and never on the time of day
// or the local timezone of the caller.
package expiry

import (
	"fmt"
	"time"
)

// Category is the urgency bucket of a food item. The zero value is not a
// valid category.
type Category int

const (
	_ Category = iota
	Expired
	NearlyExpiring
	Safe
)

// Categories lists every valid category in display order.
var Categories = []Category{Expired, NearlyExpiring, Safe}

func (c Category) String() string {
	switch c {
	case Expired:
		return "expired"
	case NearlyExpiring:
		return "nearly-expiring"
	case Safe:
		return "safe"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	switch c {
	case Expired, NearlyExpiring, Safe:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	for _, cat := range Categories {
		if cat.String() == string(text) {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", string(text))
}

// Classification is the derived expiry status of a single item. It is never
// stored; callers recompute it whenever they render.
type Classification struct {
	DaysUntilExpiry int      `json:"daysUntilExpiry"`
	Category        Category `json:"category"`
	Label           string   `json:"label"`
}

// Urgent reports whether the item expires today or tomorrow.
func (c Classification) Urgent() bool {
	return c.Category == NearlyExpiring && c.DaysUntilExpiry <= 1
}

// Classify derives the classification of an item expiring on expiry as seen
// at now. Negative day counts mean the item is past its expiry date.
func Classify(now, expiry time.Time, p Policy) Classification {
	days := DaysBetween(now, expiry)

	limit := p.NearlyExpiringDays
	if limit < MinNearlyExpiringDays {
		limit = MinNearlyExpiringDays
	}

	var cat Category
	switch {
	case days < 0:
		cat = Expired
	case days <= limit:
		cat = NearlyExpiring
	default:
		cat = Safe
	}

	return Classification{
		DaysUntilExpiry: days,
		Category:        cat,
		Label:           label(cat, days),
	}
}

// ClassifyString parses expiry with ParseDate and classifies it. A missing or
// malformed date yields an error matching ErrInvalidInput.
func ClassifyString(now time.Time, expiry string, p Policy) (Classification, error) {
	date, err := ParseDate(expiry)
	if err != nil {
		return Classification{}, err
	}
	return Classify(now, date, p), nil
}

func label(cat Category, days int) string {
	switch cat {
	case Expired:
		if days == -1 {
			return "Expired 1 day ago"
		}
		return fmt.Sprintf("Expired %d days ago", -days)
	case NearlyExpiring, Safe:
		switch days {
		case 0:
			return "Expires today"
		case 1:
			return "Expires tomorrow"
		}
		return fmt.Sprintf("%d days left", days)
	default:
		panic(fmt.Sprintf("expiry: unhandled category %d", int(cat)))
	}
}
