package expiry

import (
	"fmt"
	"time"
)

// Summary counts items per category.
type Summary struct {
	Total          int `json:"total"`
	Expired        int `json:"expired"`
	NearlyExpiring int `json:"nearlyExpiring"`
	Safe           int `json:"safe"`
}

// Add counts one classified item.
func (s *Summary) Add(c Classification) {
	s.Total++
	switch c.Category {
	case Expired:
		s.Expired++
	case NearlyExpiring:
		s.NearlyExpiring++
	case Safe:
		s.Safe++
	default:
		panic(fmt.Sprintf("expiry: unhandled category %d", int(c.Category)))
	}
}

// Tally classifies every date and returns the per-category counts. It fails
// on the first malformed date instead of counting it in any bucket.
func Tally(now time.Time, dates []string, p Policy) (Summary, error) {
	var s Summary
	for _, d := range dates {
		c, err := ClassifyString(now, d, p)
		if err != nil {
			return Summary{}, err
		}
		s.Add(c)
	}
	return s, nil
}
