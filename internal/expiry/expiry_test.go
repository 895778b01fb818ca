package expiry

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		expiry   string
		days     int
		category Category
		label    string
	}{
		{"2024-03-10", 0, NearlyExpiring, "Expires today"},
		{"2024-03-11", 1, NearlyExpiring, "Expires tomorrow"},
		{"2024-03-12", 2, NearlyExpiring, "2 days left"},
		{"2024-03-13", 3, NearlyExpiring, "3 days left"},
		{"2024-03-14", 4, Safe, "4 days left"},
		{"2024-04-10", 31, Safe, "31 days left"},
		{"2024-03-09", -1, Expired, "Expired 1 day ago"},
		{"2024-03-08", -2, Expired, "Expired 2 days ago"},
		{"2023-03-10", -366, Expired, "Expired 366 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			c, err := ClassifyString(now, tt.expiry, DefaultPolicy())
			require.NoError(t, err)
			assert.Equal(t, tt.days, c.DaysUntilExpiry)
			assert.Equal(t, tt.category, c.Category)
			assert.Equal(t, tt.label, c.Label)
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	expiry := date(t, "2024-03-10")
	times := []time.Time{
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC),
		time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC),
	}

	for _, now := range times {
		c := Classify(now, expiry, DefaultPolicy())
		assert.Equal(t, NearlyExpiring, c.Category, "now=%s", now)
		assert.Equal(t, 0, c.DaysUntilExpiry, "now=%s", now)
		assert.Equal(t, "Expires today", c.Label, "now=%s", now)
	}
}

func TestClassifyProperties(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hours := []int{0, 1, 11, 23}

	for day := 0; day < 400; day += 7 {
		for _, h := range hours {
			now := base.AddDate(0, 0, day).Add(time.Duration(h) * time.Hour)
			today := DateOf(now)

			for offset := -10; offset <= 10; offset++ {
				c := Classify(now, today.AddDate(0, 0, offset), DefaultPolicy())
				require.Equal(t, offset, c.DaysUntilExpiry, "now=%s offset=%d", now, offset)

				switch {
				case offset < 0:
					assert.Equal(t, Expired, c.Category)
					want := fmt.Sprintf("Expired %d days ago", -offset)
					if offset == -1 {
						want = "Expired 1 day ago"
					}
					assert.Equal(t, want, c.Label)
				case offset == 0:
					assert.Equal(t, NearlyExpiring, c.Category)
					assert.Equal(t, "Expires today", c.Label)
				case offset == 1:
					assert.Equal(t, NearlyExpiring, c.Category)
					assert.Equal(t, "Expires tomorrow", c.Label)
				case offset <= 3:
					assert.Equal(t, NearlyExpiring, c.Category)
				default:
					assert.Equal(t, Safe, c.Category)
				}
			}
		}
	}
}

func TestClassifyAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Ljubljana")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	// Clocks move forward on 2024-03-31 in this zone.
	now := time.Date(2024, 3, 30, 12, 0, 0, 0, loc)
	c := Classify(now, date(t, "2024-04-02"), DefaultPolicy())
	assert.Equal(t, 3, c.DaysUntilExpiry)
	assert.Equal(t, NearlyExpiring, c.Category)
}

func TestClassifyIsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)

	first, err := ClassifyString(now, "2024-03-12", DefaultPolicy())
	require.NoError(t, err)
	second, err := ClassifyString(now, "2024-03-12", DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyInvalidInput(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"not-a-date", "", "   ", "2024-13-01", "10/03/2024", "2024-02-30"} {
		c, err := ClassifyString(now, input, DefaultPolicy())
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.NotEqual(t, Safe, c.Category)
		assert.False(t, c.Category.Valid())

		var inputErr *InvalidInputError
		require.ErrorAs(t, err, &inputErr)
	}
}

func TestClassifyWithPolicy(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	strict := Policy{NearlyExpiringDays: 1}
	c := Classify(now, date(t, "2024-03-12"), strict)
	assert.Equal(t, Safe, c.Category)
	assert.Equal(t, "2 days left", c.Label)

	lax := Policy{NearlyExpiringDays: 7}
	c = Classify(now, date(t, "2024-03-17"), lax)
	assert.Equal(t, NearlyExpiring, c.Category)

	// Out of range policies never push tomorrow out of the nearly expiring bucket.
	c = Classify(now, date(t, "2024-03-11"), Policy{})
	assert.Equal(t, NearlyExpiring, c.Category)
}

func TestClassificationUrgent(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, Classify(now, date(t, "2024-03-10"), DefaultPolicy()).Urgent())
	assert.True(t, Classify(now, date(t, "2024-03-11"), DefaultPolicy()).Urgent())
	assert.False(t, Classify(now, date(t, "2024-03-12"), DefaultPolicy()).Urgent())
	assert.False(t, Classify(now, date(t, "2024-03-01"), DefaultPolicy()).Urgent())
}

func TestCategoryText(t *testing.T) {
	for _, cat := range Categories {
		text, err := cat.MarshalText()
		require.NoError(t, err)

		var got Category
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, cat, got)
	}

	var zero Category
	_, err := zero.MarshalText()
	assert.Error(t, err)

	var bad Category
	assert.Error(t, bad.UnmarshalText([]byte("rotten")))
}

func TestClassificationJSON(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	c := Classify(now, date(t, "2024-03-08"), DefaultPolicy())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"daysUntilExpiry":-2,"category":"expired","label":"Expired 2 days ago"}`, string(data))
}
