package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

// listedFood is a food item with its classification as printed by the CLI.
type listedFood struct {
	model.FoodItem
	Classification *expiry.Classification `json:"classification,omitempty"`
	Invalid        string                 `json:"invalid,omitempty"`
}

func classifyAll(now time.Time, foods []model.FoodItem, p expiry.Policy) []listedFood {
	out := make([]listedFood, len(foods))
	for i := range foods {
		out[i] = listedFood{FoodItem: foods[i]}
		c, err := client.Classify(now, &foods[i], p)
		if err != nil {
			out[i].Invalid = err.Error()
			continue
		}
		out[i].Classification = &c
	}
	return out
}

func (f listedFood) status() string {
	if f.Classification == nil {
		return "Invalid date"
	}
	return f.Classification.Label
}

const foodRowFormat = "%-36s  %-20s  %-10s  %3s  %-10s  %s\n"

func writeFoods(w io.Writer, foods []listedFood) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No food items.")
		return
	}
	fmt.Fprintf(w, foodRowFormat, "ID", "TITLE", "CATEGORY", "QTY", "EXPIRES", "STATUS")
	for _, f := range foods {
		fmt.Fprintf(w, foodRowFormat,
			f.ID, f.Title, f.FoodItem.Category, fmt.Sprint(f.Quantity), f.ExpiryDate, f.status())
	}
}

type foodDetail struct {
	listedFood
	Notes []model.Note `json:"notes"`
}

func writeFoodDetail(w io.Writer, d foodDetail) {
	fmt.Fprintf(w, "%s\n", d.Title)
	fmt.Fprintf(w, "  ID:        %s\n", d.ID)
	fmt.Fprintf(w, "  Category:  %s\n", d.FoodItem.Category)
	fmt.Fprintf(w, "  Quantity:  %d\n", d.Quantity)
	fmt.Fprintf(w, "  Expires:   %s (%s)\n", d.ExpiryDate, d.status())
	fmt.Fprintf(w, "  Added:     %s\n", d.AddedDate)
	fmt.Fprintf(w, "  Owner:     %s\n", d.OwnerEmail)
	if d.Description != "" {
		fmt.Fprintf(w, "  About:     %s\n", d.Description)
	}

	if len(d.Notes) == 0 {
		fmt.Fprintln(w, "\nNo notes.")
		return
	}
	fmt.Fprintln(w, "\nNotes:")
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  [%s] %s: %s\n", n.PostedAt.UTC().Format("2006-01-02 15:04"), n.AuthorEmail, n.Text)
	}
}

func writeStats(w io.Writer, s expiry.Summary) {
	fmt.Fprintf(w, "Total:            %d\n", s.Total)
	fmt.Fprintf(w, "Expired:          %d\n", s.Expired)
	fmt.Fprintf(w, "Nearly expiring:  %d\n", s.NearlyExpiring)
	fmt.Fprintf(w, "Safe:             %d\n", s.Safe)
}
