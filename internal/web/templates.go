package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
	webembed "github.com/erazemk/freshrack/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"foodCategories": func() []model.FoodCategory { return model.FoodCategories },
		"badge": func(c expiry.Category) string {
			if !c.Valid() {
				return "badge-invalid"
			}
			return "badge-" + c.String()
		},
		"longDate": func(s string) string {
			t, err := expiry.ParseDate(s)
			if err != nil {
				return s
			}
			return t.Format("January 2, 2006")
		},
		"postedAt": func(t time.Time) string {
			return t.UTC().Format("Jan 2, 2006 15:04")
		},
	}
}

var pages = []string{
	"home.html",
	"fridge.html",
	"food_detail.html",
	"add_food.html",
	"my_items.html",
	"login.html",
	"register.html",
	"not_found.html",
	"error.html",
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a page with the given status. The page is buffered so that
// a template error never leaves a half-written response.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Session client.Session
	Error   string
	Success string
}

// FoodView is a food item together with its classification at render time.
type FoodView struct {
	model.FoodItem
	Status    expiry.Category
	Days      int
	Label     string
	CanModify bool
}

// InvalidDateLabel is shown for items whose expiry date cannot be parsed.
const InvalidDateLabel = "Invalid date"

// newFoodView classifies item as of now. Malformed dates keep the zero
// category so they never render as safe.
func newFoodView(now time.Time, item model.FoodItem, p expiry.Policy, s client.Session) FoodView {
	v := FoodView{FoodItem: item, CanModify: client.CanModify(s, &item)}
	c, err := client.Classify(now, &item, p)
	if err != nil {
		v.Label = InvalidDateLabel
		return v
	}
	v.Status = c.Category
	v.Days = c.DaysUntilExpiry
	v.Label = c.Label
	return v
}

func newFoodViews(now time.Time, items []model.FoodItem, p expiry.Policy, s client.Session) []FoodView {
	views := make([]FoodView, len(items))
	for i, item := range items {
		views[i] = newFoodView(now, item, p, s)
	}
	return views
}
