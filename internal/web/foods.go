package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/imaging"
	"github.com/erazemk/freshrack/internal/model"
)

// FridgePage handles GET /fridge?search=&category=.
func (s *Server) FridgePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)

	type fridgeData struct {
		PageData
		Search   string
		Category model.FoodCategory
		Foods    []FoodView
	}

	search := strings.TrimSpace(r.URL.Query().Get("search"))
	var category model.FoodCategory
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		var ok bool
		category, ok = model.ParseFoodCategory(raw)
		if !ok {
			s.Templates.Render(w, http.StatusBadRequest, "fridge.html", &fridgeData{
				PageData: PageData{Title: "Fridge", Session: session, Error: "Unknown category: " + raw},
				Search:   search,
			})
			return
		}
	}

	foods, err := s.Client.ListFoods(ctx, client.FoodFilter{Search: search, Category: category})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "fridge.html", &fridgeData{
		PageData: PageData{Title: "Fridge", Session: session},
		Search:   search,
		Category: category,
		Foods:    newFoodViews(s.Now(), foods, s.policy(ctx), session),
	})
}

type foodDetailData struct {
	PageData
	Food  FoodView
	Notes []model.Note
}

// FoodDetailPage handles GET /food/{id}.
func (s *Server) FoodDetailPage(w http.ResponseWriter, r *http.Request) {
	s.renderFoodDetail(w, r, http.StatusOK, "")
}

func (s *Server) renderFoodDetail(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	ctx := r.Context()
	session := GetSession(ctx)
	id := chi.URLParam(r, "id")

	food, err := s.Client.GetFood(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	notes, err := s.Client.ListNotes(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.Templates.Render(w, status, "food_detail.html", &foodDetailData{
		PageData: PageData{Title: food.Title, Session: session, Error: errMsg},
		Food:     newFoodView(s.Now(), *food, s.policy(ctx), session),
		Notes:    notes,
	})
}

// NoteSubmit handles POST /food/{id}/notes.
func (s *Server) NoteSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)
	id := chi.URLParam(r, "id")

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		s.renderFoodDetail(w, r, http.StatusBadRequest, "Write something before posting a note.")
		return
	}

	food, err := s.Client.GetFood(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.Client.AddNote(ctx, session, food, text); err != nil {
		if errors.Is(err, client.ErrInvalidInput) {
			s.renderFoodDetail(w, r, http.StatusBadRequest, "That note could not be saved.")
			return
		}
		s.fail(w, r, err)
		return
	}

	slog.Info("note added", "food", food.ID, "user", session.Email)
	http.Redirect(w, r, "/food/"+food.ID, http.StatusSeeOther)
}

type addFoodData struct {
	PageData
	Form client.FoodInput
}

// AddFoodPage handles GET /add-food.
func (s *Server) AddFoodPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, http.StatusOK, "add_food.html", &addFoodData{
		PageData: PageData{Title: "Add food", Session: GetSession(r.Context())},
		Form: client.FoodInput{
			Quantity:   1,
			ExpiryDate: expiry.FormatDate(s.Now()),
		},
	})
}

// AddFoodSubmit handles POST /add-food.
func (s *Server) AddFoodSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)

	in, err := foodInputFromForm(r)
	if err == nil {
		_, err = s.Client.CreateFood(ctx, session, in)
	}
	if err != nil {
		msg, ok := formError(err)
		if !ok {
			s.fail(w, r, err)
			return
		}
		s.Templates.Render(w, http.StatusBadRequest, "add_food.html", &addFoodData{
			PageData: PageData{Title: "Add food", Session: session, Error: msg},
			Form:     in,
		})
		return
	}

	slog.Info("food added", "title", in.Title, "user", session.Email)
	http.Redirect(w, r, "/my-items", http.StatusSeeOther)
}

// MyItemsPage handles GET /my-items.
func (s *Server) MyItemsPage(w http.ResponseWriter, r *http.Request) {
	success := ""
	switch r.URL.Query().Get("done") {
	case "updated":
		success = "Item updated."
	case "deleted":
		success = "Item deleted."
	case "photo":
		success = "Photo uploaded."
	}
	s.renderMyItems(w, r, http.StatusOK, "", success)
}

func (s *Server) renderMyItems(w http.ResponseWriter, r *http.Request, status int, errMsg, success string) {
	ctx := r.Context()
	session := GetSession(ctx)

	foods, err := s.Client.ListFoods(ctx, client.FoodFilter{Owner: session.Email})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.Templates.Render(w, status, "my_items.html", &struct {
		PageData
		Foods []FoodView
	}{
		PageData: PageData{Title: "My items", Session: session, Error: errMsg, Success: success},
		Foods:    newFoodViews(s.Now(), foods, s.policy(ctx), session),
	})
}

// MyItemUpdateSubmit handles POST /my-items/{id}.
func (s *Server) MyItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)

	food, err := s.Client.GetFood(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	in, err := foodInputFromForm(r)
	if err == nil {
		in.ImageURL = food.ImageURL
		_, err = s.Client.UpdateFood(ctx, session, food, in)
	}
	if err != nil {
		if msg, ok := formError(err); ok {
			s.renderMyItems(w, r, http.StatusBadRequest, msg, "")
			return
		}
		s.fail(w, r, err)
		return
	}

	slog.Info("food updated", "food", food.ID, "user", session.Email)
	http.Redirect(w, r, "/my-items?done=updated", http.StatusSeeOther)
}

// MyItemDeleteSubmit handles POST /my-items/{id}/delete.
func (s *Server) MyItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)

	food, err := s.Client.GetFood(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Client.DeleteFood(ctx, session, food); err != nil {
		s.fail(w, r, err)
		return
	}

	slog.Info("food deleted", "food", food.ID, "user", session.Email)
	http.Redirect(w, r, "/my-items?done=deleted", http.StatusSeeOther)
}

// MyItemImageSubmit handles POST /my-items/{id}/image.
func (s *Server) MyItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)

	food, err := s.Client.GetFood(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1024)
	file, header, err := r.FormFile("image")
	if err != nil {
		s.renderMyItems(w, r, http.StatusBadRequest, "Choose a JPEG or PNG photo up to 5 MB.", "")
		return
	}
	defer file.Close()

	if _, err := s.Client.UploadImage(ctx, session, food, header.Filename, file); err != nil {
		if errors.Is(err, client.ErrInvalidInput) {
			s.renderMyItems(w, r, http.StatusBadRequest, "That photo could not be used. Upload a JPEG or PNG.", "")
			return
		}
		s.fail(w, r, err)
		return
	}

	slog.Info("food photo uploaded", "food", food.ID, "user", session.Email)
	http.Redirect(w, r, "/my-items?done=photo", http.StatusSeeOther)
}

// formInputError is a problem with submitted form values, shown to the user.
type formInputError struct {
	msg string
}

func (e *formInputError) Error() string { return e.msg }

// foodInputFromForm reads the food form. The returned input holds whatever
// was submitted so the form can be shown again on error.
func foodInputFromForm(r *http.Request) (client.FoodInput, error) {
	in := client.FoodInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Category:    model.FoodCategory(r.FormValue("category")),
		ExpiryDate:  strings.TrimSpace(r.FormValue("expiryDate")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}

	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || qty < 1 {
		return in, &formInputError{"Quantity must be a whole number of at least 1."}
	}
	in.Quantity = qty

	if in.Title == "" {
		return in, &formInputError{"Give the item a name."}
	}

	category, ok := model.ParseFoodCategory(string(in.Category))
	if !ok {
		return in, &formInputError{"Choose a category."}
	}
	in.Category = category

	date, err := expiry.NormalizeDate(in.ExpiryDate)
	if err != nil {
		return in, &formInputError{"Enter a valid expiry date."}
	}
	in.ExpiryDate = date

	return in, nil
}

// formError returns the message to show for err when it is a problem with
// the submitted values rather than with the service.
func formError(err error) (string, bool) {
	var fe *formInputError
	if errors.As(err, &fe) {
		return fe.msg, true
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
		return userMessage(apiErr.Message), true
	}
	return "", false
}
