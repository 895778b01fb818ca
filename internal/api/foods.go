package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/erazemk/freshrack/internal/auth"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/imaging"
	"github.com/erazemk/freshrack/internal/metrics"
	"github.com/erazemk/freshrack/internal/model"
	"github.com/erazemk/freshrack/internal/sanitize"
	"github.com/erazemk/freshrack/internal/store"
)

// FoodsHandler handles food item endpoints.
type FoodsHandler struct {
	DB        *sql.DB
	Metrics   *metrics.Collector
	Validate  *validator.Validate
	Sanitizer *sanitize.Sanitizer
	Now       func() time.Time
}

type foodRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,foodcategory"`
	Quantity    int    `json:"quantity" validate:"min=1"`
	ExpiryDate  string `json:"expiryDate" validate:"required"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,max=2048"`
	Description string `json:"description" validate:"max=2000"`
}

// bind decodes, sanitizes and validates a food request into f. It writes the
// error response itself and reports whether the request was usable.
func (h *FoodsHandler) bind(w http.ResponseWriter, r *http.Request, f *model.FoodItem) bool {
	var req foodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	req.Title = h.Sanitizer.Text(req.Title)
	req.Description = h.Sanitizer.Text(req.Description)
	if err := h.Validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}

	expiryDate, err := expiry.NormalizeDate(req.ExpiryDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "expiryDate must be a date in YYYY-MM-DD form")
		return false
	}

	category, _ := model.ParseFoodCategory(req.Category)
	f.Title = req.Title
	f.Category = category
	f.Quantity = req.Quantity
	f.ExpiryDate = expiryDate
	f.ImageURL = req.ImageURL
	f.Description = req.Description
	return true
}

// loadOwned fetches the item named in the path and checks that the caller
// owns it. It writes the error response itself on failure.
func (h *FoodsHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*model.FoodItem, *auth.Claims, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return nil, nil, false
	}

	food, err := store.GetFood(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("failed to get food", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return nil, nil, false
	}
	if food == nil {
		jsonError(w, http.StatusNotFound, "food item not found")
		return nil, nil, false
	}
	if !food.OwnedBy(claims.Email) {
		slog.Warn("rejected modification by non-owner", "food", food.ID, "user", claims.Email)
		jsonError(w, http.StatusForbidden, "only the owner can modify this item")
		return nil, nil, false
	}
	return food, claims, true
}

// List handles GET /api/items.
func (h *FoodsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.FoodFilter{
		Search:     q.Get("search"),
		OwnerEmail: q.Get("owner"),
	}
	if c := q.Get("category"); c != "" {
		category, ok := model.ParseFoodCategory(c)
		if !ok {
			jsonError(w, http.StatusBadRequest, "unknown category")
			return
		}
		filter.Category = category
	}

	foods, err := store.ListFoods(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list foods", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list food items")
		return
	}
	if foods == nil {
		foods = []model.FoodItem{}
	}
	jsonResponse(w, http.StatusOK, foods)
}

// Get handles GET /api/items/{id}.
func (h *FoodsHandler) Get(w http.ResponseWriter, r *http.Request) {
	food, err := store.GetFood(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if food == nil {
		jsonError(w, http.StatusNotFound, "food item not found")
		return
	}
	jsonResponse(w, http.StatusOK, food)
}

// Create handles POST /api/items. The caller becomes the owner.
func (h *FoodsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	food := &model.FoodItem{
		AddedDate:  expiry.FormatDate(h.Now()),
		OwnerEmail: claims.Email,
	}
	if !h.bind(w, r, food) {
		return
	}

	created, err := store.CreateFood(r.Context(), h.DB, food)
	if err != nil {
		slog.Error("failed to create food", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create food item")
		return
	}

	h.Metrics.RecordFoodMutation(metrics.OpCreate)
	slog.Info("food created", "food", created.ID, "title", created.Title, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/items/{id}. The added date and owner are kept.
func (h *FoodsHandler) Update(w http.ResponseWriter, r *http.Request) {
	food, claims, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if !h.bind(w, r, food) {
		return
	}

	if err := store.UpdateFood(r.Context(), h.DB, food); err != nil {
		slog.Error("failed to update food", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update food item")
		return
	}

	h.Metrics.RecordFoodMutation(metrics.OpUpdate)
	slog.Info("food updated", "food", food.ID, "by", claims.Email)
	jsonResponse(w, http.StatusOK, food)
}

// Delete handles DELETE /api/items/{id}.
func (h *FoodsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	food, claims, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := store.DeleteFood(r.Context(), h.DB, food.ID); err != nil {
		slog.Error("failed to delete food", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete food item")
		return
	}

	h.Metrics.RecordFoodMutation(metrics.OpDelete)
	slog.Info("food deleted", "food", food.ID, "by", claims.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "food item deleted"})
}

// Stats handles GET /api/items/stats.
func (h *FoodsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	policy, err := store.GetExpiryPolicy(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	summary, err := store.FoodStats(r.Context(), h.DB, h.Now(), policy)
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	h.Metrics.ObserveStats(summary)
	jsonResponse(w, http.StatusOK, summary)
}

// NearlyExpiring handles GET /api/items/nearly-expiring.
func (h *FoodsHandler) NearlyExpiring(w http.ResponseWriter, r *http.Request) {
	h.listCategory(w, r, expiry.NearlyExpiring)
}

// Expired handles GET /api/items/expired.
func (h *FoodsHandler) Expired(w http.ResponseWriter, r *http.Request) {
	h.listCategory(w, r, expiry.Expired)
}

func (h *FoodsHandler) listCategory(w http.ResponseWriter, r *http.Request, cat expiry.Category) {
	policy, err := store.GetExpiryPolicy(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	foods, err := store.ListFoodsInCategory(r.Context(), h.DB, h.Now(), policy, cat)
	if err != nil {
		slog.Error("failed to list foods by expiry", "category", cat, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list food items")
		return
	}
	if foods == nil {
		foods = []model.FoodItem{}
	}
	jsonResponse(w, http.StatusOK, foods)
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *FoodsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	food, claims, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1024)
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if errors.Is(err, imaging.ErrUnsupportedFormat) {
		jsonError(w, http.StatusBadRequest, "image must be JPEG or PNG")
		return
	}
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to process image")
		return
	}

	imageURL := "/api/items/" + food.ID + "/image"
	if err := store.SetFoodImage(r.Context(), h.DB, food.ID, photo.Data, photo.MIME, imageURL); err != nil {
		slog.Error("failed to store image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	h.Metrics.RecordFoodMutation(metrics.OpImage)
	slog.Info("food image uploaded", "food", food.ID, "by", claims.Email, "bytes", len(photo.Data))
	food.ImageURL = imageURL
	jsonResponse(w, http.StatusOK, food)
}

// GetImage handles GET /api/items/{id}/image.
func (h *FoodsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetFoodImage(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
