package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/erazemk/freshrack/internal/metrics"
	"github.com/erazemk/freshrack/internal/model"
	"github.com/erazemk/freshrack/internal/sanitize"
	"github.com/erazemk/freshrack/internal/store"
)

// NotesHandler handles the notes attached to food items.
type NotesHandler struct {
	DB        *sql.DB
	Metrics   *metrics.Collector
	Validate  *validator.Validate
	Sanitizer *sanitize.Sanitizer
	Now       func() time.Time
}

type noteRequest struct {
	Text        string `json:"text" validate:"required,max=1000"`
	AuthorEmail string `json:"authorEmail" validate:"omitempty,email"`
	PostedAt    string `json:"postedAt"`
}

// List handles GET /api/items/{id}/notes. Notes are returned in posting order.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	food, err := store.GetFood(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if food == nil {
		jsonError(w, http.StatusNotFound, "food item not found")
		return
	}

	notes, err := store.ListNotes(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to list notes", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	jsonResponse(w, http.StatusOK, notes)
}

// Create handles POST /api/items/{id}/notes. Only the item's owner may post,
// and only under their own email.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req noteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = h.Sanitizer.Text(req.Text)
	if err := h.Validate.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	postedAt := h.Now()
	if req.PostedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PostedAt)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "postedAt must be an RFC 3339 timestamp")
			return
		}
		postedAt = t
	}

	food, err := store.GetFood(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if food == nil {
		jsonError(w, http.StatusNotFound, "food item not found")
		return
	}
	if !food.OwnedBy(claims.Email) {
		jsonError(w, http.StatusForbidden, "only the owner can add notes to this item")
		return
	}
	if req.AuthorEmail != "" && model.NormalizeEmail(req.AuthorEmail) != model.NormalizeEmail(claims.Email) {
		jsonError(w, http.StatusForbidden, "notes must be posted under your own email")
		return
	}

	note, err := store.CreateNote(r.Context(), h.DB, food.ID, req.Text, claims.Email, postedAt)
	if err != nil {
		slog.Error("failed to create note", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	h.Metrics.RecordNoteCreated()
	slog.Info("note added", "food", food.ID, "by", claims.Email)
	jsonResponse(w, http.StatusCreated, note)
}
