package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/freshrack/internal/store"
)

// PolicyHandler serves the deployment's expiry policy so that every client
// classifies with the same threshold as the server's stats.
type PolicyHandler struct {
	DB *sql.DB
}

// Get handles GET /api/policy.
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	policy, err := store.GetExpiryPolicy(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, policy)
}
