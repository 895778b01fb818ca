package web

import (
	"net/http"

	"github.com/erazemk/freshrack/internal/expiry"
)

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := GetSession(ctx)
	policy := s.policy(ctx)
	now := s.Now()

	stats, err := s.Client.Stats(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	nearly, err := s.Client.NearlyExpiring(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	expired, err := s.Client.Expired(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.Templates.Render(w, http.StatusOK, "home.html", &struct {
		PageData
		Stats          expiry.Summary
		Policy         expiry.Policy
		NearlyExpiring []FoodView
		Expired        []FoodView
	}{
		PageData:       PageData{Title: "Home", Session: session},
		Stats:          stats,
		Policy:         policy,
		NearlyExpiring: newFoodViews(now, nearly, policy, session),
		Expired:        newFoodViews(now, expired, policy, session),
	})
}
