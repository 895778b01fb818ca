package client

import (
	"time"

	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

// Session identifies the signed-in user. It is passed explicitly to every
// call that needs credentials; the zero value is an anonymous visitor.
type Session struct {
	Token string `json:"token" yaml:"token"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
}

// LoggedIn reports whether s carries a token.
func (s Session) LoggedIn() bool {
	return s.Token != ""
}

// CanModify reports whether s may change item. The server enforces the same
// rule; this check only saves a round trip.
func CanModify(s Session, item *model.FoodItem) bool {
	return s.LoggedIn() && item != nil && item.OwnedBy(s.Email)
}

// Classify classifies item's expiry date as of now.
func Classify(now time.Time, item *model.FoodItem, p expiry.Policy) (expiry.Classification, error) {
	return expiry.ClassifyString(now, item.ExpiryDate, p)
}
