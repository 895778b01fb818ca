package expiry

import "fmt"

const (
	// DefaultNearlyExpiringDays is the last day count still considered nearly expiring.
	DefaultNearlyExpiringDays = 3

	// MinNearlyExpiringDays keeps "today" and "tomorrow" in the nearly expiring bucket.
	MinNearlyExpiringDays = 1

	// MaxNearlyExpiringDays bounds configured policies to a year.
	MaxNearlyExpiringDays = 365
)

// Policy holds the deployment-wide classification thresholds. The server
// persists it and serves it to clients so stats and views agree.
type Policy struct {
	NearlyExpiringDays int `json:"nearlyExpiringDays" yaml:"nearlyExpiringDays"`
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{NearlyExpiringDays: DefaultNearlyExpiringDays}
}

// Validate checks that the thresholds are within range.
func (p Policy) Validate() error {
	if p.NearlyExpiringDays < MinNearlyExpiringDays || p.NearlyExpiringDays > MaxNearlyExpiringDays {
		return fmt.Errorf("nearly expiring days must be between %d and %d, got %d",
			MinNearlyExpiringDays, MaxNearlyExpiringDays, p.NearlyExpiringDays)
	}
	return nil
}
