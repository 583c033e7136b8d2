package model

import (
	"math"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusFinished  SubscriptionStatus = "finished"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// UserSubscription is a user's paid subscription instance.
type UserSubscription struct {
	ID         int64
	UserID     string
	FareRuleID int64
	Months     int
	Status     SubscriptionStatus
	CreatedAt  time.Time
}

// SubscriptionWindow is the usage period of the current paid subscription.
// Either bound may be nil, in which case proration cannot be computed.
type SubscriptionWindow struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Complete reports whether both bounds are known.
func (w SubscriptionWindow) Complete() bool {
	return w.StartDate != nil && w.EndDate != nil
}

// UsedDays returns the window length in days, rounded half to even.
func (w SubscriptionWindow) UsedDays() int64 {
	if !w.Complete() {
		return 0
	}
	return int64(math.RoundToEven(w.EndDate.Sub(*w.StartDate).Hours() / 24))
}
