package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HiringRequestStatus is the lifecycle state of a hiring request.
type HiringRequestStatus string

const (
	HiringPending   HiringRequestStatus = "PENDING"
	HiringAccepted  HiringRequestStatus = "ACCEPTED"
	HiringRejected  HiringRequestStatus = "REJECTED"
	HiringExpired   HiringRequestStatus = "EXPIRED"
	HiringCancelled HiringRequestStatus = "CANCELLED"
)

// DefaultHiringRequestTTL is how long a request stays actionable.
const DefaultHiringRequestTTL = 24 * time.Hour

// IsValid reports whether s is a known status.
func (s HiringRequestStatus) IsValid() bool {
	switch s {
	case HiringPending, HiringAccepted, HiringRejected, HiringExpired, HiringCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s HiringRequestStatus) IsTerminal() bool {
	return s != HiringPending
}

// HiringRequest is an offer of employment awaiting the target player's consent.
type HiringRequest struct {
	ID             int64               `json:"id"`
	BusinessID     int64               `json:"businessID"`
	PositionID     int64               `json:"positionID"`
	TargetPlayerID string              `json:"targetPlayerID"`
	RequesterID    string              `json:"requesterID"`
	OfferedSalary  decimal.Decimal     `json:"offeredSalary"`
	Message        string              `json:"message"`
	RequestTime    time.Time           `json:"requestTime"`
	ExpirationTime time.Time           `json:"expirationTime"`
	Status         HiringRequestStatus `json:"status"`
	DecidedAt      *time.Time          `json:"decidedAt,omitempty"`
	DecisionReason string              `json:"decisionReason,omitempty"`
}

// IsExpired is the lazy expiry predicate: a PENDING request past its expiration time.
// The stored status is not rewritten by this check.
func (r HiringRequest) IsExpired(now time.Time) bool {
	return r.Status == HiringPending && now.After(r.ExpirationTime)
}

// IsActionable reports whether accept/reject/cancel may act on the request.
func (r HiringRequest) IsActionable(now time.Time) bool {
	return r.Status == HiringPending && !r.IsExpired(now)
}

// EffectiveStatus reports EXPIRED for stale PENDING requests, otherwise the stored status.
func (r HiringRequest) EffectiveStatus(now time.Time) HiringRequestStatus {
	if r.IsExpired(now) {
		return HiringExpired
	}
	return r.Status
}
