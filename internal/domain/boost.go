package domain

import (
	"fmt"
	"time"
)

// BoostStatus is the derived lifecycle state of a promotion. It is never
// persisted: the stored fields are the two loosely-coupled flags below plus the
// package code, and status is recomputed from them on every read so the flag
// cannot drift from the timestamp.
type BoostStatus string

const (
	BoostStatusNone    BoostStatus = "none"
	BoostStatusPending BoostStatus = "pending"
	BoostStatusActive  BoostStatus = "active"
	BoostStatusExpired BoostStatus = "expired"
)

// BoostFields is the uniform boost shape shared by all promotable entity kinds.
// Invariant: IsBoosted == true implies ExpiresAt is set; a missing expiry on a
// boosted entity is a data-integrity violation and derives as expired.
type BoostFields struct {
	IsBoosted        bool       `bson:"is_boosted" json:"is_boosted"`
	PackageCode      string     `bson:"boost_package_code,omitempty" json:"boost_package_code,omitempty"`
	ExpiresAt        *time.Time `bson:"boost_expires_at,omitempty" json:"boost_expires_at,omitempty"`
	PaymentReference string     `bson:"boost_payment_reference,omitempty" json:"boost_payment_reference,omitempty"`
}

// DeriveBoostStatus computes the effective status from the raw boost fields and
// the current time. Pure function: no I/O, no mutation. The repository, the
// moderation service and the handlers all call this so they cannot disagree.
//
// An entity whose expiry has passed derives as expired even while is_boosted is
// still stored true; the stale flag is corrected lazily on the next moderation
// write, never here.
func DeriveBoostStatus(b BoostFields, now time.Time) BoostStatus {
	if b.IsBoosted {
		if b.ExpiresAt == nil || !b.ExpiresAt.After(now) {
			// Expiry at exactly now is expired, not active.
			return BoostStatusExpired
		}
		return BoostStatusActive
	}
	if b.PackageCode != "" {
		return BoostStatusPending
	}
	return BoostStatusNone
}

// ExpiryForApproval returns the expiry timestamp for a boost approved at the
// given time: approval time plus the package duration, in UTC.
func ExpiryForApproval(approvedAt time.Time, durationDays int) time.Time {
	return approvedAt.UTC().AddDate(0, 0, durationDays)
}

// ExtendExpiry stacks an extension on top of the current expiry. The extension
// is additive from the stored value, not from now, so repeated extends compound
// correctly.
func ExtendExpiry(current time.Time, days int) time.Time {
	return current.AddDate(0, 0, days)
}

// FormatTimeRemaining renders a countdown for the boost badge, bucketed as
// "{d}d {h}h", "{h}h {m}m" or "{m}m". It uses the same closed-at-expiry
// boundary as DeriveBoostStatus: a difference <= 0 is "Expired".
func FormatTimeRemaining(expiresAt, now time.Time) string {
	diff := expiresAt.Sub(now)
	if diff <= 0 {
		return "Expired"
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	minutes := int(diff.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
