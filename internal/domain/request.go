package domain

// StatusFilter selects which derived-status bucket a boost-request listing
// returns. "all" bypasses the filter.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterPending StatusFilter = StatusFilter(BoostStatusPending)
	FilterActive  StatusFilter = StatusFilter(BoostStatusActive)
	FilterExpired StatusFilter = StatusFilter(BoostStatusExpired)
)

// ParseStatusFilter validates a filter string from the API boundary. Empty
// defaults to "all".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending, FilterActive, FilterExpired:
		return StatusFilter(s), nil
	default:
		return "", ErrValidation
	}
}

// Placeholder display values for partially inconsistent data. Moderation must
// stay usable when an owner account or package row has gone missing.
const UnknownOwnerName = "Unknown User"

// BoostRequest is the denormalized moderation read-model: one promotable
// entity's boost fields joined with the owner's display identity, package
// pricing and the derived status. Constructed on every query, never mutated —
// mutations go through the owning entity's adapter.
type BoostRequest struct {
	EntityKind    EntityKind  `json:"entity_kind"`
	EntityID      string      `json:"entity_id"`
	Title         string      `json:"title"`
	ThumbnailURL  string      `json:"thumbnail_url,omitempty"`
	OwnerID       string      `json:"owner_id"`
	OwnerName     string      `json:"owner_name"`
	OwnerEmail    string      `json:"owner_email,omitempty"`
	PackageCode   string      `json:"package_code,omitempty"`
	PackageName   string      `json:"package_name,omitempty"`
	DurationDays  int         `json:"duration_days,omitempty"`
	Price         int64       `json:"price,omitempty"`
	Currency      string      `json:"currency,omitempty"`
	Status        BoostStatus `json:"status"`
	ExpiresAt     *string     `json:"expires_at,omitempty"` // RFC 3339
	TimeRemaining string      `json:"time_remaining,omitempty"`
	PaymentRef    string      `json:"payment_reference,omitempty"`
}
