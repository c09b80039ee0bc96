package domain

import (
	"testing"
	"time"
)

func TestDeriveBoostStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		fields BoostFields
		want   BoostStatus
	}{
		{
			name:   "no flags at all - none",
			fields: BoostFields{},
			want:   BoostStatusNone,
		},
		{
			name:   "package code set but not boosted - pending",
			fields: BoostFields{PackageCode: "listing_7day", PaymentReference: "sess-1"},
			want:   BoostStatusPending,
		},
		{
			name:   "boosted with future expiry - active",
			fields: BoostFields{IsBoosted: true, PackageCode: "listing_7day", ExpiresAt: timePtr(now.Add(time.Hour))},
			want:   BoostStatusActive,
		},
		{
			name:   "boosted with past expiry - expired despite stale flag",
			fields: BoostFields{IsBoosted: true, PackageCode: "listing_7day", ExpiresAt: timePtr(now.Add(-time.Hour))},
			want:   BoostStatusExpired,
		},
		{
			name:   "expiry exactly now - expired, not active",
			fields: BoostFields{IsBoosted: true, ExpiresAt: timePtr(now)},
			want:   BoostStatusExpired,
		},
		{
			name:   "boosted without expiry - integrity violation derives expired",
			fields: BoostFields{IsBoosted: true, PackageCode: "listing_7day"},
			want:   BoostStatusExpired,
		},
		{
			name:   "one nanosecond past expiry - expired",
			fields: BoostFields{IsBoosted: true, ExpiresAt: timePtr(now.Add(-time.Nanosecond))},
			want:   BoostStatusExpired,
		},
		{
			name:   "one nanosecond before expiry - active",
			fields: BoostFields{IsBoosted: true, ExpiresAt: timePtr(now.Add(time.Nanosecond))},
			want:   BoostStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveBoostStatus(tt.fields, now)
			if got != tt.want {
				t.Errorf("DeriveBoostStatus() = %v, want %v", got, tt.want)
			}
			// Pure function: same input, same output
			if again := DeriveBoostStatus(tt.fields, now); again != got {
				t.Errorf("DeriveBoostStatus() not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestDeriveBoostStatusDoesNotMutate(t *testing.T) {
	now := time.Now().UTC()
	expiry := now.Add(-time.Hour)
	fields := BoostFields{IsBoosted: true, PackageCode: "garage_30day", ExpiresAt: &expiry}

	if got := DeriveBoostStatus(fields, now); got != BoostStatusExpired {
		t.Fatalf("DeriveBoostStatus() = %v, want expired", got)
	}
	// The stale flag is corrected lazily by the next moderation write, never here.
	if !fields.IsBoosted {
		t.Error("DeriveBoostStatus() mutated IsBoosted")
	}
}

func TestExpiryForApproval(t *testing.T) {
	approvedAt := time.Date(2026, 1, 10, 8, 30, 0, 0, time.UTC)

	got := ExpiryForApproval(approvedAt, 7)
	want := time.Date(2026, 1, 17, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ExpiryForApproval() = %v, want %v", got, want)
	}
}

func TestExtendExpiryStacks(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// Two extends of 7 days advance exactly 14 days from the pre-extension
	// value, independent of the wall clock.
	once := ExtendExpiry(base, 7)
	twice := ExtendExpiry(once, 7)

	want := base.AddDate(0, 0, 14)
	if !twice.Equal(want) {
		t.Errorf("ExtendExpiry() stacked = %v, want %v", twice, want)
	}
}

func TestFormatTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      string
	}{
		{
			name:      "days and hours",
			expiresAt: now.Add(3*24*time.Hour + 5*time.Hour + 10*time.Minute),
			want:      "3d 5h",
		},
		{
			name:      "hours and minutes",
			expiresAt: now.Add(5*time.Hour + 42*time.Minute),
			want:      "5h 42m",
		},
		{
			name:      "minutes only",
			expiresAt: now.Add(17 * time.Minute),
			want:      "17m",
		},
		{
			name:      "exactly now - expired, same boundary as the deriver",
			expiresAt: now,
			want:      "Expired",
		},
		{
			name:      "past expiry",
			expiresAt: now.Add(-time.Minute),
			want:      "Expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimeRemaining(tt.expiresAt, now); got != tt.want {
				t.Errorf("FormatTimeRemaining() = %q, want %q", got, tt.want)
			}
		})
	}
}

// The countdown and the deriver must flip at the same instant.
func TestCountdownBoundaryMatchesDeriver(t *testing.T) {
	now := time.Now().UTC()

	for _, delta := range []time.Duration{-time.Second, 0, time.Second} {
		expiry := now.Add(delta)
		fields := BoostFields{IsBoosted: true, ExpiresAt: &expiry}

		derivedExpired := DeriveBoostStatus(fields, now) == BoostStatusExpired
		countdownExpired := FormatTimeRemaining(expiry, now) == "Expired"

		if derivedExpired != countdownExpired {
			t.Errorf("boundary mismatch at delta %v: deriver expired=%v, countdown expired=%v",
				delta, derivedExpired, countdownExpired)
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
