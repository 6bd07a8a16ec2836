package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier is the plan a user is on.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierPro        SubscriptionTier = "pro"
	TierEnterprise SubscriptionTier = "enterprise"
)

// User represents a registered user. Users are created by the registration
// flow; this service only reads and patches profile attributes.
type User struct {
	ID               uuid.UUID        `json:"id"`
	Email            string           `json:"email"`
	FullName         *string          `json:"full_name"`
	AvatarURL        *string          `json:"avatar_url"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}
