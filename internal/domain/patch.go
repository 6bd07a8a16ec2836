package domain

import (
	"merch-nexus/internal/optional"

	"github.com/google/uuid"
)

// CollectionPatch lists the collection fields a caller may change.
// Name cannot be cleared; Description and Color can.
type CollectionPatch struct {
	Name        optional.Field[string]  `json:"name"`
	Description optional.Field[*string] `json:"description"`
	Color       optional.Field[*string] `json:"color"`
}

// SavedProductPatch lists the saved-product fields a caller may change.
// A present Tags value replaces the stored list.
type SavedProductPatch struct {
	CollectionID optional.Field[*uuid.UUID] `json:"collection_id"`
	Notes        optional.Field[*string]    `json:"notes"`
	Tags         optional.Field[[]string]   `json:"tags"`
}

// ProfilePatch lists the profile fields a user may change.
type ProfilePatch struct {
	FullName  optional.Field[*string] `json:"full_name"`
	AvatarURL optional.Field[*string] `json:"avatar_url"`
}
