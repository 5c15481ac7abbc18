package domain

import "time"

// User is the identity provider's canonical record. The provider owns it; we
// only ever read it back after OTP verification or via the session facade.
type User struct {
	ID       string            `json:"id"`
	Email    *string           `json:"email,omitempty"`
	Phone    *string           `json:"phone,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Session is what the provider hands back on a successful password grant or
// OTP verification.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	UserID       string `json:"user_id"`
}

// Profile is the denormalized profile row keyed 1:1 by user ID. Nullable
// fields are pointers so the merge semantics below can tell "absent" from
// "empty".
type Profile struct {
	ID          string    `json:"id"`
	FullName    *string   `json:"full_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	ProductID   *string   `json:"product_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Merge returns the profile resulting from applying incoming on top of p with
// null-coalescing semantics: an incoming non-nil field wins, an incoming nil
// field preserves the existing value. Both the trigger-side and client-side
// producers of a profile row obey this, so the two converge regardless of
// arrival order. The SQL upsert in repository.ProfileRepository mirrors this
// exactly via COALESCE(EXCLUDED.x, profiles.x).
func (p Profile) Merge(incoming Profile) Profile {
	out := p
	if incoming.FullName != nil {
		out.FullName = incoming.FullName
	}
	if incoming.Email != nil {
		out.Email = incoming.Email
	}
	if incoming.PhoneNumber != nil {
		out.PhoneNumber = incoming.PhoneNumber
	}
	if incoming.ProductID != nil {
		out.ProductID = incoming.ProductID
	}
	return out
}

// StrPtr returns a pointer to s, or nil when s is empty. Profile fields use
// nil, never "", for absent values.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
