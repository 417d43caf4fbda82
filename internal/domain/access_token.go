package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultTokenDurationHours = 72
	MaxTokenDurationHours     = 720
)

// AccessToken is a revocable, expiring recruiter grant over one owner's
// Recruiter tier content.
type AccessToken struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Secret         string     `json:"token"`
	Label          string     `json:"label"`
	Note           string     `json:"note"`
	ExpiresAt      time.Time  `json:"expires_at"`
	IsActive       bool       `json:"is_active"`
	AccessCount    int64      `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsExpired reports whether now is past the expiry instant. The expiry
// instant itself is still valid.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *AccessToken) IsValid(now time.Time) bool {
	return t.IsActive && !t.IsExpired(now)
}

// Remaining renders the time left before expiry using the largest whole unit.
func (t *AccessToken) Remaining(now time.Time) string {
	left := t.ExpiresAt.Sub(now)
	if left <= 0 {
		return "expired"
	}
	switch {
	case left >= 24*time.Hour:
		return fmt.Sprintf("%d day(s)", int(left/(24*time.Hour)))
	case left >= time.Hour:
		return fmt.Sprintf("%d hour(s)", int(left/time.Hour))
	default:
		return fmt.Sprintf("%d minute(s)", int(left/time.Minute))
	}
}

// AccessTokenView is the owner-facing representation of a token.
type AccessTokenView struct {
	AccessToken
	IsValid       bool   `json:"is_valid"`
	IsExpired     bool   `json:"is_expired"`
	TimeRemaining string `json:"time_remaining"`
	ShareURL      string `json:"share_url"`
}

type IssueTokenRequest struct {
	Label         string `json:"label" validate:"required,trimmed_min=3,max=100"`
	Note          string `json:"note" validate:"max=500"`
	DurationHours *int   `json:"duration_hours" validate:"omitempty,min=1,max=720"`
}

type UpdateTokenRequest struct {
	Label *string `json:"label" validate:"omitempty,trimmed_min=3,max=100"`
	Note  *string `json:"note" validate:"omitempty,max=500"`
}

// TokenValidation is the answer to "does this secret grant access right now".
type TokenValidation struct {
	Valid   bool   `json:"valid"`
	Expired bool   `json:"expired"`
	OwnerID string `json:"-"`
}

type TokenStatistics struct {
	TotalLinks    int   `json:"total_links"`
	ActiveLinks   int   `json:"active_links"`
	ExpiredLinks  int   `json:"expired_links"`
	TotalAccesses int64 `json:"total_accesses"`
}

type AccessTokenRepository interface {
	// Create stores t. It returns ErrDuplicateSecret when the secret is taken.
	Create(ctx context.Context, t *AccessToken) error
	GetByID(ctx context.Context, id string) (*AccessToken, error)
	GetBySecret(ctx context.Context, secret string) (*AccessToken, error)
	ListByUser(ctx context.Context, userID string) ([]AccessToken, error)
	SetActive(ctx context.Context, id string, active bool, now time.Time) error
	UpdateDetails(ctx context.Context, id, label, note string, now time.Time) error
	Delete(ctx context.Context, id string) error
	// RecordAccess bumps the access counter unless the previous counted access
	// is younger than debounce. It reports whether the counter moved.
	RecordAccess(ctx context.Context, id string, now time.Time, debounce time.Duration) (bool, error)
}

type AccessTokenUsecase interface {
	Issue(ctx context.Context, ownerID string, req *IssueTokenRequest) (*AccessTokenView, error)
	Validate(ctx context.Context, secret string) TokenValidation
	Revoke(ctx context.Context, ownerID, tokenID string) (*AccessTokenView, error)
	Reactivate(ctx context.Context, ownerID, tokenID string) (*AccessTokenView, error)
	Get(ctx context.Context, ownerID, tokenID string) (*AccessTokenView, error)
	List(ctx context.Context, ownerID string) ([]AccessTokenView, error)
	ListActive(ctx context.Context, ownerID string) ([]AccessTokenView, error)
	Update(ctx context.Context, ownerID, tokenID string, req *UpdateTokenRequest) (*AccessTokenView, error)
	Delete(ctx context.Context, ownerID, tokenID string) error
	Statistics(ctx context.Context, ownerID string) (*TokenStatistics, error)
}

// AccessRequest describes a read attempt against TargetOwnerID's portfolio.
type AccessRequest struct {
	ViewerID      string
	TargetOwnerID string
	Secret        string
}

type AccessGrant struct {
	Tiers     TierSet
	Requester RequesterContext
}

type AccessResolver interface {
	AllowedTiers(ctx context.Context, req AccessRequest) AccessGrant
}
