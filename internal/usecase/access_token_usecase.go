package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	secretBytes         = 48 // 384 bits, 64 url-safe characters
	maxSecretCollisions = 3
)

type accessTokenUsecase struct {
	repo     domain.AccessTokenRepository
	validate *validator.Validate
	secLog   *security.SecurityLogger
	baseURL  string
	debounce time.Duration
	now      func() time.Time
	secret   func() (string, error)
}

type AccessTokenOption func(*accessTokenUsecase)

// WithClock overrides the time source used for expiry and debounce decisions.
func WithClock(now func() time.Time) AccessTokenOption {
	return func(uc *accessTokenUsecase) { uc.now = now }
}

// WithSecretSource overrides secret generation.
func WithSecretSource(gen func() (string, error)) AccessTokenOption {
	return func(uc *accessTokenUsecase) { uc.secret = gen }
}

func NewAccessTokenUsecase(
	repo domain.AccessTokenRepository,
	validate *validator.Validate,
	secLog *security.SecurityLogger,
	baseURL string,
	debounce time.Duration,
	opts ...AccessTokenOption,
) domain.AccessTokenUsecase {
	uc := &accessTokenUsecase{
		repo:     repo,
		validate: validate,
		secLog:   secLog,
		baseURL:  strings.TrimRight(baseURL, "/"),
		debounce: debounce,
		now:      time.Now,
		secret:   NewSecret,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// NewSecret returns 48 random bytes encoded as unpadded base64url.
func NewSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (uc *accessTokenUsecase) Issue(ctx context.Context, ownerID string, req *domain.IssueTokenRequest) (*domain.AccessTokenView, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Invalid recruiter link", err)
	}

	hours := domain.DefaultTokenDurationHours
	if req.DurationHours != nil {
		hours = *req.DurationHours
	}

	now := uc.now()
	token := &domain.AccessToken{
		UserID:    ownerID,
		Label:     strings.TrimSpace(req.Label),
		Note:      strings.TrimSpace(req.Note),
		ExpiresAt: now.Add(time.Duration(hours) * time.Hour),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Regenerate only on secret collision.
	var err error
	for attempt := 0; attempt < maxSecretCollisions; attempt++ {
		token.ID = uuid.NewString()
		if token.Secret, err = uc.secret(); err != nil {
			return nil, apperror.Internal(err)
		}
		err = uc.repo.Create(ctx, token)
		if !errors.Is(err, domain.ErrDuplicateSecret) {
			break
		}
		logger.Log.Warn("Recruiter secret collision, regenerating", "attempt", attempt+1)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	metrics.TokensIssued.Inc()
	uc.secLog.LogTokenIssued(ctx, ownerID, token.ID, token.ExpiresAt)
	return uc.view(token, now), nil
}

func (uc *accessTokenUsecase) Validate(ctx context.Context, secret string) domain.TokenValidation {
	if secret == "" {
		return domain.TokenValidation{}
	}

	token, err := uc.repo.GetBySecret(ctx, secret)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Log.Error("Recruiter token lookup failed", "error", err)
		return domain.TokenValidation{}
	}
	if token == nil {
		metrics.TokenValidations.WithLabelValues("unknown").Inc()
		uc.secLog.LogTokenRejected(ctx, secret, "unknown")
		return domain.TokenValidation{}
	}

	now := uc.now()
	result := domain.TokenValidation{Expired: token.IsExpired(now)}
	switch {
	case !token.IsActive:
		metrics.TokenValidations.WithLabelValues("revoked").Inc()
		uc.secLog.LogTokenRejected(ctx, secret, "revoked")
		return result
	case result.Expired:
		metrics.TokenValidations.WithLabelValues("expired").Inc()
		uc.secLog.LogTokenRejected(ctx, secret, "expired")
		return result
	}

	counted, err := uc.repo.RecordAccess(ctx, token.ID, now, uc.debounce)
	if err != nil {
		// Counting is best effort; the grant stands.
		logger.Log.Error("Failed to record recruiter access", "token_id", token.ID, "error", err)
	} else if counted {
		logger.Log.Debug("Recruiter access counted", "token_id", token.ID)
	}

	metrics.TokenValidations.WithLabelValues("valid").Inc()
	result.Valid = true
	result.OwnerID = token.UserID
	return result
}

func (uc *accessTokenUsecase) Revoke(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	token, err := uc.loadOwned(ctx, ownerID, tokenID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := uc.repo.SetActive(ctx, token.ID, false, now); err != nil {
		return nil, apperror.Internal(err)
	}
	token.IsActive = false
	token.UpdatedAt = now

	uc.secLog.LogTokenStateChanged(ctx, security.EventTokenRevoked, ownerID, token.ID)
	return uc.view(token, now), nil
}

func (uc *accessTokenUsecase) Reactivate(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	token, err := uc.loadOwned(ctx, ownerID, tokenID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if token.IsExpired(now) {
		return nil, apperror.InvalidState("This link has expired and cannot be reactivated")
	}
	if err := uc.repo.SetActive(ctx, token.ID, true, now); err != nil {
		return nil, apperror.Internal(err)
	}
	token.IsActive = true
	token.UpdatedAt = now

	uc.secLog.LogTokenStateChanged(ctx, security.EventTokenReactivated, ownerID, token.ID)
	return uc.view(token, now), nil
}

func (uc *accessTokenUsecase) Get(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	token, err := uc.loadOwned(ctx, ownerID, tokenID)
	if err != nil {
		return nil, err
	}
	return uc.view(token, uc.now()), nil
}

func (uc *accessTokenUsecase) List(ctx context.Context, ownerID string) ([]domain.AccessTokenView, error) {
	return uc.list(ctx, ownerID, false)
}

func (uc *accessTokenUsecase) ListActive(ctx context.Context, ownerID string) ([]domain.AccessTokenView, error) {
	return uc.list(ctx, ownerID, true)
}

func (uc *accessTokenUsecase) list(ctx context.Context, ownerID string, validOnly bool) ([]domain.AccessTokenView, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	tokens, err := uc.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := uc.now()
	views := make([]domain.AccessTokenView, 0, len(tokens))
	for i := range tokens {
		if validOnly && !tokens[i].IsValid(now) {
			continue
		}
		views = append(views, *uc.view(&tokens[i], now))
	}
	return views, nil
}

func (uc *accessTokenUsecase) Update(ctx context.Context, ownerID, tokenID string, req *domain.UpdateTokenRequest) (*domain.AccessTokenView, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.Validation("Invalid recruiter link", err)
	}
	token, err := uc.loadOwned(ctx, ownerID, tokenID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		token.Label = strings.TrimSpace(*req.Label)
	}
	if req.Note != nil {
		token.Note = strings.TrimSpace(*req.Note)
	}

	now := uc.now()
	if err := uc.repo.UpdateDetails(ctx, token.ID, token.Label, token.Note, now); err != nil {
		return nil, apperror.Internal(err)
	}
	token.UpdatedAt = now
	return uc.view(token, now), nil
}

func (uc *accessTokenUsecase) Delete(ctx context.Context, ownerID, tokenID string) error {
	token, err := uc.loadOwned(ctx, ownerID, tokenID)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, token.ID); err != nil {
		return apperror.Internal(err)
	}
	uc.secLog.LogTokenStateChanged(ctx, security.EventTokenDeleted, ownerID, token.ID)
	return nil
}

func (uc *accessTokenUsecase) Statistics(ctx context.Context, ownerID string) (*domain.TokenStatistics, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	tokens, err := uc.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := uc.now()
	stats := &domain.TokenStatistics{TotalLinks: len(tokens)}
	for i := range tokens {
		// Active is the owner's switch; an expired link that was never revoked still counts.
		if tokens[i].IsActive {
			stats.ActiveLinks++
		}
		if tokens[i].IsExpired(now) {
			stats.ExpiredLinks++
		}
		stats.TotalAccesses += tokens[i].AccessCount
	}
	return stats, nil
}

// loadOwned fetches tokenID and checks it belongs to ownerID.
func (uc *accessTokenUsecase) loadOwned(ctx context.Context, ownerID, tokenID string) (*domain.AccessToken, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(tokenID); err != nil {
		return nil, apperror.NotFound("Recruiter link not found")
	}

	token, err := uc.repo.GetByID(ctx, tokenID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if token == nil {
		return nil, apperror.NotFound("Recruiter link not found")
	}
	if token.UserID != ownerID {
		uc.secLog.LogPermissionDenied(ctx, ownerID, "access_token", tokenID)
		return nil, apperror.Forbidden("You can only manage your own recruiter links")
	}
	return token, nil
}

func (uc *accessTokenUsecase) view(t *domain.AccessToken, now time.Time) *domain.AccessTokenView {
	return &domain.AccessTokenView{
		AccessToken:   *t,
		IsValid:       t.IsValid(now),
		IsExpired:     t.IsExpired(now),
		TimeRemaining: t.Remaining(now),
		ShareURL:      uc.baseURL + "/?access=" + t.Secret,
	}
}
