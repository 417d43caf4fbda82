package usecase

import (
	"context"

	"portfolio-backend/internal/domain"
)

type accessResolver struct {
	tokens domain.AccessTokenUsecase
}

// NewAccessResolver combines the caller's identity and an optional recruiter
// secret into the tiers they may read for a given owner.
func NewAccessResolver(tokens domain.AccessTokenUsecase) domain.AccessResolver {
	return &accessResolver{tokens: tokens}
}

func (r *accessResolver) AllowedTiers(ctx context.Context, req domain.AccessRequest) domain.AccessGrant {
	grant := domain.AccessGrant{
		Tiers:     domain.NewTierSet(domain.VisibilityPublic),
		Requester: domain.RequesterContext{ViewerID: req.ViewerID},
	}

	if grant.Requester.IsOwner(req.TargetOwnerID) {
		grant.Tiers = grant.Tiers.With(domain.VisibilityRecruiter).With(domain.VisibilityPrivate)
		return grant
	}

	if req.Secret == "" {
		return grant
	}

	// A valid token only opens the portfolio of the owner who issued it.
	v := r.tokens.Validate(ctx, req.Secret)
	if v.Valid && v.OwnerID == req.TargetOwnerID {
		grant.Requester.GrantOwnerID = v.OwnerID
		grant.Tiers = grant.Tiers.With(domain.VisibilityRecruiter)
	}
	return grant
}
