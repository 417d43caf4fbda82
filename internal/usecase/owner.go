package usecase

import (
	"context"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
)

// requireOwner enforces that the authenticated caller is ownerID (IDOR guard).
func requireOwner(ctx context.Context, ownerID string) error {
	viewer := domain.ViewerID(ctx)
	if viewer == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if viewer != ownerID {
		return apperror.Forbidden("You can only manage your own portfolio")
	}
	return nil
}
