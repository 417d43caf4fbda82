package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/storage"
)

type supportingFileUsecase struct {
	repo      domain.SupportingFileRepository
	resolver  domain.AccessResolver
	presigner domain.FilePresigner
	ttl       time.Duration
	now       func() time.Time
}

func NewSupportingFileUsecase(repo domain.SupportingFileRepository, resolver domain.AccessResolver, presigner domain.FilePresigner, ttl time.Duration) domain.SupportingFileUsecase {
	return &supportingFileUsecase{
		repo:      repo,
		resolver:  resolver,
		presigner: presigner,
		ttl:       ttl,
		now:       time.Now,
	}
}

// DownloadLink issues a presigned link for a file the reader may see. A file
// is only visible when both it and the item it is attached to are.
func (uc *supportingFileUsecase) DownloadLink(ctx context.Context, ownerID, fileID, secret string) (*domain.FileDownload, error) {
	if canonicalID(fileID) == "" {
		return nil, apperror.NotFound("File not found")
	}
	file, err := uc.repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, notFoundOr(err, "File not found")
	}
	// The file must sit in the portfolio named by the URL.
	if file.UserID != ownerID {
		return nil, apperror.NotFound("File not found")
	}

	grant := uc.resolver.AllowedTiers(ctx, domain.AccessRequest{
		ViewerID:      domain.ViewerID(ctx),
		TargetOwnerID: ownerID,
		Secret:        secret,
	})
	rc := grant.Requester

	if !readable(file.ContentBase, rc) {
		return nil, apperror.NotFound("File not found")
	}
	parent, err := uc.repo.GetParent(ctx, file.Target)
	if err != nil {
		return nil, notFoundOr(err, "File not found")
	}
	if !readable(parent.ContentBase, rc) {
		return nil, apperror.NotFound("File not found")
	}

	url, err := uc.presigner.PresignDownload(ctx, file.ObjectKey, file.FileName, uc.ttl)
	if err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			return nil, apperror.New(http.StatusServiceUnavailable, apperror.KindInternal, "File storage is not configured", err)
		}
		return nil, apperror.Internal(err)
	}
	return &domain.FileDownload{URL: url, ExpiresAt: uc.now().Add(uc.ttl).UTC()}, nil
}

func readable(item domain.ContentBase, rc domain.RequesterContext) bool {
	if !item.Live() && !rc.IsOwner(item.Owner()) {
		return false
	}
	return domain.IsVisible(item, rc)
}
