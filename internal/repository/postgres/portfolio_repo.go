package postgres

import (
	"context"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type portfolioRepo struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) domain.PortfolioRepository {
	return &portfolioRepo{db: db}
}

func (r *portfolioRepo) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return readProfile(ctx, r.db, "p.user_id", userID)
}

func (r *portfolioRepo) GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error) {
	return readProfile(ctx, r.db, "p.portfolio_slug", slug)
}

func (r *portfolioRepo) ListContent(ctx context.Context, ownerID string, tiers []domain.Visibility, includeDrafts bool) (*domain.ContentCollections, error) {
	return readCollections(ctx, r.db, ownerID, tiers, includeDrafts)
}

func (r *portfolioRepo) ListSupportingFiles(ctx context.Context, ownerID string, tiers []domain.Visibility, includeDrafts bool) ([]domain.SupportingFile, error) {
	return listSupportingFiles(ctx, r.db, ownerID, tiers, includeDrafts)
}

func (r *portfolioRepo) IncrementProfileViews(ctx context.Context, profileID string) error {
	_, err := r.db.Exec(ctx, `UPDATE profiles SET profile_views = profile_views + 1 WHERE id = $1`, profileID)
	return err
}
