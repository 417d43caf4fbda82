package usecase

import (
	"context"
	"errors"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"

	"github.com/google/uuid"
)

type portfolioUsecase struct {
	repo     domain.PortfolioRepository
	resolver domain.AccessResolver
}

func NewPortfolioUsecase(repo domain.PortfolioRepository, resolver domain.AccessResolver) domain.PortfolioUsecase {
	return &portfolioUsecase{repo: repo, resolver: resolver}
}

func (uc *portfolioUsecase) GetPortfolio(ctx context.Context, ownerID, secret string) (*domain.PortfolioView, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return nil, apperror.NotFound("Portfolio not found")
	}
	profile, err := uc.repo.GetProfileByUserID(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, "Portfolio not found")
	}
	return uc.build(ctx, profile, secret)
}

func (uc *portfolioUsecase) GetPortfolioBySlug(ctx context.Context, slug, secret string) (*domain.PortfolioView, error) {
	profile, err := uc.repo.GetProfileBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "Portfolio not found")
	}
	return uc.build(ctx, profile, secret)
}

func (uc *portfolioUsecase) build(ctx context.Context, profile *domain.Profile, secret string) (*domain.PortfolioView, error) {
	grant := uc.resolver.AllowedTiers(ctx, domain.AccessRequest{
		ViewerID:      domain.ViewerID(ctx),
		TargetOwnerID: profile.UserID,
		Secret:        secret,
	})
	rc := grant.Requester
	isOwner := rc.IsOwner(profile.UserID)
	tiers := grant.Tiers.Slice()

	content, err := uc.repo.ListContent(ctx, profile.UserID, tiers, isOwner)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	files, err := uc.repo.ListSupportingFiles(ctx, profile.UserID, tiers, isOwner)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Storage filters by tier too; the classifier is the final gate.
	view := &domain.PortfolioView{
		ContentCollections: domain.ContentCollections{
			Projects:       domain.FilterVisible(content.Projects, rc),
			Skills:         domain.FilterVisible(content.Skills, rc),
			Diplomas:       domain.FilterVisible(content.Diplomas, rc),
			Certifications: domain.FilterVisible(content.Certifications, rc),
			Experiences:    domain.FilterVisible(content.Experiences, rc),
			Trainings:      domain.FilterVisible(content.Trainings, rc),
		},
		VisibleTiers:    tiers,
		IsOwner:         isOwner,
		RecruiterAccess: rc.HasRecruiterGrant(profile.UserID),
	}
	pruneSkillRelations(view)
	view.SupportingFiles = filesWithVisibleParent(domain.FilterVisible(files, rc), view)

	if isOwner {
		view.Profile = *profile
	} else {
		view.Profile = profile.PublicCopy()
		if err := uc.repo.IncrementProfileViews(ctx, profile.ID); err != nil {
			logger.Log.Warn("Failed to count profile view", "profile_id", profile.ID, "error", err)
		}
	}
	return view, nil
}

// pruneSkillRelations drops links to items the reader cannot see.
func pruneSkillRelations(view *domain.PortfolioView) {
	projects := idSet(view.Projects)
	certs := idSet(view.Certifications)
	trainings := idSet(view.Trainings)
	for i := range view.Skills {
		s := &view.Skills[i]
		s.RelatedProjects = keepIDs(s.RelatedProjects, projects)
		s.RelatedCertifications = keepIDs(s.RelatedCertifications, certs)
		s.RelatedTrainings = keepIDs(s.RelatedTrainings, trainings)
	}
}

func filesWithVisibleParent(files []domain.SupportingFile, view *domain.PortfolioView) []domain.SupportingFile {
	parents := map[domain.ContentKind]map[string]struct{}{
		domain.KindProject:       idSet(view.Projects),
		domain.KindDiploma:       idSet(view.Diplomas),
		domain.KindCertification: idSet(view.Certifications),
		domain.KindExperience:    idSet(view.Experiences),
		domain.KindTraining:      idSet(view.Trainings),
	}
	out := make([]domain.SupportingFile, 0, len(files))
	for _, f := range files {
		if _, ok := parents[f.Target.Kind][f.Target.ID]; ok {
			out = append(out, f)
		}
	}
	return out
}

func idSet[T interface{ ItemID() string }](items []T) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item.ItemID()] = struct{}{}
	}
	return set
}

func keepIDs(ids []string, allowed map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := allowed[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// notFoundOr maps a missing row to NotFound and anything else to Internal.
func notFoundOr(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound(message)
	}
	return apperror.Internal(err)
}
