package usecase_test

import (
	"context"
	"testing"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubPortfolioRepo returns fixed rows and ignores the tier hint so the
// usecase's own filtering is what gets tested.
type stubPortfolioRepo struct {
	profile *domain.Profile
	content domain.ContentCollections
	files   []domain.SupportingFile
	views   int
}

func (r *stubPortfolioRepo) GetProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if r.profile == nil || r.profile.UserID != userID {
		return nil, domain.ErrNotFound
	}
	p := *r.profile
	return &p, nil
}

func (r *stubPortfolioRepo) GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error) {
	if r.profile == nil || r.profile.PortfolioSlug == nil || *r.profile.PortfolioSlug != slug {
		return nil, domain.ErrNotFound
	}
	p := *r.profile
	return &p, nil
}

func (r *stubPortfolioRepo) ListContent(ctx context.Context, ownerID string, tiers []domain.Visibility, includeDrafts bool) (*domain.ContentCollections, error) {
	c := r.content
	c.Skills = append([]domain.Skill(nil), r.content.Skills...)
	return &c, nil
}

func (r *stubPortfolioRepo) ListSupportingFiles(ctx context.Context, ownerID string, tiers []domain.Visibility, includeDrafts bool) ([]domain.SupportingFile, error) {
	return r.files, nil
}

func (r *stubPortfolioRepo) IncrementProfileViews(ctx context.Context, profileID string) error {
	r.views++
	return nil
}

func item(id string, v domain.Visibility, published bool) domain.ContentBase {
	return domain.ContentBase{ID: id, UserID: ownerA, Visibility: v, IsPublished: published}
}

func samplePortfolio() *stubPortfolioRepo {
	slug := "jane"
	return &stubPortfolioRepo{
		profile: &domain.Profile{
			ID: "profile-a", UserID: ownerA, PortfolioSlug: &slug,
			ProfessionalEmail: "jane@example.com", Phone: "0600", Location: "Lyon",
			ShowLocation: true,
		},
		content: domain.ContentCollections{
			Projects: []domain.Project{
				{ContentBase: item("p-pub", domain.VisibilityPublic, true)},
				{ContentBase: item("p-rec", domain.VisibilityRecruiter, true)},
				{ContentBase: item("p-priv", domain.VisibilityPrivate, true)},
				{ContentBase: item("p-draft", domain.VisibilityPublic, false)},
			},
			Skills: []domain.Skill{{
				ContentBase:     item("s-1", domain.VisibilityPublic, true),
				RelatedProjects: []string{"p-pub", "p-rec", "p-priv"},
			}},
		},
		files: []domain.SupportingFile{
			{ContentBase: item("f-pub", domain.VisibilityPublic, true), Target: domain.AttachmentTarget{Kind: domain.KindProject, ID: "p-pub"}},
			{ContentBase: item("f-on-rec", domain.VisibilityPublic, true), Target: domain.AttachmentTarget{Kind: domain.KindProject, ID: "p-rec"}},
		},
	}
}

func ids[T interface{ ItemID() string }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}

func recruiterTokens(owner string) domain.AccessTokenUsecase {
	repo := new(MockTokenRepo)
	repo.On("GetBySecret", mock.Anything, "good").Return(&domain.AccessToken{
		ID: "tok", UserID: owner, ExpiresAt: fixedNow.Add(time.Hour), IsActive: true,
	}, nil)
	repo.On("GetBySecret", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	repo.On("RecordAccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	return newTokenUsecase(repo, fixedNow)
}

func TestPortfolioVisibility(t *testing.T) {
	t.Run("anonymous visitor", func(t *testing.T) {
		repo := samplePortfolio()
		uc := usecase.NewPortfolioUsecase(repo, usecase.NewAccessResolver(recruiterTokens(ownerA)))

		view, err := uc.GetPortfolio(context.Background(), ownerA, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-pub"}, ids(view.Projects))
		assert.Equal(t, []string{"p-pub"}, view.Skills[0].RelatedProjects)
		assert.Equal(t, []string{"f-pub"}, ids(view.SupportingFiles))
		assert.False(t, view.IsOwner)
		assert.False(t, view.RecruiterAccess)
		assert.Empty(t, view.Profile.ProfessionalEmail)
		assert.Empty(t, view.Profile.Phone)
		assert.Equal(t, "Lyon", view.Profile.Location)
		assert.Equal(t, 1, repo.views)
	})

	t.Run("recruiter with a valid token", func(t *testing.T) {
		repo := samplePortfolio()
		uc := usecase.NewPortfolioUsecase(repo, usecase.NewAccessResolver(recruiterTokens(ownerA)))

		view, err := uc.GetPortfolio(context.Background(), ownerA, "good")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-pub", "p-rec"}, ids(view.Projects))
		assert.Equal(t, []string{"p-pub", "p-rec"}, view.Skills[0].RelatedProjects)
		assert.Equal(t, []string{"f-pub", "f-on-rec"}, ids(view.SupportingFiles))
		assert.True(t, view.RecruiterAccess)
	})

	t.Run("token issued by another owner", func(t *testing.T) {
		uc := usecase.NewPortfolioUsecase(samplePortfolio(), usecase.NewAccessResolver(recruiterTokens(ownerB)))

		view, err := uc.GetPortfolio(context.Background(), ownerA, "good")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-pub"}, ids(view.Projects))
		assert.False(t, view.RecruiterAccess)
	})

	t.Run("invalid token falls back to public", func(t *testing.T) {
		uc := usecase.NewPortfolioUsecase(samplePortfolio(), usecase.NewAccessResolver(recruiterTokens(ownerA)))

		view, err := uc.GetPortfolio(context.Background(), ownerA, "bad")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-pub"}, ids(view.Projects))
	})

	t.Run("owner sees everything including drafts", func(t *testing.T) {
		repo := samplePortfolio()
		uc := usecase.NewPortfolioUsecase(repo, usecase.NewAccessResolver(recruiterTokens(ownerA)))

		view, err := uc.GetPortfolio(ownerCtx(ownerA), ownerA, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-pub", "p-rec", "p-priv", "p-draft"}, ids(view.Projects))
		assert.True(t, view.IsOwner)
		assert.Equal(t, "jane@example.com", view.Profile.ProfessionalEmail)
		assert.Zero(t, repo.views)
	})

	t.Run("by slug and unknown owners", func(t *testing.T) {
		uc := usecase.NewPortfolioUsecase(samplePortfolio(), usecase.NewAccessResolver(recruiterTokens(ownerA)))

		view, err := uc.GetPortfolioBySlug(context.Background(), "jane", "")
		require.NoError(t, err)
		assert.Equal(t, ownerA, view.Profile.UserID)

		_, err = uc.GetPortfolioBySlug(context.Background(), "nobody", "")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		_, err = uc.GetPortfolio(context.Background(), "not-a-uuid", "")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
		_, err = uc.GetPortfolio(context.Background(), ownerB, "")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}
