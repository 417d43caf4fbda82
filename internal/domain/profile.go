package domain

import (
	"context"
	"time"
)

// Profile is the owner's one-per-user portfolio header. It is never deleted by an import.
type Profile struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"user_id"`
	Photo               string    `json:"photo"`
	PortfolioSlug       *string   `json:"portfolio_slug"`
	ProfessionalTitle   string    `json:"professional_title"`
	Bio                 string    `json:"bio"`
	Tagline             string    `json:"tagline"`
	ProfessionalEmail   string    `json:"professional_email"`
	Phone               string    `json:"phone"`
	Location            string    `json:"location"`
	WebsiteURL          string    `json:"website_url"`
	GithubURL           string    `json:"github_url"`
	LinkedinURL         string    `json:"linkedin_url"`
	TwitterURL          string    `json:"twitter_url"`
	Availability        string    `json:"availability"`
	AvailabilityDate    *string   `json:"availability_date"` // YYYY-MM-DD
	ShowEmail           bool      `json:"show_email"`
	ShowPhone           bool      `json:"show_phone"`
	ShowLocation        bool      `json:"show_location"`
	PublicTemplate      string    `json:"public_template"`
	EmptyAboutText      string    `json:"empty_about_text"`
	EmptySkillsText     string    `json:"empty_skills_text"`
	EmptyExperienceText string    `json:"empty_experience_text"`
	EmptyProjectsText   string    `json:"empty_projects_text"`
	EmptyEducationText  string    `json:"empty_education_text"`
	Trait1Title         string    `json:"trait_1_title"`
	Trait1Description   string    `json:"trait_1_description"`
	Trait2Title         string    `json:"trait_2_title"`
	Trait2Description   string    `json:"trait_2_description"`
	Trait3Title         string    `json:"trait_3_title"`
	Trait3Description   string    `json:"trait_3_description"`
	ProfileViews        int64     `json:"profile_views"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProfileFields is the allow-list applied to an imported profile.
var ProfileFields = []string{
	"portfolio_slug", "professional_title", "bio", "tagline", "professional_email",
	"phone", "location", "website_url", "github_url", "linkedin_url", "twitter_url",
	"availability", "availability_date", "show_email", "show_phone", "show_location",
	"public_template", "empty_about_text", "empty_skills_text", "empty_experience_text",
	"empty_projects_text", "empty_education_text",
	"trait_1_title", "trait_1_description",
	"trait_2_title", "trait_2_description",
	"trait_3_title", "trait_3_description",
}

// PublicCopy returns the profile as seen by a visitor: contact fields the
// owner chose to hide are blanked.
func (p Profile) PublicCopy() Profile {
	if !p.ShowEmail {
		p.ProfessionalEmail = ""
	}
	if !p.ShowPhone {
		p.Phone = ""
	}
	if !p.ShowLocation {
		p.Location = ""
	}
	return p
}

// PortfolioView is what a reader gets back for one owner's portfolio.
type PortfolioView struct {
	Profile Profile `json:"profile"`
	ContentCollections
	SupportingFiles []SupportingFile `json:"supporting_files"`
	VisibleTiers    []Visibility     `json:"visible_tiers"`
	IsOwner         bool             `json:"is_owner"`
	RecruiterAccess bool             `json:"recruiter_access"`
}

type PortfolioRepository interface {
	GetProfileByUserID(ctx context.Context, userID string) (*Profile, error)
	GetProfileBySlug(ctx context.Context, slug string) (*Profile, error)
	// ListContent returns the owner's items restricted to tiers. Drafts are
	// left out unless includeDrafts is set.
	ListContent(ctx context.Context, ownerID string, tiers []Visibility, includeDrafts bool) (*ContentCollections, error)
	ListSupportingFiles(ctx context.Context, ownerID string, tiers []Visibility, includeDrafts bool) ([]SupportingFile, error)
	IncrementProfileViews(ctx context.Context, profileID string) error
}

type PortfolioUsecase interface {
	// GetPortfolio returns ownerID's portfolio as allowed for the caller in
	// ctx and the optional recruiter secret.
	GetPortfolio(ctx context.Context, ownerID, secret string) (*PortfolioView, error)
	GetPortfolioBySlug(ctx context.Context, slug, secret string) (*PortfolioView, error)
}
