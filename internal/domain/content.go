package domain

import "time"

// ContentKind names one kind of portfolio item.
type ContentKind string

const (
	KindProject        ContentKind = "project"
	KindSkill          ContentKind = "skill"
	KindDiploma        ContentKind = "diploma"
	KindCertification  ContentKind = "certification"
	KindExperience     ContentKind = "experience"
	KindTraining       ContentKind = "training"
	KindSupportingFile ContentKind = "supporting_file"
)

// KindSpec describes how a kind is carried in a snapshot.
type KindSpec struct {
	Kind       ContentKind
	Collection string   // snapshot key and SQL table
	Fields     []string // importable fields, typed by FieldTypeOf
	OrderBy    string   // SQL ordering for reads and exports
}

// common fields every importable item accepts besides its own
var itemCommonFields = []string{"visibility", "display_order", "is_published"}

var kindSpecs = map[ContentKind]KindSpec{
	KindProject: {
		Kind:       KindProject,
		OrderBy:    "display_order, start_date DESC",
		Collection: "projects",
		Fields: []string{
			"title", "short_description", "description", "project_type", "status",
			"role", "team_size", "organization", "start_date", "end_date",
			"technologies", "key_features", "challenges", "solutions",
			"achievements", "learning_outcomes",
			"github_url", "demo_url", "video_url", "documentation_url", "is_featured",
		},
	},
	KindSkill: {
		Kind:       KindSkill,
		OrderBy:    "display_order, category, name",
		Collection: "skills",
		Fields: []string{
			"name", "category", "level", "description", "years_of_experience", "is_primary",
		},
	},
	KindDiploma: {
		Kind:       KindDiploma,
		OrderBy:    "display_order, end_date DESC",
		Collection: "diplomas",
		Fields: []string{
			"title", "institution", "level", "field", "start_date", "end_date",
			"honors", "description", "grade",
		},
	},
	KindCertification: {
		Kind:       KindCertification,
		OrderBy:    "display_order, issue_date DESC NULLS LAST",
		Collection: "certifications",
		Fields: []string{
			"name", "organization", "platform", "issue_date", "expiration_date",
			"does_not_expire", "credential_id", "credential_url", "description",
			"skills_acquired",
		},
	},
	KindExperience: {
		Kind:       KindExperience,
		OrderBy:    "display_order, start_date DESC",
		Collection: "experiences",
		Fields: []string{
			"position", "company", "company_url", "location", "experience_type",
			"start_date", "end_date", "is_current", "description", "missions",
			"achievements", "technologies",
		},
	},
	KindTraining: {
		Kind:       KindTraining,
		OrderBy:    "display_order, start_date DESC",
		Collection: "trainings",
		Fields: []string{
			"title", "organization", "training_type", "url", "start_date", "end_date",
			"is_ongoing", "duration_hours", "description", "skills_acquired",
			"has_certificate", "certificate_url",
		},
	},
}

func init() {
	for kind, spec := range kindSpecs {
		spec.Fields = append(spec.Fields, itemCommonFields...)
		kindSpecs[kind] = spec
	}
}

// SnapshotKinds is the import order. Skills come last so their
// relationships can point at items created earlier in the same import.
var SnapshotKinds = []ContentKind{
	KindProject, KindDiploma, KindCertification, KindExperience, KindTraining, KindSkill,
}

func SpecFor(kind ContentKind) (KindSpec, bool) {
	spec, ok := kindSpecs[kind]
	return spec, ok
}

// ContentBase carries the fields every portfolio item shares.
type ContentBase struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Visibility   Visibility `json:"visibility"`
	IsPublished  bool       `json:"is_published"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (b ContentBase) ItemID() string   { return b.ID }
func (b ContentBase) Owner() string    { return b.UserID }
func (b ContentBase) Tier() Visibility { return b.Visibility }
func (b ContentBase) Live() bool       { return b.IsPublished }

type Project struct {
	ContentBase
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	ProjectType      string `json:"project_type"`
	Status           string `json:"status"`
	Role             string `json:"role"`
	TeamSize         *int   `json:"team_size"`
	Organization     string `json:"organization"`
	StartDate        string `json:"start_date"` // YYYY-MM
	EndDate          string `json:"end_date"`
	Technologies     string `json:"technologies"`
	KeyFeatures      string `json:"key_features"`
	Challenges       string `json:"challenges"`
	Solutions        string `json:"solutions"`
	Achievements     string `json:"achievements"`
	LearningOutcomes string `json:"learning_outcomes"`
	GithubURL        string `json:"github_url"`
	DemoURL          string `json:"demo_url"`
	VideoURL         string `json:"video_url"`
	DocumentationURL string `json:"documentation_url"`
	IsFeatured       bool   `json:"is_featured"`
}

type Skill struct {
	ContentBase
	Name                  string   `json:"name"`
	Category              string   `json:"category"`
	Level                 string   `json:"level"`
	Description           string   `json:"description"`
	YearsOfExperience     *float64 `json:"years_of_experience"`
	IsPrimary             bool     `json:"is_primary"`
	RelatedProjects       []string `json:"related_projects"`
	RelatedCertifications []string `json:"related_certifications"`
	RelatedTrainings      []string `json:"related_trainings"`
}

type Diploma struct {
	ContentBase
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Level       string `json:"level"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Honors      string `json:"honors"`
	Description string `json:"description"`
	Grade       string `json:"grade"`
}

type Certification struct {
	ContentBase
	Name           string  `json:"name"`
	Organization   string  `json:"organization"`
	Platform       string  `json:"platform"`
	IssueDate      *string `json:"issue_date"` // YYYY-MM-DD
	ExpirationDate *string `json:"expiration_date"`
	DoesNotExpire  bool    `json:"does_not_expire"`
	CredentialID   string  `json:"credential_id"`
	CredentialURL  string  `json:"credential_url"`
	Description    string  `json:"description"`
	SkillsAcquired string  `json:"skills_acquired"`
}

type Experience struct {
	ContentBase
	Position       string `json:"position"`
	Company        string `json:"company"`
	CompanyURL     string `json:"company_url"`
	Location       string `json:"location"`
	ExperienceType string `json:"experience_type"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IsCurrent      bool   `json:"is_current"`
	Description    string `json:"description"`
	Missions       string `json:"missions"`
	Achievements   string `json:"achievements"`
	Technologies   string `json:"technologies"`
}

type Training struct {
	ContentBase
	Title          string `json:"title"`
	Organization   string `json:"organization"`
	TrainingType   string `json:"training_type"`
	URL            string `json:"url"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IsOngoing      bool   `json:"is_ongoing"`
	DurationHours  *int   `json:"duration_hours"`
	Description    string `json:"description"`
	SkillsAcquired string `json:"skills_acquired"`
	HasCertificate bool   `json:"has_certificate"`
	CertificateURL string `json:"certificate_url"`
}

// ContentCollections groups an owner's items by kind.
type ContentCollections struct {
	Projects       []Project       `json:"projects"`
	Skills         []Skill         `json:"skills"`
	Diplomas       []Diploma       `json:"diplomas"`
	Certifications []Certification `json:"certifications"`
	Experiences    []Experience    `json:"experiences"`
	Trainings      []Training      `json:"trainings"`
}
