package domain

import (
	"context"
	"time"
)

const SnapshotSchemaVersion = 1

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

// PortfolioSnapshot is the exported form of an owner's portfolio. It is
// never persisted.
type PortfolioSnapshot struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`
	Profile       *Profile  `json:"profile"`
	ContentCollections
}

// Record is a loosely typed snapshot item as received on import.
type Record map[string]any

// ID returns the record's "id" when it is a string.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// SnapshotDocument is an uploaded snapshot before any validation.
type SnapshotDocument struct {
	SchemaVersion  int      `json:"schema_version"`
	ExportedAt     string   `json:"exported_at,omitempty"`
	ImportMode     string   `json:"import_mode,omitempty"`
	Profile        Record   `json:"profile"`
	Projects       []Record `json:"projects"`
	Skills         []Record `json:"skills"`
	Diplomas       []Record `json:"diplomas"`
	Certifications []Record `json:"certifications"`
	Experiences    []Record `json:"experiences"`
	Trainings      []Record `json:"trainings"`
}

func (d *SnapshotDocument) Collection(kind ContentKind) []Record {
	switch kind {
	case KindProject:
		return d.Projects
	case KindSkill:
		return d.Skills
	case KindDiploma:
		return d.Diplomas
	case KindCertification:
		return d.Certifications
	case KindExperience:
		return d.Experiences
	case KindTraining:
		return d.Trainings
	}
	return nil
}

type ImportResult struct {
	Mode    ImportMode `json:"import_mode"`
	Success bool       `json:"success"`
	// Created and Updated count items per snapshot collection.
	Created map[string]int `json:"created"`
	Updated map[string]int `json:"updated"`
}

// GraphStore gives transactional access to one owner's content graph.
type GraphStore interface {
	// ReadGraph loads the whole graph, all tiers and drafts included, from a
	// single consistent read. It returns ErrNotFound when the owner has no profile.
	ReadGraph(ctx context.Context, ownerID string) (*PortfolioSnapshot, error)
	// WithinOwnerTx runs fn in one transaction holding the owner's profile
	// lock. Any error from fn rolls everything back. ErrNotFound is returned
	// when the owner has no profile.
	WithinOwnerTx(ctx context.Context, ownerID string, fn func(tx GraphTx) error) error
}

// GraphTx is a transaction scoped to one owner. Every method only touches
// that owner's rows.
type GraphTx interface {
	// PurgeContent deletes all items, skills first.
	PurgeContent(ctx context.Context) error
	UpdateProfile(ctx context.Context, fields Record) error
	// UpsertItem updates the owner's item id when it exists, otherwise inserts
	// one, reusing id when no other row holds it. It returns the final id.
	UpsertItem(ctx context.Context, kind ContentKind, id string, fields Record) (finalID string, created bool, err error)
	// ResolveOwned returns the subset of ids naming the owner's items of kind.
	ResolveOwned(ctx context.Context, kind ContentKind, ids []string) ([]string, error)
	// SetSkillRelations replaces the skill's links to items of target kind.
	SetSkillRelations(ctx context.Context, skillID string, target ContentKind, ids []string) error
}

type SnapshotUsecase interface {
	Export(ctx context.Context, ownerID string) (*PortfolioSnapshot, error)
	// ExportWorkbook renders the snapshot as an xlsx file and returns its name.
	ExportWorkbook(ctx context.Context, ownerID string) ([]byte, string, error)
	Import(ctx context.Context, ownerID string, doc *SnapshotDocument, mode string) (*ImportResult, error)
}
