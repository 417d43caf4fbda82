package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/metrics"
	"portfolio-backend/pkg/security"

	"github.com/google/uuid"
)

type snapshotUsecase struct {
	store  domain.GraphStore
	secLog *security.SecurityLogger
	now    func() time.Time
}

func NewSnapshotUsecase(store domain.GraphStore, secLog *security.SecurityLogger, now func() time.Time) domain.SnapshotUsecase {
	if now == nil {
		now = time.Now
	}
	return &snapshotUsecase{store: store, secLog: secLog, now: now}
}

func (uc *snapshotUsecase) Export(ctx context.Context, ownerID string) (*domain.PortfolioSnapshot, error) {
	snap, err := uc.readSnapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	uc.recordExport(ctx, ownerID, "json", snap)
	return snap, nil
}

// readSnapshot loads the owner's whole graph, stamped and with every
// collection present.
func (uc *snapshotUsecase) readSnapshot(ctx context.Context, ownerID string) (*domain.PortfolioSnapshot, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	snap, err := uc.store.ReadGraph(ctx, ownerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.NotFound("Profile not found")
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("read portfolio graph: %w", err))
	}
	snap.SchemaVersion = domain.SnapshotSchemaVersion
	snap.ExportedAt = uc.now().UTC()
	fillEmpty(&snap.ContentCollections)
	return snap, nil
}

func (uc *snapshotUsecase) recordExport(ctx context.Context, ownerID, format string, snap *domain.PortfolioSnapshot) {
	metrics.SnapshotExports.WithLabelValues(format).Inc()
	uc.secLog.LogSnapshot(ctx, security.EventPortfolioExported, ownerID, map[string]interface{}{
		"format": format, "projects": len(snap.Projects), "skills": len(snap.Skills),
	})
}

// fillEmpty turns nil collections into empty ones so they serialize as [].
func fillEmpty(c *domain.ContentCollections) {
	if c.Projects == nil {
		c.Projects = []domain.Project{}
	}
	if c.Skills == nil {
		c.Skills = []domain.Skill{}
	}
	if c.Diplomas == nil {
		c.Diplomas = []domain.Diploma{}
	}
	if c.Certifications == nil {
		c.Certifications = []domain.Certification{}
	}
	if c.Experiences == nil {
		c.Experiences = []domain.Experience{}
	}
	if c.Trainings == nil {
		c.Trainings = []domain.Training{}
	}
	for i := range c.Skills {
		s := &c.Skills[i]
		if s.RelatedProjects == nil {
			s.RelatedProjects = []string{}
		}
		if s.RelatedCertifications == nil {
			s.RelatedCertifications = []string{}
		}
		if s.RelatedTrainings == nil {
			s.RelatedTrainings = []string{}
		}
	}
}

// relationKeys maps a skill relationship target to its snapshot key.
var relationKeys = map[domain.ContentKind]string{
	domain.KindProject:       "related_projects",
	domain.KindCertification: "related_certifications",
	domain.KindTraining:      "related_trainings",
}

type importedSkill struct {
	id     string
	record domain.Record
}

// Import applies doc to ownerID's portfolio in one transaction. mode is the
// explicitly requested mode; when empty the document's import_mode is used,
// then merge.
func (uc *snapshotUsecase) Import(ctx context.Context, ownerID string, doc *domain.SnapshotDocument, mode string) (*domain.ImportResult, error) {
	if err := requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.BadRequest("Snapshot body is required")
	}
	if doc.SchemaVersion != domain.SnapshotSchemaVersion {
		return nil, apperror.InvalidState(fmt.Sprintf("Unsupported schema_version %d", doc.SchemaVersion))
	}

	importMode, ok := resolveImportMode(mode, doc.ImportMode)
	if !ok {
		return nil, apperror.InvalidState("import_mode must be merge or replace")
	}

	result := &domain.ImportResult{
		Mode:    importMode,
		Created: map[string]int{},
		Updated: map[string]int{},
	}

	err := uc.store.WithinOwnerTx(ctx, ownerID, func(tx domain.GraphTx) error {
		if importMode == domain.ImportModeReplace {
			if err := tx.PurgeContent(ctx); err != nil {
				return fmt.Errorf("purge content: %w", err)
			}
		}

		fields, err := pickFields(doc.Profile, domain.ProfileFields)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		if len(fields) > 0 {
			if err := tx.UpdateProfile(ctx, fields); err != nil {
				return fmt.Errorf("update profile: %w", err)
			}
		}

		finalIDs := make(map[domain.ContentKind]map[string]string, len(domain.SnapshotKinds))
		var skills []importedSkill

		for _, kind := range domain.SnapshotKinds {
			spec, _ := domain.SpecFor(kind)
			finalIDs[kind] = map[string]string{}

			for _, rec := range doc.Collection(kind) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if rec == nil {
					continue
				}

				snapID := rec.ID()
				fields, err := pickFields(rec, spec.Fields)
				if err != nil {
					return fmt.Errorf("%s %q: %w", kind, snapID, err)
				}
				id, created, err := tx.UpsertItem(ctx, kind, canonicalID(snapID), fields)
				if err != nil {
					return fmt.Errorf("%s %q: %w", kind, snapID, err)
				}
				if snapID != "" {
					finalIDs[kind][snapID] = id
				}
				if created {
					result.Created[spec.Collection]++
				} else {
					result.Updated[spec.Collection]++
				}
				if kind == domain.KindSkill {
					skills = append(skills, importedSkill{id: id, record: rec})
				}
			}
		}

		// Relationships are restored once every item exists.
		for _, s := range skills {
			for _, target := range domain.JustificationTargets {
				wanted := translateIDs(stringList(s.record[relationKeys[target]]), finalIDs[target])
				resolved, err := tx.ResolveOwned(ctx, target, wanted)
				if err != nil {
					return fmt.Errorf("resolve %s links: %w", target, err)
				}
				if dropped := len(wanted) - len(resolved); dropped > 0 {
					logger.Log.Debug("Dropped unresolved skill links", "skill_id", s.id, "target", target, "count", dropped)
				}
				if err := tx.SetSkillRelations(ctx, s.id, target, resolved); err != nil {
					return fmt.Errorf("set %s links: %w", target, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		metrics.SnapshotImports.WithLabelValues(string(importMode), "failed").Inc()
		logger.Log.Warn("Portfolio import rolled back", "owner_id", ownerID, "mode", importMode, "error", err)
		return nil, importError(err)
	}

	result.Success = true
	metrics.SnapshotImports.WithLabelValues(string(importMode), "ok").Inc()
	uc.secLog.LogSnapshot(ctx, security.EventPortfolioImported, ownerID, map[string]interface{}{
		"mode": importMode, "created": result.Created, "updated": result.Updated,
	})
	return result, nil
}

func resolveImportMode(explicit, fromDoc string) (domain.ImportMode, bool) {
	mode := explicit
	if mode == "" {
		mode = fromDoc
	}
	switch domain.ImportMode(mode) {
	case "", domain.ImportModeMerge:
		return domain.ImportModeMerge, true
	case domain.ImportModeReplace:
		return domain.ImportModeReplace, true
	}
	return "", false
}

func importError(err error) error {
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Profile not found")
	case errors.Is(err, domain.ErrInvalidData):
		return apperror.Validation("Snapshot contains invalid data; nothing was imported", err)
	}
	return apperror.Internal(err)
}

// canonicalID keeps snapshot ids that are UUIDs. Anything else is treated
// as absent so a new row is created.
func canonicalID(id string) string {
	if id == "" {
		return ""
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ""
	}
	return parsed.String()
}

// pickFields copies the allowed keys present in rec, coercing each value to
// its column type. A value of the wrong type fails the whole record.
func pickFields(rec domain.Record, allowed []string) (domain.Record, error) {
	out := domain.Record{}
	for _, key := range allowed {
		v, ok := rec[key]
		if !ok {
			continue
		}
		coerced, err := domain.CoerceField(key, v)
		if err != nil {
			return nil, err
		}
		out[key] = coerced
	}
	return out, nil
}

func stringList(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		if s, ok := v.([]string); ok {
			return s
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// translateIDs maps snapshot ids to the ids they landed on, keeping ids that
// were not part of the snapshot (they may name existing items) and dropping
// duplicates and malformed values.
func translateIDs(ids []string, landed map[string]string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if final, ok := landed[id]; ok {
			id = final
		} else if id = canonicalID(id); id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
