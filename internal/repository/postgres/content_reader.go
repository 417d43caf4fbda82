package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"portfolio-backend/internal/domain"

	"github.com/lib/pq"
)

// joinTables maps a skill relationship target to its join table and column.
var joinTables = map[domain.ContentKind]struct{ table, column string }{
	domain.KindProject:       {"skill_projects", "project_id"},
	domain.KindCertification: {"skill_certifications", "certification_id"},
	domain.KindTraining:      {"skill_trainings", "training_id"},
}

// skillLinksSQL appends the relationship id lists to a skill row.
const skillLinksSQL = ` || jsonb_build_object(
    'related_projects', COALESCE((SELECT jsonb_agg(j.project_id ORDER BY j.project_id) FROM skill_projects j WHERE j.skill_id = t.id), '[]'::jsonb),
    'related_certifications', COALESCE((SELECT jsonb_agg(j.certification_id ORDER BY j.certification_id) FROM skill_certifications j WHERE j.skill_id = t.id), '[]'::jsonb),
    'related_trainings', COALESCE((SELECT jsonb_agg(j.training_id ORDER BY j.training_id) FROM skill_trainings j WHERE j.skill_id = t.id), '[]'::jsonb))`

func tierStrings(tiers []domain.Visibility) []string {
	out := make([]string, len(tiers))
	for i, v := range tiers {
		out[i] = string(v)
	}
	return out
}

// listKind reads one kind for ownerID. Rows come back as JSON and are decoded
// straight into the domain type, so a new column only needs a struct field.
func listKind[T any](ctx context.Context, q querier, kind domain.ContentKind, ownerID string, tiers []domain.Visibility, includeDrafts bool) ([]T, error) {
	spec, ok := domain.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	row := "to_jsonb(t)"
	if kind == domain.KindSkill {
		row += skillLinksSQL
	}
	query := fmt.Sprintf(`SELECT %s FROM %s t
        WHERE t.user_id = $1 AND t.visibility = ANY($2) AND ($3 OR t.is_published)
        ORDER BY %s, t.id`, row, spec.Collection, spec.OrderBy)

	rows, err := q.Query(ctx, query, ownerID, pq.Array(tierStrings(tiers)), includeDrafts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", spec.Collection, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", kind, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func readCollections(ctx context.Context, q querier, ownerID string, tiers []domain.Visibility, includeDrafts bool) (*domain.ContentCollections, error) {
	var (
		c   domain.ContentCollections
		err error
	)
	if c.Projects, err = listKind[domain.Project](ctx, q, domain.KindProject, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	if c.Skills, err = listKind[domain.Skill](ctx, q, domain.KindSkill, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	if c.Diplomas, err = listKind[domain.Diploma](ctx, q, domain.KindDiploma, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	if c.Certifications, err = listKind[domain.Certification](ctx, q, domain.KindCertification, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	if c.Experiences, err = listKind[domain.Experience](ctx, q, domain.KindExperience, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	if c.Trainings, err = listKind[domain.Training](ctx, q, domain.KindTraining, ownerID, tiers, includeDrafts); err != nil {
		return nil, err
	}
	return &c, nil
}

func readProfile(ctx context.Context, q querier, where string, arg any) (*domain.Profile, error) {
	var raw []byte
	if err := q.QueryRow(ctx, `SELECT to_jsonb(p) FROM profiles p WHERE `+where+` = $1`, arg).Scan(&raw); err != nil {
		return nil, noRows(err)
	}
	var p domain.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}
