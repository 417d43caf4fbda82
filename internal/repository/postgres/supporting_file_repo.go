package postgres

import (
	"context"
	"fmt"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const fileColumns = `id, user_id, visibility, is_published, display_order,
                     diploma_id, certification_id, experience_id, training_id, project_id,
                     title, description, proof_type, object_key, file_name, file_size, mime_type,
                     created_at, updated_at`

type supportingFileRepo struct {
	db *pgxpool.Pool
}

func NewSupportingFileRepository(db *pgxpool.Pool) domain.SupportingFileRepository {
	return &supportingFileRepo{db: db}
}

func scanFile(row pgx.Row) (*domain.SupportingFile, error) {
	var (
		f       domain.SupportingFile
		parents [5]*string
	)
	err := row.Scan(
		&f.ID, &f.UserID, &f.Visibility, &f.IsPublished, &f.DisplayOrder,
		&parents[0], &parents[1], &parents[2], &parents[3], &parents[4],
		&f.Title, &f.Description, &f.ProofType, &f.ObjectKey, &f.FileName, &f.FileSize, &f.MimeType,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, noRows(err)
	}
	// Column order matches domain.AttachableKinds.
	for i, id := range parents {
		if id != nil {
			f.Target = domain.AttachmentTarget{Kind: domain.AttachableKinds[i], ID: *id}
			break
		}
	}
	return &f, nil
}

func (r *supportingFileRepo) GetByID(ctx context.Context, id string) (*domain.SupportingFile, error) {
	return scanFile(r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM supporting_files WHERE id = $1`, id))
}

func (r *supportingFileRepo) GetParent(ctx context.Context, target domain.AttachmentTarget) (*domain.ParentState, error) {
	if !target.Valid() {
		return nil, domain.ErrNotFound
	}
	spec, _ := domain.SpecFor(target.Kind)
	query := fmt.Sprintf(`SELECT id, user_id, visibility, is_published, display_order, created_at, updated_at
                          FROM %s WHERE id = $1`, spec.Collection)

	var p domain.ParentState
	err := r.db.QueryRow(ctx, query, target.ID).Scan(
		&p.ID, &p.UserID, &p.Visibility, &p.IsPublished, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, noRows(err)
	}
	return &p, nil
}

func listSupportingFiles(ctx context.Context, q querier, ownerID string, tiers []domain.Visibility, includeDrafts bool) ([]domain.SupportingFile, error) {
	query := `SELECT ` + fileColumns + ` FROM supporting_files
              WHERE user_id = $1 AND visibility = ANY($2) AND ($3 OR is_published)
              ORDER BY display_order, created_at DESC`
	rows, err := q.Query(ctx, query, ownerID, pq.Array(tierStrings(tiers)), includeDrafts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []domain.SupportingFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}
