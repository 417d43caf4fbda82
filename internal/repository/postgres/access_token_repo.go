package postgres

import (
	"context"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const tokenColumns = `id, user_id, secret, label, note, expires_at, is_active,
                      access_count, last_accessed_at, created_at, updated_at`

type accessTokenRepo struct {
	db *pgxpool.Pool
}

func NewAccessTokenRepository(db *pgxpool.Pool) domain.AccessTokenRepository {
	return &accessTokenRepo{db: db}
}

func (r *accessTokenRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	query := `INSERT INTO access_tokens (id, user_id, secret, label, note, expires_at, is_active, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		t.ID, t.UserID, t.Secret, t.Label, t.Note, t.ExpiresAt, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateSecret
	}
	return err
}

func scanToken(row pgx.Row) (*domain.AccessToken, error) {
	var t domain.AccessToken
	err := row.Scan(
		&t.ID, &t.UserID, &t.Secret, &t.Label, &t.Note, &t.ExpiresAt, &t.IsActive,
		&t.AccessCount, &t.LastAccessedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, noRows(err)
	}
	return &t, nil
}

func (r *accessTokenRepo) GetByID(ctx context.Context, id string) (*domain.AccessToken, error) {
	return scanToken(r.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM access_tokens WHERE id = $1`, id))
}

func (r *accessTokenRepo) GetBySecret(ctx context.Context, secret string) (*domain.AccessToken, error) {
	return scanToken(r.db.QueryRow(ctx, `SELECT `+tokenColumns+` FROM access_tokens WHERE secret = $1`, secret))
}

func (r *accessTokenRepo) ListByUser(ctx context.Context, userID string) ([]domain.AccessToken, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tokenColumns+` FROM access_tokens WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.AccessToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}

func (r *accessTokenRepo) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE access_tokens SET is_active = $2, updated_at = $3 WHERE id = $1`, id, active, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accessTokenRepo) UpdateDetails(ctx context.Context, id, label, note string, now time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE access_tokens SET label = $2, note = $3, updated_at = $4 WHERE id = $1`, id, label, note, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accessTokenRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM access_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordAccess is a single conditional update so concurrent validations
// inside one window count once.
func (r *accessTokenRepo) RecordAccess(ctx context.Context, id string, now time.Time, debounce time.Duration) (bool, error) {
	query := `UPDATE access_tokens
              SET access_count = access_count + 1, last_accessed_at = $2
              WHERE id = $1 AND (last_accessed_at IS NULL OR last_accessed_at <= $3)`
	tag, err := r.db.Exec(ctx, query, id, now, now.Add(-debounce))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
