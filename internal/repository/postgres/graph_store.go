package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"portfolio-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type graphStore struct {
	db *pgxpool.Pool
}

func NewGraphStore(db *pgxpool.Pool) domain.GraphStore {
	return &graphStore{db: db}
}

func (s *graphStore) ReadGraph(ctx context.Context, ownerID string) (*domain.PortfolioSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	profile, err := readProfile(ctx, tx, "p.user_id", ownerID)
	if err != nil {
		return nil, err
	}
	snap := &domain.PortfolioSnapshot{Profile: profile}

	content, err := readCollections(ctx, tx, ownerID, domain.AllVisibilities, true)
	if err != nil {
		return nil, err
	}
	snap.ContentCollections = *content
	return snap, tx.Commit(ctx)
}

func (s *graphStore) WithinOwnerTx(ctx context.Context, ownerID string, fn func(tx domain.GraphTx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serializes imports and edits for this owner only.
	var profileID string
	if err := tx.QueryRow(ctx, `SELECT id FROM profiles WHERE user_id = $1 FOR UPDATE`, ownerID).Scan(&profileID); err != nil {
		return noRows(err)
	}

	if err := fn(&ownerTx{tx: tx, owner: ownerID}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type ownerTx struct {
	tx    pgx.Tx
	owner string
}

func (o *ownerTx) PurgeContent(ctx context.Context) error {
	// Skills first so their join rows go before the items they point at.
	for _, table := range []string{"skills", "projects", "diplomas", "certifications", "experiences", "trainings"} {
		if _, err := o.tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, o.owner); err != nil {
			return fmt.Errorf("purge %s: %w", table, err)
		}
	}
	return nil
}

func (o *ownerTx) UpdateProfile(ctx context.Context, fields domain.Record) error {
	cols, args, err := columnsFor(fields, domain.ProfileFields)
	if err != nil || len(cols) == 0 {
		return err
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	query := `UPDATE profiles SET ` + strings.Join(sets, ", ") + `, updated_at = now() WHERE user_id = $1`
	if _, err := o.tx.Exec(ctx, query, append([]any{o.owner}, args...)...); err != nil {
		return writeError(err)
	}
	return nil
}

func (o *ownerTx) UpsertItem(ctx context.Context, kind domain.ContentKind, id string, fields domain.Record) (string, bool, error) {
	spec, ok := domain.SpecFor(kind)
	if !ok {
		return "", false, fmt.Errorf("unknown content kind %q", kind)
	}
	cols, args, err := columnsFor(fields, spec.Fields)
	if err != nil {
		return "", false, err
	}

	if id != "" {
		sets := []string{"updated_at = now()"}
		for i, c := range cols {
			sets = append(sets, fmt.Sprintf("%s = $%d", c, i+3))
		}
		query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 AND user_id = $2`, spec.Collection, strings.Join(sets, ", "))
		tag, err := o.tx.Exec(ctx, query, append([]any{id, o.owner}, args...)...)
		if err != nil {
			return "", false, writeError(err)
		}
		if tag.RowsAffected() == 1 {
			return id, false, nil
		}

		// Keep the snapshot id when nobody else holds it.
		newID, err := o.insert(ctx, spec.Collection, append([]string{"id"}, cols...), append([]any{id}, args...), true)
		if err != nil || newID != "" {
			return newID, true, err
		}
	}

	newID, err := o.insert(ctx, spec.Collection, cols, args, false)
	return newID, true, err
}

// insert adds a row for the owner and returns its id. With keepID the first
// column is the caller's id and "" is returned when that id is already taken.
func (o *ownerTx) insert(ctx context.Context, table string, cols []string, args []any, keepID bool) (string, error) {
	cols = append([]string{"user_id"}, cols...)
	args = append([]any{o.owner}, args...)
	marks := make([]string, len(cols))
	for i := range cols {
		marks[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if keepID {
		query += ` ON CONFLICT (id) DO NOTHING`
	}
	query += ` RETURNING id`

	var id string
	err := o.tx.QueryRow(ctx, query, args...).Scan(&id)
	if keepID && errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", writeError(err)
	}
	return id, nil
}

func (o *ownerTx) ResolveOwned(ctx context.Context, kind domain.ContentKind, ids []string) ([]string, error) {
	resolved := []string{}
	if len(ids) == 0 {
		return resolved, nil
	}
	spec, ok := domain.SpecFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	rows, err := o.tx.Query(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE user_id = $1 AND id = ANY($2)`, spec.Collection),
		o.owner, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owned[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := owned[id]; ok {
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}

func (o *ownerTx) SetSkillRelations(ctx context.Context, skillID string, target domain.ContentKind, ids []string) error {
	join, ok := joinTables[target]
	if !ok {
		return fmt.Errorf("skills cannot link to %q", target)
	}

	if _, err := o.tx.Exec(ctx, `DELETE FROM `+join.table+` WHERE skill_id = $1`, skillID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (skill_id, %s) SELECT $1, unnest($2::uuid[]) ON CONFLICT DO NOTHING`, join.table, join.column)
	_, err := o.tx.Exec(ctx, query, skillID, pq.Array(ids))
	return writeError(err)
}

// columnsFor re-checks field names against the allow-list before they reach
// SQL and coerces each value to its column type.
func columnsFor(fields domain.Record, allowed []string) ([]string, []any, error) {
	ok := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		ok[f] = struct{}{}
	}

	cols := make([]string, 0, len(fields))
	for k := range fields {
		if _, allowed := ok[k]; !allowed {
			return nil, nil, fmt.Errorf("%w: field %q", domain.ErrInvalidData, k)
		}
		cols = append(cols, k)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		v, err := domain.CoerceField(c, fields[c])
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	return cols, args, nil
}
