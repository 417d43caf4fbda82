package usecase_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/security"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func ownerCtx(userID string) context.Context {
	return context.WithValue(context.Background(), domain.KeyUserID, userID)
}

func nopSecurityLogger() *security.SecurityLogger {
	return security.NewSecurityLogger(zap.NewNop(), "test", "test")
}

type MockTokenRepo struct {
	mock.Mock
}

func (m *MockTokenRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTokenRepo) GetByID(ctx context.Context, id string) (*domain.AccessToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockTokenRepo) GetBySecret(ctx context.Context, secret string) (*domain.AccessToken, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockTokenRepo) ListByUser(ctx context.Context, userID string) ([]domain.AccessToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessToken), args.Error(1)
}

func (m *MockTokenRepo) SetActive(ctx context.Context, id string, active bool, now time.Time) error {
	return m.Called(ctx, id, active, now).Error(0)
}

func (m *MockTokenRepo) UpdateDetails(ctx context.Context, id, label, note string, now time.Time) error {
	return m.Called(ctx, id, label, note, now).Error(0)
}

func (m *MockTokenRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTokenRepo) RecordAccess(ctx context.Context, id string, now time.Time, debounce time.Duration) (bool, error) {
	args := m.Called(ctx, id, now, debounce)
	return args.Bool(0), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// memGraph is an in-memory GraphStore. Transactions run on a copy that is
// swapped in only when fn succeeds.
type memGraph struct {
	mu       sync.Mutex
	state    *graphState
	txCalls  int
	failKind domain.ContentKind
}

type graphState struct {
	profiles map[string]domain.Record // by owner
	items    map[domain.ContentKind]map[string]domain.Record
	links    map[domain.ContentKind]map[string][]string // target -> skill -> ids
}

func newMemGraph(owners ...string) *memGraph {
	st := &graphState{
		profiles: map[string]domain.Record{},
		items:    map[domain.ContentKind]map[string]domain.Record{},
		links:    map[domain.ContentKind]map[string][]string{},
	}
	for _, k := range domain.SnapshotKinds {
		st.items[k] = map[string]domain.Record{}
	}
	for _, k := range domain.JustificationTargets {
		st.links[k] = map[string][]string{}
	}
	for _, o := range owners {
		st.profiles[o] = domain.Record{"id": uuid.NewString(), "user_id": o}
	}
	return &memGraph{state: st}
}

func (s *graphState) clone() *graphState {
	out := &graphState{
		profiles: map[string]domain.Record{},
		items:    map[domain.ContentKind]map[string]domain.Record{},
		links:    map[domain.ContentKind]map[string][]string{},
	}
	for k, v := range s.profiles {
		out.profiles[k] = copyRecord(v)
	}
	for kind, rows := range s.items {
		out.items[kind] = map[string]domain.Record{}
		for id, r := range rows {
			out.items[kind][id] = copyRecord(r)
		}
	}
	for kind, m := range s.links {
		out.links[kind] = map[string][]string{}
		for skill, ids := range m {
			out.links[kind][skill] = append([]string(nil), ids...)
		}
	}
	return out
}

func copyRecord(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// seed inserts an item directly, bypassing transactions.
func (g *memGraph) seed(kind domain.ContentKind, owner string, fields domain.Record) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := uuid.NewString()
	rec := copyRecord(fields)
	rec["id"], rec["user_id"] = id, owner
	g.state.items[kind][id] = rec
	return id
}

func (g *memGraph) item(kind domain.ContentKind, id string) domain.Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.items[kind][id]
}

func (g *memGraph) ReadGraph(ctx context.Context, ownerID string) (*domain.PortfolioSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.state.profiles[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var profile domain.Profile
	if err := remarshal(p, &profile); err != nil {
		return nil, err
	}
	snap := &domain.PortfolioSnapshot{Profile: &profile}

	decode := func(kind domain.ContentKind, out any) error {
		var rows []domain.Record
		for _, r := range g.state.items[kind] {
			if r["user_id"] != ownerID {
				continue
			}
			row := copyRecord(r)
			if _, ok := row["visibility"]; !ok {
				row["visibility"] = string(domain.VisibilityPublic)
			}
			if _, ok := row["is_published"]; !ok {
				row["is_published"] = true
			}
			if kind == domain.KindSkill {
				row["related_projects"] = g.sortedLinks(domain.KindProject, r.ID())
				row["related_certifications"] = g.sortedLinks(domain.KindCertification, r.ID())
				row["related_trainings"] = g.sortedLinks(domain.KindTraining, r.ID())
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID() < rows[j].ID() })
		return remarshal(rows, out)
	}

	steps := []struct {
		kind domain.ContentKind
		out  any
	}{
		{domain.KindProject, &snap.Projects},
		{domain.KindSkill, &snap.Skills},
		{domain.KindDiploma, &snap.Diplomas},
		{domain.KindCertification, &snap.Certifications},
		{domain.KindExperience, &snap.Experiences},
		{domain.KindTraining, &snap.Trainings},
	}
	for _, s := range steps {
		if err := decode(s.kind, s.out); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (g *memGraph) sortedLinks(target domain.ContentKind, skillID string) []string {
	ids := append([]string{}, g.state.links[target][skillID]...)
	sort.Strings(ids)
	return ids
}

func (g *memGraph) WithinOwnerTx(ctx context.Context, ownerID string, fn func(tx domain.GraphTx) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.txCalls++

	if _, ok := g.state.profiles[ownerID]; !ok {
		return domain.ErrNotFound
	}
	tx := &memTx{owner: ownerID, st: g.state.clone(), failKind: g.failKind}
	if err := fn(tx); err != nil {
		return err
	}
	g.state = tx.st
	return nil
}

type memTx struct {
	owner    string
	st       *graphState
	failKind domain.ContentKind
}

func (tx *memTx) PurgeContent(ctx context.Context) error {
	for kind, rows := range tx.st.items {
		for id, r := range rows {
			if r["user_id"] != tx.owner {
				continue
			}
			delete(rows, id)
			if kind == domain.KindSkill {
				for _, target := range domain.JustificationTargets {
					delete(tx.st.links[target], id)
				}
			}
		}
	}
	return nil
}

func (tx *memTx) UpdateProfile(ctx context.Context, fields domain.Record) error {
	p := tx.st.profiles[tx.owner]
	for k, v := range fields {
		stored, err := storedValue(v)
		if err != nil {
			return err
		}
		p[k] = stored
	}
	return nil
}

func (tx *memTx) UpsertItem(ctx context.Context, kind domain.ContentKind, id string, fields domain.Record) (string, bool, error) {
	if kind == tx.failKind {
		return "", false, domain.ErrInvalidData
	}
	if v, ok := fields["visibility"]; ok {
		if s, _ := v.(string); !domain.Visibility(s).Valid() {
			return "", false, domain.ErrInvalidData
		}
	}

	rows := tx.st.items[kind]
	existing, taken := rows[id]
	created := true
	switch {
	case id != "" && taken && existing["user_id"] == tx.owner:
		created = false
	case id == "" || taken:
		id = uuid.NewString()
		existing = nil
	}
	if existing == nil {
		existing = domain.Record{"id": id, "user_id": tx.owner}
	}
	for k, v := range fields {
		stored, err := storedValue(v)
		if err != nil {
			return "", false, err
		}
		existing[k] = stored
	}
	rows[id] = existing
	return id, created, nil
}

// storedValue mimics the DATE column round trip.
func storedValue(v any) (any, error) {
	if t, ok := v.(time.Time); ok {
		return t.Format(time.DateOnly), nil
	}
	return v, nil
}

func (tx *memTx) ResolveOwned(ctx context.Context, kind domain.ContentKind, ids []string) ([]string, error) {
	out := []string{}
	for _, id := range ids {
		if r, ok := tx.st.items[kind][id]; ok && r["user_id"] == tx.owner {
			out = append(out, id)
		}
	}
	return out, nil
}

func (tx *memTx) SetSkillRelations(ctx context.Context, skillID string, target domain.ContentKind, ids []string) error {
	tx.st.links[target][skillID] = append([]string(nil), ids...)
	return nil
}

func remarshal(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
