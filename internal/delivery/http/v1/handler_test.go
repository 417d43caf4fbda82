package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/middleware"
	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	ownerA = "7a3c8c2e-0000-4000-8000-00000000000a"
	tokenA = "2f0d6d38-0000-4000-8000-0000000000aa"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// asOwner stands in for AuthMiddleware.
func asOwner(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyUserID, id))
		c.Next()
	}
}

func newEngine() (*gin.Engine, *gin.RouterGroup, *gin.RouterGroup) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	v1 := r.Group("/v1")
	protected := v1.Group("")
	protected.Use(asOwner(ownerA))
	return r, v1, protected
}

func do(r http.Handler, method, target string, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type MockTokenUC struct{ mock.Mock }

func (m *MockTokenUC) view(args mock.Arguments) (*domain.AccessTokenView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessTokenView), args.Error(1)
}

func (m *MockTokenUC) Issue(ctx context.Context, ownerID string, req *domain.IssueTokenRequest) (*domain.AccessTokenView, error) {
	return m.view(m.Called(ctx, ownerID, req))
}
func (m *MockTokenUC) Validate(ctx context.Context, secret string) domain.TokenValidation {
	return m.Called(ctx, secret).Get(0).(domain.TokenValidation)
}
func (m *MockTokenUC) Revoke(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	return m.view(m.Called(ctx, ownerID, tokenID))
}
func (m *MockTokenUC) Reactivate(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	return m.view(m.Called(ctx, ownerID, tokenID))
}
func (m *MockTokenUC) Get(ctx context.Context, ownerID, tokenID string) (*domain.AccessTokenView, error) {
	return m.view(m.Called(ctx, ownerID, tokenID))
}
func (m *MockTokenUC) List(ctx context.Context, ownerID string) ([]domain.AccessTokenView, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.AccessTokenView), args.Error(1)
}
func (m *MockTokenUC) ListActive(ctx context.Context, ownerID string) ([]domain.AccessTokenView, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.AccessTokenView), args.Error(1)
}
func (m *MockTokenUC) Update(ctx context.Context, ownerID, tokenID string, req *domain.UpdateTokenRequest) (*domain.AccessTokenView, error) {
	return m.view(m.Called(ctx, ownerID, tokenID, req))
}
func (m *MockTokenUC) Delete(ctx context.Context, ownerID, tokenID string) error {
	return m.Called(ctx, ownerID, tokenID).Error(0)
}
func (m *MockTokenUC) Statistics(ctx context.Context, ownerID string) (*domain.TokenStatistics, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TokenStatistics), args.Error(1)
}

func TestAccessTokenHandler(t *testing.T) {
	noLimit := func(c *gin.Context) { c.Next() }

	t.Run("Issue", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		view := &domain.AccessTokenView{AccessToken: domain.AccessToken{ID: tokenA, UserID: ownerA, Label: "Acme"}, IsValid: true}
		uc.On("Issue", mock.Anything, ownerA, mock.MatchedBy(func(req *domain.IssueTokenRequest) bool {
			return req.Label == "Acme" && req.DurationHours != nil && *req.DurationHours == 24
		})).Return(view, nil).Once()

		w := do(r, http.MethodPost, "/v1/recruiter-access", `{"label":"Acme","duration_hours":24}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decode(t, w).Success)
		uc.AssertExpectations(t)
	})

	t.Run("Issue with malformed body", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		w := do(r, http.MethodPost, "/v1/recruiter-access", `{"label":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decode(t, w).Error.Kind)
		uc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reactivate expired link is a conflict", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		uc.On("Reactivate", mock.Anything, ownerA, tokenA).
			Return(nil, apperror.InvalidState("This link has expired and cannot be reactivated")).Once()
		w := do(r, http.MethodPost, "/v1/recruiter-access/"+tokenA+"/activate", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "invalid_state", decode(t, w).Error.Kind)
		uc.AssertExpectations(t)
	})

	t.Run("Revoke", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		view := &domain.AccessTokenView{AccessToken: domain.AccessToken{ID: tokenA, UserID: ownerA}}
		uc.On("Revoke", mock.Anything, ownerA, tokenA).Return(view, nil).Twice()
		for range 2 {
			w := do(r, http.MethodPost, "/v1/recruiter-access/"+tokenA+"/revoke", "")
			assert.Equal(t, http.StatusOK, w.Code)
		}
		uc.AssertExpectations(t)
	})

	t.Run("Static routes win over id", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		uc.On("Statistics", mock.Anything, ownerA).Return(&domain.TokenStatistics{TotalLinks: 2}, nil).Once()
		w := do(r, http.MethodGet, "/v1/recruiter-access/statistics", "")
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Validate", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		uc.On("Validate", mock.Anything, "s3cret").Return(domain.TokenValidation{Valid: true, OwnerID: ownerA}).Once()
		w := do(r, http.MethodPost, "/v1/recruiter-access/validate", `{"token":"s3cret"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var data map[string]any
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
		assert.Equal(t, true, data["valid"])
		assert.NotContains(t, w.Body.String(), ownerA)
	})

	t.Run("Validate without token", func(t *testing.T) {
		uc := new(MockTokenUC)
		r, public, protected := newEngine()
		NewAccessTokenHandler(public, protected, uc, noLimit)

		w := do(r, http.MethodPost, "/v1/recruiter-access/validate", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})
}

type MockPortfolioUC struct{ mock.Mock }

func (m *MockPortfolioUC) GetPortfolio(ctx context.Context, ownerID, secret string) (*domain.PortfolioView, error) {
	args := m.Called(ctx, ownerID, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioView), args.Error(1)
}

func (m *MockPortfolioUC) GetPortfolioBySlug(ctx context.Context, slug, secret string) (*domain.PortfolioView, error) {
	args := m.Called(ctx, slug, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioView), args.Error(1)
}

type MockFileUC struct{ mock.Mock }

func (m *MockFileUC) DownloadLink(ctx context.Context, ownerID, fileID, secret string) (*domain.FileDownload, error) {
	args := m.Called(ctx, ownerID, fileID, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileDownload), args.Error(1)
}

func TestPortfolioHandler(t *testing.T) {
	setup := func() (*gin.Engine, *MockPortfolioUC, *MockFileUC) {
		portfolioUC, fileUC := new(MockPortfolioUC), new(MockFileUC)
		r, public, _ := newEngine()
		NewPortfolioHandler(public, portfolioUC, fileUC, middleware.RecruiterSecret())
		return r, portfolioUC, fileUC
	}

	t.Run("Secret from query reaches the usecase", func(t *testing.T) {
		r, portfolioUC, _ := setup()
		portfolioUC.On("GetPortfolio", mock.Anything, ownerA, "abc").
			Return(&domain.PortfolioView{RecruiterAccess: true}, nil).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/"+ownerA+"?access=abc", "")
		assert.Equal(t, http.StatusOK, w.Code)
		portfolioUC.AssertExpectations(t)
	})

	t.Run("Slug with header secret", func(t *testing.T) {
		r, portfolioUC, _ := setup()
		portfolioUC.On("GetPortfolioBySlug", mock.Anything, "jane-doe", "hdr").
			Return(&domain.PortfolioView{}, nil).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/slug/jane-doe", "", middleware.RecruiterTokenHeader, "hdr")
		assert.Equal(t, http.StatusOK, w.Code)
		portfolioUC.AssertExpectations(t)
	})

	t.Run("Unknown owner", func(t *testing.T) {
		r, portfolioUC, _ := setup()
		portfolioUC.On("GetPortfolio", mock.Anything, "nobody", "").
			Return(nil, apperror.NotFound("Portfolio not found")).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/nobody", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Download redirects", func(t *testing.T) {
		r, _, fileUC := setup()
		fileUC.On("DownloadLink", mock.Anything, ownerA, "f1", "").
			Return(&domain.FileDownload{URL: "https://bucket.example/f1?sig=x", ExpiresAt: time.Now().Add(time.Minute)}, nil).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/"+ownerA+"/files/f1/download", "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://bucket.example/f1?sig=x", w.Header().Get("Location"))
	})

	t.Run("Hidden file is not found", func(t *testing.T) {
		r, _, fileUC := setup()
		fileUC.On("DownloadLink", mock.Anything, ownerA, "f2", "").
			Return(nil, apperror.NotFound("File not found")).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/"+ownerA+"/files/f2/download", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, w.Header().Get("Location"))
	})
}

type MockSnapshotUC struct{ mock.Mock }

func (m *MockSnapshotUC) Export(ctx context.Context, ownerID string) (*domain.PortfolioSnapshot, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSnapshot), args.Error(1)
}

func (m *MockSnapshotUC) ExportWorkbook(ctx context.Context, ownerID string) ([]byte, string, error) {
	args := m.Called(ctx, ownerID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func (m *MockSnapshotUC) Import(ctx context.Context, ownerID string, doc *domain.SnapshotDocument, mode string) (*domain.ImportResult, error) {
	args := m.Called(ctx, ownerID, doc, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func TestSnapshotHandler(t *testing.T) {
	setup := func(maxBytes int64) (*gin.Engine, *MockSnapshotUC) {
		uc := new(MockSnapshotUC)
		r, _, protected := newEngine()
		NewSnapshotHandler(protected, uc, maxBytes)
		return r, uc
	}

	t.Run("JSON export is a bare snapshot attachment", func(t *testing.T) {
		r, uc := setup(0)
		exported := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		uc.On("Export", mock.Anything, ownerA).Return(&domain.PortfolioSnapshot{
			SchemaVersion: domain.SnapshotSchemaVersion, ExportedAt: exported,
		}, nil).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/me/export", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio_20260301_100000.json")

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.EqualValues(t, domain.SnapshotSchemaVersion, body["schema_version"])
		assert.NotContains(t, body, "success")
	})

	t.Run("Workbook export", func(t *testing.T) {
		r, uc := setup(0)
		uc.On("ExportWorkbook", mock.Anything, ownerA).Return([]byte("PK"), "portfolio_x.xlsx", nil).Once()

		w := do(r, http.MethodGet, "/v1/portfolio/me/export?format=xlsx", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio_x.xlsx")
	})

	t.Run("Unknown format", func(t *testing.T) {
		r, _ := setup(0)
		w := do(r, http.MethodGet, "/v1/portfolio/me/export?format=csv", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Import forwards mode", func(t *testing.T) {
		r, uc := setup(1 << 20)
		uc.On("Import", mock.Anything, ownerA, mock.MatchedBy(func(doc *domain.SnapshotDocument) bool {
			return doc.SchemaVersion == 1 && len(doc.Projects) == 1
		}), "replace").Return(&domain.ImportResult{Mode: domain.ImportModeReplace, Success: true}, nil).Once()

		w := do(r, http.MethodPost, "/v1/portfolio/me/import?mode=replace",
			`{"schema_version":1,"profile":{},"projects":[{"title":"A"}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("Import rejects invalid JSON", func(t *testing.T) {
		r, uc := setup(1 << 20)
		w := do(r, http.MethodPost, "/v1/portfolio/me/import", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Import body too large", func(t *testing.T) {
		r, uc := setup(64)
		big := `{"schema_version":1,"projects":[{"title":"` + strings.Repeat("x", 256) + `"}]}`
		w := do(r, http.MethodPost, "/v1/portfolio/me/import", big)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		uc.AssertNotCalled(t, "Import", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unsupported schema is a conflict", func(t *testing.T) {
		r, uc := setup(1 << 20)
		uc.On("Import", mock.Anything, ownerA, mock.Anything, "").
			Return(nil, apperror.InvalidState("Unsupported schema_version 9")).Once()

		w := do(r, http.MethodPost, "/v1/portfolio/me/import", `{"schema_version":9}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

type MockJustificationUC struct{ mock.Mock }

func (m *MockJustificationUC) SetJustifications(ctx context.Context, ownerID, skillID string, req *domain.SkillJustifications) error {
	return m.Called(ctx, ownerID, skillID, req).Error(0)
}

func TestJustificationHandler(t *testing.T) {
	uc := new(MockJustificationUC)
	r, _, protected := newEngine()
	NewJustificationHandler(protected, uc)

	uc.On("SetJustifications", mock.Anything, ownerA, "s1", mock.MatchedBy(func(req *domain.SkillJustifications) bool {
		return len(req.Projects) == 1 && req.Certifications == nil && req.Trainings != nil && len(req.Trainings) == 0
	})).Return(nil).Once()

	w := do(r, http.MethodPut, "/v1/skills/s1/justifications", `{"related_projects":["p1"],"related_trainings":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

type stubHealth struct{ ok bool }

func (s stubHealth) Check(context.Context) (map[string]string, bool) {
	if s.ok {
		return map[string]string{"status": "ok", "database": "ok"}, true
	}
	return map[string]string{"status": "degraded", "database": "down"}, false
}

func TestNewRouter(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:         []string{"https://folio.example"},
		RateLimitWindowSeconds:     60,
		RateLimitGlobalThreshold:   1000,
		RateLimitValidateThreshold: 1000,
		ImportMaxBytes:             1 << 20,
	}
	deps := RouterDeps{
		TokenUC:         new(MockTokenUC),
		PortfolioUC:     new(MockPortfolioUC),
		FileUC:          new(MockFileUC),
		SnapshotUC:      new(MockSnapshotUC),
		JustificationUC: new(MockJustificationUC),
		HealthUC:        stubHealth{ok: true},
		Verifier:        auth.NewVerifier("router-test-secret", nil),
		Config:          cfg,
	}

	r := NewRouter(deps)

	w := do(r, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = do(r, http.MethodGet, "/v1/portfolio/me/export", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)

	deps.HealthUC = stubHealth{ok: false}
	w = do(NewRouter(deps), http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("degraded")))
}
