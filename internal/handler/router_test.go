package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/middleware"
	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/internal/service"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/export"
)

type fakeRoles map[string]models.UserRole

func (f fakeRoles) ResolveRole(ctx context.Context, email string) (models.UserRole, bool, error) {
	role, ok := f[email]
	return role, ok, nil
}

type fakeUsers struct {
	known map[string]bool
}

func (f *fakeUsers) RoleByEmail(ctx context.Context, email string) (*models.RoleLookup, error) {
	return &models.RoleLookup{Email: email, Role: models.RoleUser}, nil
}

func (f *fakeUsers) Upsert(ctx context.Context, req models.CreateUserRequest) (*models.UpsertUserResult, error) {
	if f.known[req.Email] {
		return &models.UpsertUserResult{Message: "User already exists"}, nil
	}
	f.known[req.Email] = true
	id := "new-id"
	return &models.UpsertUserResult{Message: "User created", InsertedID: &id}, nil
}

func (f *fakeUsers) Profile(ctx context.Context, email string) (*models.User, error) {
	return &models.User{Email: email}, nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, email string, req models.UpdateProfileRequest) (*models.User, error) {
	return &models.User{Email: email}, nil
}

func (f *fakeUsers) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	return nil, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (f *fakeUsers) UpdateRole(ctx context.Context, id string, req models.UpdateRoleRequest, meta models.RequestMeta) (*models.User, error) {
	return &models.User{ID: id, Role: models.UserRole(req.Role)}, nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string, meta models.RequestMeta) error {
	return nil
}

type fakeScholarships struct{}

func (fakeScholarships) Search(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, *models.Pagination, error) {
	return []models.Scholarship{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (fakeScholarships) ListPosted(ctx context.Context, email string, page, pageSize int) ([]models.Scholarship, *models.Pagination, error) {
	return []models.Scholarship{}, nil, nil
}

func (fakeScholarships) Get(ctx context.Context, id string) (*models.Scholarship, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Scholarship not found with this ID.")
}

func (fakeScholarships) Create(ctx context.Context, caller models.Identity, req models.CreateScholarshipRequest) (*models.Scholarship, error) {
	return &models.Scholarship{ID: "s-1", PostedUserEmail: caller.Email}, nil
}

func (fakeScholarships) Update(ctx context.Context, id string, req models.UpdateScholarshipRequest) (*models.Scholarship, error) {
	return &models.Scholarship{ID: id}, nil
}

func (fakeScholarships) Delete(ctx context.Context, id string) error { return nil }

type fakeApplications struct {
	applied map[string]bool
}

func (f *fakeApplications) Create(ctx context.Context, req models.CreateApplicationRequest) (*models.CreateApplicationResult, error) {
	key := req.ApplicantEmail + "|" + req.ScholarshipID
	if f.applied[key] {
		return nil, appErrors.Clone(appErrors.ErrConflict, "You have already applied for this scholarship.")
	}
	f.applied[key] = true
	return &models.CreateApplicationResult{InsertedID: "app-1"}, nil
}

func (f *fakeApplications) UpdateStatus(ctx context.Context, id string, req models.UpdateApplicationStatusRequest, meta models.RequestMeta) (*models.Application, error) {
	return &models.Application{ID: id, Status: models.ApplicationStatus(req.Status)}, nil
}

func (f *fakeApplications) ListMine(ctx context.Context, email string) ([]models.ApplicationView, error) {
	return []models.ApplicationView{}, nil
}

func (f *fakeApplications) ListPending(ctx context.Context) ([]models.ApplicationView, error) {
	return []models.ApplicationView{}, nil
}

func (f *fakeApplications) Delete(ctx context.Context, id string, meta models.RequestMeta) error {
	return nil
}

type fakeReviews struct{}

func (fakeReviews) Create(ctx context.Context, caller models.Identity, req models.CreateReviewRequest) (*models.Review, error) {
	return &models.Review{ID: "r-1", ReviewerEmail: caller.Email}, nil
}

func (fakeReviews) ListByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error) {
	return []models.Review{{ScholarshipID: scholarshipID}}, nil
}

func (fakeReviews) Get(ctx context.Context, id string) (*models.Review, error) {
	return &models.Review{ID: id}, nil
}

func (fakeReviews) Latest(ctx context.Context) ([]models.Review, error) { return []models.Review{}, nil }

func (fakeReviews) ListMine(ctx context.Context, email string) ([]models.Review, error) {
	return []models.Review{}, nil
}

func (fakeReviews) Update(ctx context.Context, caller models.Identity, id string, req models.UpdateReviewRequest) (*models.Review, error) {
	if caller.Email != "owner@example.com" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Forbidden: You can only edit your own reviews.")
	}
	return &models.Review{ID: id, ReviewerEmail: caller.Email}, nil
}

func (fakeReviews) Delete(ctx context.Context, caller models.Identity, id string) error { return nil }

type fakeAnalytics struct {
	hit bool
}

func (f *fakeAnalytics) PlatformStats(ctx context.Context) (*models.PlatformStats, bool, error) {
	return &models.PlatformStats{TotalUsers: 4, ApplicationsByCategory: []models.CategoryCount{}}, f.hit, nil
}

func (f *fakeAnalytics) ExportPlatformStats(ctx context.Context, format string) ([]byte, export.Renderer, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, nil, appErrors.Validation(err, "Unsupported export format. Use csv or pdf.")
	}
	return []byte("Total users,4\n"), renderer, nil
}

type fakePayments struct{}

func (fakePayments) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if req.Price < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid price amount.")
	}
	return &models.PaymentIntentResponse{ClientSecret: "pi_secret", Amount: int64(req.Price)}, nil
}

type testServer struct {
	router *gin.Engine
	tokens *service.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := service.NewTokenService(service.TokenConfig{Secret: "router-secret", Expiry: time.Hour, Issuer: "scholarhub-api"}, nil)
	roles := fakeRoles{
		"admin@example.com": models.RoleAdmin,
		"mod@example.com":   models.RoleModerator,
		"user@example.com":  models.RoleUser,
		"owner@example.com": models.RoleUser,
	}
	metrics := service.NewMetricsService()
	router := NewRouter(RouterConfig{
		AllowedOrigins: []string{"*"},
		TokenRate:      100,
		Metrics:        metrics,
		Gate:           middleware.NewGate(tokens, roles, metrics),
		Health:         NewHealthHandler(nil, metrics, nil),
		Auth:           NewAuthHandler(tokens),
		Users:          NewUserHandler(&fakeUsers{known: map[string]bool{}}),
		Scholarships:   NewScholarshipHandler(fakeScholarships{}),
		Applications:   NewApplicationHandler(&fakeApplications{applied: map[string]bool{}}),
		Reviews:        NewReviewHandler(fakeReviews{}),
		Analytics:      NewAnalyticsHandler(&fakeAnalytics{hit: true}),
		Payments:       NewPaymentHandler(fakePayments{}),
	})
	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	resp, err := s.tokens.Issue(models.TokenRequest{Email: email})
	require.NoError(t, err)
	return resp.Token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRouterHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/ready", "", nil).Code)

	s.do(http.MethodGet, "/all-scholarships", "", nil)
	w := s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scholarhub_http_requests_total")
}

func TestRouterIssueToken(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/jwt", "", map[string]string{"email": "user@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var data models.TokenResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	claims, err := s.tokens.Verify(data.Token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)

	w = s.do(http.MethodPost, "/jwt", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterUserUpsertIdempotent(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]string{"email": "new@example.com", "name": "New"}

	first := s.do(http.MethodPost, "/users", "", payload)
	assert.Equal(t, http.StatusCreated, first.Code)

	second := s.do(http.MethodPost, "/users", "", payload)
	assert.Equal(t, http.StatusOK, second.Code)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, second).Data, &data))
	assert.Equal(t, "User already exists", data["message"])
	value, present := data["insertedId"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestRouterAdminRoutesRejectOthers(t *testing.T) {
	s := newTestServer(t)
	for _, email := range []string{"mod@example.com", "user@example.com", "ghost@example.com"} {
		w := s.do(http.MethodGet, "/users", s.token(t, email), nil)
		assert.Equal(t, http.StatusForbidden, w.Code, email)
		env := decode(t, w)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
		assert.Equal(t, "Forbidden access: Admin required", env.Message)
	}
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/users", s.token(t, "admin@example.com"), nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/users", "", nil).Code)
}

func TestRouterSelfRoutes(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "user@example.com")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/dashboard/my-applications?email=user@example.com", token, nil).Code)

	w := s.do(http.MethodGet, "/users/profile?email=admin@example.com", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: Email mismatch.", decode(t, w).Message)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/dashboard/my-reviews", token, nil).Code)
}

func TestRouterDuplicateApplication(t *testing.T) {
	s := newTestServer(t)
	payload := map[string]string{"scholarshipId": "s-1", "applicantEmail": "user@example.com"}

	first := s.do(http.MethodPost, "/applications", "", payload)
	require.Equal(t, http.StatusCreated, first.Code)
	var data map[string]string
	require.NoError(t, json.Unmarshal(decode(t, first).Data, &data))
	assert.Equal(t, "app-1", data["insertedId"])

	second := s.do(http.MethodPost, "/applications", "", payload)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "You have already applied for this scholarship.", decode(t, second).Message)
}

func TestRouterModeratorRoutes(t *testing.T) {
	s := newTestServer(t)
	body := map[string]string{"status": "Approved"}

	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/applications/status/a-1", s.token(t, "mod@example.com"), body).Code)
	w := s.do(http.MethodPatch, "/applications/status/a-1", s.token(t, "user@example.com"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden access: Moderator or Admin required", decode(t, w).Message)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/applications/a-1", s.token(t, "mod@example.com"), nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/moderator/pending-applications", s.token(t, "admin@example.com"), nil).Code)
}

func TestRouterReviewOwnership(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"rating": 5}

	w := s.do(http.MethodPatch, "/reviews/r-1", s.token(t, "user@example.com"), body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden: You can only edit your own reviews.", decode(t, w).Message)

	assert.Equal(t, http.StatusOK, s.do(http.MethodPatch, "/reviews/r-1", s.token(t, "owner@example.com"), body).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/reviews", "", body).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reviews/single/r-1", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/reviews/s-1", "", nil).Code)
}

func TestRouterScholarshipNotFoundEnvelope(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/scholarships/3c9f1a52-7f0e-4c1e-9e43-5b8a2d6f0a11", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, http.StatusNotFound, env.Error.Status)
	assert.NotContains(t, w.Body.String(), "details")
}

func TestRouterAnalytics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/analytics/platform-stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))
	assert.Equal(t, true, decode(t, w).Meta["cache_hit"])

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/analytics/platform-stats/export", "", nil).Code)

	w = s.do(http.MethodGet, "/analytics/platform-stats/export?format=csv", s.token(t, "admin@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	w = s.do(http.MethodGet, "/analytics/platform-stats/export?format=xml", s.token(t, "admin@example.com"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouterPaymentIntent(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/create-payment-intent", "", map[string]interface{}{"price": "1500"})
	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "pi_secret", data["clientSecret"])

	w = s.do(http.MethodPost, "/create-payment-intent", "", map[string]interface{}{"price": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid price amount.", decode(t, w).Message)
}

func TestRouterPosterMatchRequiresModerator(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"scholarshipName": "Merit", "universityName": "Uni"}

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/add-scholarships", s.token(t, "user@example.com"), body).Code)
	w := s.do(http.MethodPost, "/add-scholarships", s.token(t, "mod@example.com"), body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouterLegacyAliases(t *testing.T) {
	s := newTestServer(t)
	body := map[string]interface{}{"scholarshipName": "Merit", "universityName": "Uni"}

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/addScholars", s.token(t, "mod@example.com"), body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/addScholars", s.token(t, "user@example.com"), body).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/addScholars", s.token(t, "admin@example.com"), nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/addScholars", "", nil).Code)

	w := s.do(http.MethodGet, "/reviews/scholarship/s-9", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.Review
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "s-9", items[0].ScholarshipID)
}
