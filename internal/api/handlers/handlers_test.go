package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chynybekuuludastan/seo_inspector/internal/config"
	"github.com/chynybekuuludastan/seo_inspector/internal/models"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository/cache"
	"github.com/chynybekuuludastan/seo_inspector/internal/utils/password"
)

var errNotFound = errors.New("record not found")

// Fakes override only what the handlers under test reach; anything else
// panics through the embedded nil interface.

type fakeUserRepo struct {
	repository.UserRepository
	user        *models.User
	updatedHash string
}

func (f *fakeUserRepo) FindByIDWithRole(userID uuid.UUID) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, errNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) UpdatePassword(userID uuid.UUID, passwordHash string) error {
	f.updatedHash = passwordHash
	return nil
}

type fakeAnalysisRepo struct {
	repository.AnalysisRepository
	latest    []*models.Analysis
	byID      map[uuid.UUID]*models.Analysis
	byWebsite []*models.Analysis
	deleted   []uuid.UUID
}

func (f *fakeAnalysisRepo) FindLatestByUserID(userID uuid.UUID, limit int) ([]*models.Analysis, error) {
	return f.latest, nil
}

func (f *fakeAnalysisRepo) FindWithDetails(analysisID uuid.UUID) (*models.Analysis, error) {
	analysis, ok := f.byID[analysisID]
	if !ok {
		return nil, errNotFound
	}
	return analysis, nil
}

func (f *fakeAnalysisRepo) FindByWebsiteID(websiteID uuid.UUID, page, pageSize int) ([]*models.Analysis, int64, error) {
	return f.byWebsite, int64(len(f.byWebsite)), nil
}

func (f *fakeAnalysisRepo) Delete(entity interface{}) error {
	f.deleted = append(f.deleted, entity.(*models.Analysis).ID)
	return nil
}

type fakeWebsiteRepo struct {
	repository.WebsiteRepository
	website *models.Website
}

func (f *fakeWebsiteRepo) FindByID(id interface{}, entity interface{}) error {
	if f.website == nil || f.website.ID != id.(uuid.UUID) {
		return errNotFound
	}
	*entity.(*models.Website) = *f.website
	return nil
}

func (f *fakeWebsiteRepo) FindByURL(url string) (*models.Website, error) {
	if f.website == nil || f.website.URL != url {
		return nil, errNotFound
	}
	return f.website, nil
}

// setUser mimics the JWT middleware populating the request context.
func setUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) (bool, json.RawMessage) {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope.Success, envelope.Data
}

func TestChangePasswordVerifiesCurrentPassword(t *testing.T) {
	userID := uuid.New()
	hash, err := password.Hash("old-secret-123")
	require.NoError(t, err)

	users := &fakeUserRepo{user: &models.User{
		ID:           userID,
		Username:     "dana",
		PasswordHash: hash,
		Role:         models.Role{Name: "analyst"},
	}}
	handler := NewAuthHandler(users, &config.Config{JWTSecret: "secret", JWTExpiration: time.Hour})

	app := fiber.New()
	app.Put("/api/auth/password", setUser(userID), handler.ChangePassword)

	resp := doRequest(t, app, http.MethodPut, "/api/auth/password",
		`{"current_password":"wrong-guess","new_password":"brand-new-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, users.updatedHash)

	resp = doRequest(t, app, http.MethodPut, "/api/auth/password",
		`{"current_password":"old-secret-123","new_password":"brand-new-pass"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotEmpty(t, users.updatedHash)
	match, err := password.Verify("brand-new-pass", users.updatedHash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{user: &models.User{ID: userID}}
	handler := NewAuthHandler(users, &config.Config{})

	app := fiber.New()
	app.Put("/api/auth/password", setUser(userID), handler.ChangePassword)

	resp := doRequest(t, app, http.MethodPut, "/api/auth/password",
		`{"current_password":"whatever","new_password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, users.updatedHash)
}

func TestListRecentAnalysesReturnsLatest(t *testing.T) {
	userID := uuid.New()
	repos := &repository.Factory{AnalysisRepository: &fakeAnalysisRepo{
		latest: []*models.Analysis{
			{ID: uuid.New(), UserID: userID, Status: models.StatusCompleted, Score: 79},
			{ID: uuid.New(), UserID: userID, Status: models.StatusFailed},
		},
	}}
	handler := NewAnalysisHandler(repos, cache.NewRepository(nil, 0), nil, nil, nil)

	app := fiber.New()
	app.Get("/api/analysis/recent", setUser(userID), handler.ListRecentAnalyses)

	resp := doRequest(t, app, http.MethodGet, "/api/analysis/recent", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	success, data := decodeEnvelope(t, resp)
	assert.True(t, success)

	var analyses []models.Analysis
	require.NoError(t, json.Unmarshal(data, &analyses))
	require.Len(t, analyses, 2)
	assert.Equal(t, models.StatusCompleted, analyses[0].Status)
	assert.Equal(t, 79, analyses[0].Score)
}

func TestDeleteAnalysisRemovesRecordAndCache(t *testing.T) {
	analysis := &models.Analysis{ID: uuid.New(), UserID: uuid.New(), Status: models.StatusCompleted}
	analyses := &fakeAnalysisRepo{byID: map[uuid.UUID]*models.Analysis{analysis.ID: analysis}}
	handler := NewAnalysisHandler(&repository.Factory{AnalysisRepository: analyses}, cache.NewRepository(nil, 0), nil, nil, nil)

	app := fiber.New()
	app.Delete("/api/analysis/:id", handler.DeleteAnalysis)

	resp := doRequest(t, app, http.MethodDelete, "/api/analysis/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, "/api/analysis/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, analyses.deleted)

	resp = doRequest(t, app, http.MethodDelete, "/api/analysis/"+analysis.ID.String(), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []uuid.UUID{analysis.ID}, analyses.deleted)
}

func TestGetWebsiteIncludesAnalysisHistory(t *testing.T) {
	site := &models.Website{ID: uuid.New(), URL: "https://site.test/", Title: "Site"}
	history := []*models.Analysis{
		{ID: uuid.New(), WebsiteID: site.ID, Status: models.StatusCompleted, Score: 92},
		{ID: uuid.New(), WebsiteID: site.ID, Status: models.StatusCompleted, Score: 71},
	}
	handler := NewWebsiteHandler(&repository.Factory{
		WebsiteRepository:  &fakeWebsiteRepo{website: site},
		AnalysisRepository: &fakeAnalysisRepo{byWebsite: history},
	})

	app := fiber.New()
	app.Get("/api/websites/:id", handler.GetWebsite)

	resp := doRequest(t, app, http.MethodGet, "/api/websites/"+site.ID.String(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	success, data := decodeEnvelope(t, resp)
	assert.True(t, success)

	var payload struct {
		Website  models.Website   `json:"website"`
		Analyses []models.Analysis `json:"analyses"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, site.URL, payload.Website.URL)
	assert.Len(t, payload.Analyses, 2)
	assert.Equal(t, int64(2), payload.Total)

	resp = doRequest(t, app, http.MethodGet, "/api/websites/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListWebsitesFiltersByURL(t *testing.T) {
	site := &models.Website{ID: uuid.New(), URL: "https://site.test/", Title: "Site"}
	handler := NewWebsiteHandler(&repository.Factory{
		WebsiteRepository: &fakeWebsiteRepo{website: site},
	})

	app := fiber.New()
	app.Get("/api/websites", handler.ListWebsites)

	resp := doRequest(t, app, http.MethodGet, "/api/websites?url=https://site.test/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	success, data := decodeEnvelope(t, resp)
	assert.True(t, success)

	var payload struct {
		Websites []models.Website `json:"websites"`
		Total    int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Websites, 1)
	assert.Equal(t, site.URL, payload.Websites[0].URL)

	resp = doRequest(t, app, http.MethodGet, "/api/websites?url=https://unknown.test/", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
