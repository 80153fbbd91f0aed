package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/generation"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/middleware"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/services"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	mu   sync.Mutex
	jobs []generation.Job
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, job generation.Job) (*generation.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := db.DB
	db.DB = sqlx.NewDb(mockDB, "postgres")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.DB.Close()
		db.DB = prev
	})
	return mock
}

func newTestRouter(submitter Submitter) (*gin.Engine, *services.SessionService) {
	gin.SetMode(gin.TestMode)
	sessions := services.NewSessionService("test-secret")

	router := gin.New()
	router.Use(middleware.SessionMiddleware(sessions))
	RegisterRoutes(router, NewHandlers(sessions, submitter), func(c *gin.Context) { c.Next() })
	return router, sessions
}

func doRequest(router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

var videoColumns = []string{"id", "user_id", "title", "prompt", "status", "video_url", "duration", "created_at"}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"AI Video Studio API is running"}`, w.Body.String())
}

func TestSubmitVideo_ReturnsPendingAndQueuesOnce(t *testing.T) {
	mock := setupMockDB(t)
	submitter := &fakeSubmitter{}
	router, _ := newTestRouter(submitter)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO videos")).
		WithArgs(int64(1), "Demo", "space", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"user_id": 1, "title": "Demo", "prompt": "space",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "Video generation started", body["message"])
	assert.NotContains(t, body, "video_url")
	assert.NotContains(t, body, "duration")

	require.Len(t, submitter.jobs, 1)
	assert.Equal(t, generation.Job{VideoID: 1, Prompt: "space"}, submitter.jobs[0])
}

func TestSubmitVideo_QueueFailureStillReturnsCreated(t *testing.T) {
	mock := setupMockDB(t)
	submitter := &fakeSubmitter{err: generation.ErrStopped}
	router, _ := newTestRouter(submitter)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO videos")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"user_id": 1, "title": "Demo", "prompt": "space",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, submitter.jobs, 1)
}

func TestSubmitVideo_EmptyPromptRejected(t *testing.T) {
	setupMockDB(t)
	submitter := &fakeSubmitter{}
	router, _ := newTestRouter(submitter)

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"user_id": 1, "title": "Demo", "prompt": "   ",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, submitter.jobs)
}

func TestSubmitVideo_MissingTitleRejected(t *testing.T) {
	setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"user_id": 1, "prompt": "space",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body api.ErrorResponse
	decode(t, w, &body)
	assert.Contains(t, body.Error, "Invalid request body")
}

func TestSubmitVideo_OwnerFromSession(t *testing.T) {
	mock := setupMockDB(t)
	router, sessions := newTestRouter(&fakeSubmitter{})
	token, err := sessions.GenerateToken(9, "ada")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO videos")).
		WithArgs(int64(9), "Demo", "space", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"title": "Demo", "prompt": "space",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body api.VideoResponse
	decode(t, w, &body)
	assert.Equal(t, int64(9), body.UserID)
}

func TestSubmitVideo_NoOwnerRejected(t *testing.T) {
	setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodPost, "/api/videos", map[string]interface{}{
		"title": "Demo", "prompt": "space",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetVideoByID_Completed(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM videos WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(videoColumns).
			AddRow(int64(5), int64(1), "Demo", "space", "completed", "/videos/5_generated.mp4", int64(30), time.Now().UTC()))

	w := doRequest(router, http.MethodGet, "/api/videos/5", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body api.VideoResponse
	decode(t, w, &body)
	assert.Equal(t, api.StatusCompleted, body.Status)
	require.NotNil(t, body.VideoURL)
	assert.Equal(t, "/videos/5_generated.mp4", *body.VideoURL)
	require.NotNil(t, body.Duration)
	assert.Equal(t, int64(30), *body.Duration)
}

func TestGetVideoByID_FailedHasNoAsset(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM videos WHERE id = $1")).
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(videoColumns).
			AddRow(int64(6), int64(1), "Demo", "space", "failed", nil, nil, time.Now().UTC()))

	w := doRequest(router, http.MethodGet, "/api/videos/6", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "failed", body["status"])
	assert.NotContains(t, body, "video_url")
	assert.NotContains(t, body, "duration")
}

func TestGetByID_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		query string
		cols  []string
	}{
		{"user", "/api/users/404", "FROM users WHERE id = $1", []string{"id"}},
		{"icon", "/api/icons/404", "FROM icons WHERE id = $1", []string{"id"}},
		{"video", "/api/videos/404", "FROM videos WHERE id = $1", videoColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			router, _ := newTestRouter(&fakeSubmitter{})

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(int64(404)).
				WillReturnRows(sqlmock.NewRows(tt.cols))

			w := doRequest(router, http.MethodGet, tt.path, nil, "")
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestMalformedID_NotFound(t *testing.T) {
	setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	for _, path := range []string{"/api/users/abc", "/api/icons/-1", "/api/videos/1.5", "/api/videos/user/x"} {
		w := doRequest(router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestDelete_NonexistentIsNotFound(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		table   string
		message string
	}{
		{"user", "/api/users/77", "users", "User not found"},
		{"icon", "/api/icons/77", "icons", "Icon not found"},
		{"video", "/api/videos/77", "videos", "Video not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			router, _ := newTestRouter(&fakeSubmitter{})

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM " + tt.table + " WHERE id = $1")).
				WithArgs(int64(77)).
				WillReturnResult(sqlmock.NewResult(0, 0))

			w := doRequest(router, http.MethodDelete, tt.path, nil, "")
			assert.Equal(t, http.StatusNotFound, w.Code)

			var body api.ErrorResponse
			decode(t, w, &body)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestDeleteVideo_Success(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM videos WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doRequest(router, http.MethodDelete, "/api/videos/8", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Video deleted successfully"}`, w.Body.String())
}

func TestUpdateVideo_IgnoresStatus(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE videos")).
		WithArgs(int64(4), "Renamed", nil).
		WillReturnRows(sqlmock.NewRows(videoColumns).
			AddRow(int64(4), int64(1), "Renamed", "space", "pending", nil, nil, time.Now().UTC()))

	w := doRequest(router, http.MethodPut, "/api/videos/4", map[string]interface{}{
		"title": "Renamed", "status": "completed",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body api.VideoResponse
	decode(t, w, &body)
	assert.Equal(t, api.StatusPending, body.Status)
}

func TestCreateUser_IssuesSession(t *testing.T) {
	mock := setupMockDB(t)
	router, sessions := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("ada", "ada@example.com", "light", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "ada", "email": "Ada@Example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body api.CreateUserResponse
	decode(t, w, &body)
	assert.Equal(t, int64(12), body.ID)
	assert.Equal(t, "light", body.ThemePreference)

	claims, err := sessions.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "ada", claims.Username)
}

func TestCreateUser_MissingUsername(t *testing.T) {
	setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodPost, "/api/users", map[string]interface{}{
		"email": "ada@example.com",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateUser_AcceptsFreeFormFields(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("ada", "ada at home", "solarized", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(13), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/users", map[string]interface{}{
		"username": "ada", "email": "ada at home", "theme_preference": "solarized",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestGetSession(t *testing.T) {
	setupMockDB(t)
	router, sessions := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodGet, "/api/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := sessions.GenerateToken(3, "grace")
	require.NoError(t, err)

	w = doRequest(router, http.MethodGet, "/api/session", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var body api.SessionResponse
	decode(t, w, &body)
	assert.Equal(t, int64(3), body.UserID)
	assert.Equal(t, "grace", body.Username)
	assert.NotNil(t, body.ExpiresAt)
	assert.Empty(t, body.Token)
}

func TestCreateIcon_Defaults(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO icons")).
		WithArgs(int64(1), "star", "fa-star", "#000000", "medium", "solid").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(20), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/icons", map[string]interface{}{
		"user_id": 1, "icon_name": "star", "icon_class": "fa-star",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body api.CreateIconResponse
	decode(t, w, &body)
	assert.Equal(t, "#000000", body.Color)
	assert.Equal(t, "medium", body.Size)
	assert.Equal(t, "solid", body.Style)
}

func TestCreateIcon_MissingClass(t *testing.T) {
	setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	w := doRequest(router, http.MethodPost, "/api/icons", map[string]interface{}{
		"user_id": 1, "icon_name": "star",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateIcon_AcceptsAnySize(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO icons")).
		WithArgs(int64(1), "star", "fa-star", "#000000", "xl", "solid").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(21), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/icons", map[string]interface{}{
		"user_id": 1, "icon_name": "star", "icon_class": "fa-star", "size": "xl",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestGetIconsByUserID_Empty(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("FROM icons WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "icon_name", "icon_class", "color", "size", "style", "created_at"}))

	w := doRequest(router, http.MethodGet, "/api/icons/user/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTrackEvent_AnonymousDefaultsPayload(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO analytics")).
		WithArgs(nil, "page_view", []byte(`{}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(31), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/analytics", map[string]interface{}{
		"event_type": "page_view",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body api.TrackEventResponse
	decode(t, w, &body)
	assert.Equal(t, int64(31), body.ID)
	assert.Equal(t, "Event tracked successfully", body.Message)
}

func TestTrackEvent_UserFromSession(t *testing.T) {
	mock := setupMockDB(t)
	router, sessions := newTestRouter(&fakeSubmitter{})
	token, err := sessions.GenerateToken(4, "linus")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO analytics")).
		WithArgs(int64(4), "video_viewed", []byte(`{"video_id":5}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(32), time.Now().UTC()))

	w := doRequest(router, http.MethodPost, "/api/analytics", map[string]interface{}{
		"event_type": "video_viewed",
		"event_data": map[string]int{"video_id": 5},
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestGetAnalyticsSummary(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY event_type")).
		WillReturnRows(sqlmock.NewRows([]string{"event_type", "count"}).
			AddRow("page_view", int64(3)).
			AddRow("video_submitted", int64(1)))

	w := doRequest(router, http.MethodGet, "/api/analytics/summary", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"event_type":"page_view","count":3},{"event_type":"video_submitted","count":1}]`, w.Body.String())
}

func TestGetAnalyticsByUser(t *testing.T) {
	mock := setupMockDB(t)
	router, _ := newTestRouter(&fakeSubmitter{})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analytics WHERE user_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_type", "event_data", "created_at"}).
			AddRow(int64(1), int64(2), "page_view", []byte(`{"page":"home"}`), now))

	w := doRequest(router, http.MethodGet, "/api/analytics/user/2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body []api.AnalyticsEventResponse
	decode(t, w, &body)
	require.Len(t, body, 1)
	require.NotNil(t, body[0].UserID)
	assert.Equal(t, int64(2), *body[0].UserID)
	assert.JSONEq(t, `{"page":"home"}`, string(body[0].EventData))
}
