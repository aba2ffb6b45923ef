package lectures

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/auth"
	"github.com/lecturely/backend/internal/middleware"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fixture, func(uuid.UUID) string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture()
	tokens := auth.NewJWTService("test-secret", time.Hour)
	h := NewHandler(f.svc)

	r := gin.New()
	r.GET("/lecture/:lectureId", middleware.OptionalJWT(tokens, nil), h.Get)
	r.GET("/course/:courseId/lectures", h.ListByCourse)
	protected := r.Group("", middleware.JWT(tokens, nil))
	protected.POST("/lecture", h.Create)
	protected.PUT("/lecture", h.Update)
	protected.DELETE("/lecture", h.Delete)

	issue := func(id uuid.UUID) string {
		token, err := tokens.Issue(id)
		require.NoError(t, err)
		return token
	}
	return r, f, issue
}

func send(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerTeacherUpdatesAssignedLecture(t *testing.T) {
	r, f, issue := newTestRouter(t)

	w := send(t, r, http.MethodPost, "/lecture", issue(f.credP), f.createInput())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID            string `json:"id"`
		Media         string `json:"media"`
		ZoomStartLink string `json:"zoomStartLink"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "zoom", created.Media)
	assert.NotEmpty(t, created.ZoomStartLink)

	w = send(t, r, http.MethodPut, "/lecture", issue(f.credT), gin.H{"id": created.ID, "name": "Week 1 (moved)"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Week 1 (moved)"`)
	assert.NotEmpty(t, w.Header().Get("Authorization"))
	require.Len(t, f.provider.updated, 1)

	w = send(t, r, http.MethodPut, "/lecture", issue(f.credOther), gin.H{"id": created.ID, "name": "stolen"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid user id"}`, w.Body.String())

	w = send(t, r, http.MethodDelete, "/lecture", issue(f.credT), gin.H{"id": created.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerPublicRead(t *testing.T) {
	r, f, _ := newTestRouter(t)
	l := f.create(t)

	w := send(t, r, http.MethodGet, "/lecture/"+l.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "zoomStartLink")
	assert.Contains(t, w.Body.String(), `"zoomLink":"https://zoom.test/j/1"`)
	assert.Empty(t, w.Header().Get("Authorization"))

	w = send(t, r, http.MethodGet, "/course/"+f.course.ID.String()+"/lectures", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = send(t, r, http.MethodGet, "/lecture/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Lecture Id is required"}`, w.Body.String())
}
