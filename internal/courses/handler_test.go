package courses

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

func newTestRouter(t *testing.T) (*gin.Engine, *fixture, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture()
	tokens := auth.NewJWTService("test-secret", time.Hour)
	h := NewHandler(f.svc, nil)

	r := gin.New()
	r.GET("/course/:courseId", middleware.OptionalJWT(tokens, nil), h.Get)
	r.GET("/search", h.Search)
	protected := r.Group("", middleware.JWT(tokens, nil))
	protected.POST("/course", h.Create)
	protected.PUT("/course", h.Update)
	protected.DELETE("/course", h.Delete)
	return r, f, tokens
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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

func issue(t *testing.T, tokens *auth.JWTService, id uuid.UUID) string {
	t.Helper()
	token, err := tokens.Issue(id)
	require.NoError(t, err)
	return token
}

func TestHandlerPresenterCourseScenario(t *testing.T) {
	r, f, tokens := newTestRouter(t)
	credP, _ := f.world.AddPresenter("a")
	credOther, _ := f.world.AddPresenter("b")
	tokenP, tokenOther := issue(t, tokens, credP), issue(t, tokens, credOther)

	w := doJSON(t, r, http.MethodPost, "/course", tokenP, gin.H{"name": "Course C"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Authorization"))
	var created struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Presenter struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"presenter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "a", created.Presenter.Name)

	w = doJSON(t, r, http.MethodPut, "/course", tokenP, gin.H{"id": created.ID, "name": "Course C2"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Course C2"`)

	w = doJSON(t, r, http.MethodDelete, "/course", tokenP, gin.H{"id": created.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":"`+created.ID+`"}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/course/"+created.ID, tokenP, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Invalid course Id"}`, w.Body.String())

	w = doJSON(t, r, http.MethodDelete, "/course", tokenOther, gin.H{"id": created.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid user id"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Authorization"))
}

func TestHandlerRequiresToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/course", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Please log in"}`, w.Body.String())
}

func TestHandlerSearch(t *testing.T) {
	r, f, tokens := newTestRouter(t)
	credP, p := f.world.AddPresenter("a")
	w := doJSON(t, r, http.MethodPost, "/course", issue(t, tokens, credP), gin.H{"name": "50% off_100"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/search?presenterId="+p.ID.String()+"&courseName=off", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(t, r, http.MethodGet, "/search?courseName=zzz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
