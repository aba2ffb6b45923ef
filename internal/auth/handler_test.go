package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, tokens := newTestService(nil)
	h := NewHandler(svc, nil)
	r := gin.New()
	h.Routes(r, rejectAll)
	return r, tokens
}

// rejectAll stands in for the required-token middleware.
func rejectAll(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Please log in"})
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerRegisterAndLogin(t *testing.T) {
	r, tokens := newTestRouter(t)

	w := postJSON(r, "/auth/register", gin.H{"email": "t@example.com", "password": "pw", "userType": "presenter"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	header := w.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "))
	_, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "presenter", body["userType"])
	assert.Equal(t, body["id"], body["presenter"])
	assert.NotContains(t, w.Body.String(), "password")

	w = postJSON(r, "/auth/login", gin.H{"email": "t@example.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid password"}`, w.Body.String())

	w = postJSON(r, "/auth/login", gin.H{"email": "t@example.com", "password": "pw"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Authorization"))

	req := httptest.NewRequest(http.MethodGet, "/auth/check/t@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"status":true}`, rec.Body.String())
}

func TestHandlerRegisterMalformed(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Authorization"))
}

func TestHandlerLoginWithExpiredToken(t *testing.T) {
	r, tokens := newTestRouter(t)
	w := postJSON(r, "/auth/register", gin.H{"email": "late@example.com", "password": "pw", "userType": "attendee"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, err := tokens.Verify(strings.TrimPrefix(w.Header().Get("Authorization"), "Bearer "))
	require.NoError(t, err)

	expired, err := NewJWTService("test-secret", -time.Minute).Issue(id)
	require.NoError(t, err)
	send := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	w = send(http.MethodPost, "/auth/login", gin.H{"email": "late@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fresh := strings.TrimPrefix(w.Header().Get("Authorization"), "Bearer ")
	got, err := tokens.Verify(fresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	w = send(http.MethodPost, "/auth/register", gin.H{"email": "next@example.com", "password": "pw", "userType": "attendee"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = send(http.MethodGet, "/auth/check/late@example.com", nil)
	assert.JSONEq(t, `{"status":true}`, w.Body.String())

	w = send(http.MethodPut, "/auth", gin.H{"id": id.String(), "password": "pw2"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
