package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/auth"
)

func newRouter(tokens *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/required", JWT(tokens, nil), func(c *gin.Context) {
		id, _ := auth.CredentialID(c)
		c.JSON(http.StatusOK, gin.H{"credential": id})
	})
	r.GET("/optional", OptionalJWT(tokens, nil), func(c *gin.Context) {
		_, ok := auth.CredentialID(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})
	r.GET("/fails", JWT(tokens, nil), func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid course Id"})
	})
	r.DELETE("/empty", JWT(tokens, nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTReissuesOnSuccess(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	r := newRouter(tokens)
	id := uuid.New()
	token, err := tokens.Issue(id)
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/required", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	header := w.Header().Get("Authorization")
	require.True(t, strings.HasPrefix(header, "Bearer "))
	fresh := strings.TrimPrefix(header, "Bearer ")
	got, err := tokens.Verify(fresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	w = do(r, http.MethodDelete, "/empty", token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("Authorization"))
}

func TestJWTNoReissueOnError(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	r := newRouter(tokens)
	token, err := tokens.Issue(uuid.New())
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/fails", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Header().Get("Authorization"))
}

func TestJWTRejects(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	r := newRouter(tokens)
	other, err := auth.NewJWTService("other", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	for _, tc := range []struct {
		name, path, token string
	}{
		{"missing on required", "/required", ""},
		{"garbage", "/required", "garbage"},
		{"wrong secret", "/required", other},
		{"invalid on optional", "/optional", "garbage"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tc.path, tc.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"message":"Please log in"}`, w.Body.String())
			assert.Empty(t, w.Header().Get("Authorization"))
		})
	}
}

func TestOptionalJWTAnonymous(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	r := newRouter(tokens)

	w := do(r, http.MethodGet, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Authorization"))

	token, err := tokens.Issue(uuid.New())
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/optional", token)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("Authorization"))
}

func TestCORSExposesAuthorization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("http://app.test"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Authorization", w.Header().Get("Access-Control-Expose-Headers"))
}

func TestOptionalJWTRejectsExpiredToken(t *testing.T) {
	tokens := auth.NewJWTService("secret", time.Hour)
	r := newRouter(tokens)
	expired, err := auth.NewJWTService("secret", -time.Minute).Issue(uuid.New())
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/optional", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Please log in"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("Authorization"))
}
