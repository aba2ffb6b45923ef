package vimeo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		if r.Header.Get("Authorization") != "bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error": "You must provide a valid authenticated access token."}`)
			return
		}
		assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
		_, _ = io.WriteString(w, `{"uri": "/users/42", "name": "School One"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)

	raw, err := c.Me(context.Background(), "good")
	require.NoError(t, err)
	assert.JSONEq(t, `{"uri": "/users/42", "name": "School One"}`, string(raw))

	_, err = c.Me(context.Background(), "bad")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
	assert.Contains(t, se.Message, "valid authenticated access token")
}
