package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("Email is required"), http.StatusBadRequest},
		{"auth", Auth("Invalid user id"), http.StatusUnauthorized},
		{"not found", NotFound("Invalid course Id"), http.StatusNotFound},
		{"conflict", Conflict("Email already exists"), http.StatusConflict},
		{"dependency", Dependency("Meeting provider error", errors.New("502")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("update: %w", Auth("Invalid user id")), http.StatusUnauthorized},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := Dependency("Database error", cause)

	assert.Equal(t, "Database error", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Email is required", PublicMessage(Validation("Email is required")))
}
