package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/pkg/database/databasetest"
)

func TestRepositoryCreateLinksProfile(t *testing.T) {
	pool := databasetest.OpenTestPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	cred, err := repo.Create(ctx, CreateParams{Email: email, PasswordHash: "x", Role: models.RolePresenter})
	require.NoError(t, err)

	ref, err := models.ResolveProfile(cred)
	require.NoError(t, err)
	assert.Equal(t, models.RolePresenter, ref.Role)

	var back uuid.UUID
	require.NoError(t, pool.QueryRow(ctx, `SELECT credential_id FROM presenters WHERE id = $1`, ref.ID).Scan(&back))
	assert.Equal(t, cred.ID, back)

	_, err = repo.Create(ctx, CreateParams{Email: email, PasswordHash: "y", Role: models.RoleAttendee})
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	// a failed teacher insert leaves no orphan credential behind
	_, err = repo.Create(ctx, CreateParams{Email: "orphan-" + email, PasswordHash: "z", Role: models.RoleTeacher, PresenterID: uuid.New()})
	require.Error(t, err)
	exists, err := repo.EmailExists(ctx, "orphan-"+email)
	require.NoError(t, err)
	assert.False(t, exists)
}
