package presenters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
)

// Repository handles presenter persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a presenters repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const presenterColumns = `id, credential_id, name, description, location, image_link,
	zoom_api_key, zoom_api_secret, zoom_host_id, zoom_access_token, vimeo_token,
	status, created_at, updated_at`

func scanPresenter(row pgx.Row) (*models.Presenter, error) {
	var p models.Presenter
	err := row.Scan(&p.ID, &p.CredentialID, &p.Name, &p.Description, &p.Location, &p.ImageLink,
		&p.Zoom.APIKey, &p.Zoom.APISecret, &p.Zoom.HostID, &p.Zoom.AccessToken, &p.VimeoToken,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns a presenter by ID regardless of status.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Presenter, error) {
	return scanPresenter(r.pool.QueryRow(ctx, `SELECT `+presenterColumns+` FROM presenters WHERE id = $1`, id))
}

// Update applies the non-nil fields of patch.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.PresenterPatch) (*models.Presenter, error) {
	const q = `UPDATE presenters SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		location = COALESCE($4, location),
		image_link = COALESCE($5, image_link),
		vimeo_token = COALESCE($6, vimeo_token),
		zoom_api_key = COALESCE($7, zoom_api_key),
		zoom_api_secret = COALESCE($8, zoom_api_secret),
		zoom_host_id = COALESCE($9, zoom_host_id),
		zoom_access_token = COALESCE($10, zoom_access_token),
		updated_at = NOW()
		WHERE id = $1
		RETURNING ` + presenterColumns
	return scanPresenter(r.pool.QueryRow(ctx, q, id,
		patch.Name, patch.Description, patch.Location, patch.ImageLink, patch.VimeoToken,
		patch.ZoomAPIKey, patch.ZoomAPISecret, patch.ZoomHostID, patch.ZoomAccessToken))
}
