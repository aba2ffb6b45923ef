package teachers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
)

// Repository handles teacher persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a teachers repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const teacherSelect = `SELECT t.id, t.credential_id, c.email, t.presenter_id, p.name,
	t.name, t.description, t.image_link, t.status, t.created_at, t.updated_at
	FROM teachers t
	JOIN presenters p ON p.id = t.presenter_id
	JOIN credentials c ON c.id = t.credential_id`

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	err := row.Scan(&t.ID, &t.CredentialID, &t.Email, &t.Presenter.ID, &t.Presenter.Name,
		&t.Name, &t.Description, &t.ImageLink, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID returns a teacher by ID regardless of status.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error) {
	return scanTeacher(r.pool.QueryRow(ctx, teacherSelect+` WHERE t.id = $1`, id))
}

// ListByPresenter returns the active teachers of a presenter ordered by name.
func (r *Repository) ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Teacher, error) {
	rows, err := r.pool.Query(ctx, teacherSelect+` WHERE t.presenter_id = $1 AND t.status ORDER BY t.name, t.created_at`, presenterID)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()
	var list []models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Update applies the non-nil fields of patch.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.TeacherPatch) (*models.Teacher, error) {
	const q = `UPDATE teachers SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		image_link = COALESCE($4, image_link),
		updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, patch.Name, patch.Description, patch.ImageLink)
	if err != nil {
		return nil, fmt.Errorf("update teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Deactivate soft-deletes a teacher.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE teachers SET status = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
