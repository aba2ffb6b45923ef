package courses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/pkg/sanitize"
)

// DefaultSearchLimit caps search results when the query sets no limit.
const DefaultSearchLimit = 100

// Repository handles course persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a courses repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const courseSelect = `SELECT c.id, c.name, c.description, c.image_link, c.presenter_id, p.name,
	c.status, c.updated_by, c.created_at, c.updated_at
	FROM courses c
	JOIN presenters p ON p.id = c.presenter_id`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageLink, &c.Presenter.ID, &c.Presenter.Name,
		&c.Active, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) list(ctx context.Context, q string, args ...interface{}) ([]models.Course, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	var list []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *c)
	}
	return list, rows.Err()
}

// Create inserts a course and returns it with its presenter name.
func (r *Repository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	const q = `INSERT INTO courses (presenter_id, name, description, image_link, updated_by)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, q, c.Presenter.ID, c.Name, c.Description, c.ImageLink, c.UpdatedBy).Scan(&id); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a course by ID regardless of status.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
}

// Update applies the non-nil fields of patch and records who changed it.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.CoursePatch, updatedBy uuid.UUID) (*models.Course, error) {
	const q = `UPDATE courses SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		image_link = COALESCE($4, image_link),
		updated_by = $5,
		updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, patch.Name, patch.Description, patch.ImageLink, updatedBy)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Deactivate soft-deletes a course.
func (r *Repository) Deactivate(ctx context.Context, id, updatedBy uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE courses SET status = FALSE, updated_by = $2, updated_at = NOW() WHERE id = $1`, id, updatedBy)
	if err != nil {
		return fmt.Errorf("deactivate course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByPresenter returns a presenter's active courses, newest first.
func (r *Repository) ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Course, error) {
	return r.list(ctx, courseSelect+` WHERE c.presenter_id = $1 AND c.status ORDER BY c.created_at DESC`, presenterID)
}

// ListByTeacher returns the active courses holding at least one active
// lecture taught by teacherID.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error) {
	return r.list(ctx, courseSelect+` WHERE c.status AND c.id IN (
		SELECT l.course_id FROM lectures l WHERE l.teacher_id = $1 AND l.status
	) ORDER BY c.name`, teacherID)
}

// Search matches active courses of active presenters by case-insensitive
// name substring.
func (r *Repository) Search(ctx context.Context, query models.CourseQuery) ([]models.Course, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return r.list(ctx, courseSelect+` WHERE c.status AND p.status
		AND ($1::uuid IS NULL OR c.presenter_id = $1)
		AND ($2 = '' OR c.name ILIKE '%' || $2 || '%' ESCAPE '\')
		ORDER BY c.updated_at DESC
		LIMIT $3`, query.PresenterID, sanitize.LikePattern(query.Name), limit)
}
