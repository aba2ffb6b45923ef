package lectures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
)

// Repository handles lecture persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a lectures repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const lectureSelect = `SELECT l.id, l.name, l.description, l.starts_at,
	l.course_id, c.name, l.teacher_id, t.name, l.presenter_id, p.name,
	l.zoom_id, l.zoom_link, l.zoom_start_link, l.zoom_payload, l.vimeo_link, l.image_link,
	l.status, l.created_at, l.updated_at
	FROM lectures l
	JOIN courses c ON c.id = l.course_id
	JOIN teachers t ON t.id = l.teacher_id
	JOIN presenters p ON p.id = l.presenter_id`

func scanLecture(row pgx.Row) (*models.Lecture, error) {
	var (
		l       models.Lecture
		payload []byte
	)
	err := row.Scan(&l.ID, &l.Name, &l.Description, &l.Time,
		&l.Course.ID, &l.Course.Name, &l.Teacher.ID, &l.Teacher.Name, &l.Presenter.ID, &l.Presenter.Name,
		&l.ZoomID, &l.ZoomLink, &l.ZoomStartLink, &payload, &l.VimeoLink, &l.ImageLink,
		&l.Active, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		l.ZoomPayload = json.RawMessage(payload)
	}
	return &l, nil
}

// jsonParam maps an empty payload to SQL NULL.
func jsonParam(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *Repository) list(ctx context.Context, where string, arg uuid.UUID) ([]models.Lecture, error) {
	rows, err := r.pool.Query(ctx, lectureSelect+` WHERE `+where+` AND l.status ORDER BY l.starts_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	defer rows.Close()
	var list []models.Lecture
	for rows.Next() {
		l, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *l)
	}
	return list, rows.Err()
}

// Create inserts a lecture and returns it with its course, teacher and
// presenter names.
func (r *Repository) Create(ctx context.Context, l *models.Lecture) (*models.Lecture, error) {
	const q = `INSERT INTO lectures (name, description, starts_at, course_id, teacher_id, presenter_id,
		zoom_id, zoom_link, zoom_start_link, zoom_payload, image_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
		RETURNING id`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, q, l.Name, l.Description, l.Time, l.Course.ID, l.Teacher.ID, l.Presenter.ID,
		l.ZoomID, l.ZoomLink, l.ZoomStartLink, jsonParam(l.ZoomPayload), l.ImageLink).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}
	return r.GetByID(ctx, id)
}

// GetByID returns a lecture by ID regardless of status.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lecture, error) {
	return scanLecture(r.pool.QueryRow(ctx, lectureSelect+` WHERE l.id = $1`, id))
}

// Update applies the non-nil fields of patch.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch models.LecturePatch) (*models.Lecture, error) {
	const q = `UPDATE lectures SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		starts_at = COALESCE($4, starts_at),
		teacher_id = COALESCE($5, teacher_id),
		image_link = COALESCE($6, image_link),
		vimeo_link = COALESCE($7, vimeo_link),
		zoom_link = COALESCE($8, zoom_link),
		zoom_start_link = COALESCE($9, zoom_start_link),
		zoom_payload = COALESCE($10::jsonb, zoom_payload),
		updated_at = NOW()
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, patch.Name, patch.Description, patch.Time, patch.TeacherID,
		patch.ImageLink, patch.VimeoLink, patch.ZoomLink, patch.ZoomStartLink, jsonParam(patch.ZoomPayload))
	if err != nil {
		return nil, fmt.Errorf("update lecture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Deactivate soft-deletes a lecture.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE lectures SET status = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate lecture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListByCourse returns a course's active lectures, latest first.
func (r *Repository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lecture, error) {
	return r.list(ctx, `l.course_id = $1`, courseID)
}

// ListByTeacher returns a teacher's active lectures, latest first.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lecture, error) {
	return r.list(ctx, `l.teacher_id = $1`, teacherID)
}

// ListByPresenter returns a presenter's active lectures, latest first.
func (r *Repository) ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Lecture, error) {
	return r.list(ctx, `l.presenter_id = $1`, presenterID)
}
