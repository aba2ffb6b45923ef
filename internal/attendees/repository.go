package attendees

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
)

// HistoryLimit caps the entries returned by History.
const HistoryLimit = 50

// Repository handles attendee_history.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an attendees repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordView inserts a row when an attendee opens a lecture.
func (r *Repository) RecordView(ctx context.Context, attendeeID, lectureID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attendee_history (attendee_id, lecture_id, viewed_at) VALUES ($1, $2, NOW())`,
		attendeeID, lectureID)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// History returns the most recent views of an attendee, skipping lectures
// that were deleted since.
func (r *Repository) History(ctx context.Context, attendeeID uuid.UUID, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = HistoryLimit
	}
	rows, err := r.pool.Query(ctx,
		`SELECT l.id, l.name, c.id, c.name, h.viewed_at
		 FROM attendee_history h
		 JOIN lectures l ON l.id = h.lecture_id AND l.status
		 JOIN courses c ON c.id = l.course_id
		 WHERE h.attendee_id = $1
		 ORDER BY h.viewed_at DESC
		 LIMIT $2`,
		attendeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var list []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.Lecture.ID, &e.Lecture.Name, &e.Course.ID, &e.Course.Name, &e.ViewedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
