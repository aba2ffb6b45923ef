package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lecturely/backend/internal/models"
)

const uniqueViolation = "23505"

// Repository handles credential persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const credentialColumns = `id, email, password_hash, role, attendee_id, presenter_id, teacher_id, created_at, updated_at`

func scanCredential(row pgx.Row) (*models.Credential, error) {
	var (
		c                      models.Credential
		role                   string
		attendee, presenter, t *uuid.UUID
	)
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &role, &attendee, &presenter, &t, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	c.Profile = models.ProfileFromColumns(models.Role(role), attendee, presenter, t)
	return &c, nil
}

// GetByID returns a credential by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials WHERE id = $1`
	return scanCredential(r.pool.QueryRow(ctx, q, id))
}

// GetByEmail returns a credential by exact email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	q := `SELECT ` + credentialColumns + ` FROM credentials WHERE email = $1`
	return scanCredential(r.pool.QueryRow(ctx, q, email))
}

// EmailExists reports whether a credential uses email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM credentials WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// CreateParams holds the fields of a new credential and its profile.
type CreateParams struct {
	Email        string
	PasswordHash string
	Role         models.Role
	PresenterID  uuid.UUID // owning presenter, teachers only
}

// Create inserts the credential, its empty role profile and the back-reference
// in one transaction.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*models.Credential, error) {
	var cred *models.Credential
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var credID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO credentials (email, password_hash, role) VALUES ($1, $2, $3) RETURNING id`,
			p.Email, p.PasswordHash, string(p.Role)).Scan(&credID)
		if err != nil {
			return err
		}

		var profileID uuid.UUID
		var column string
		switch p.Role {
		case models.RoleAttendee:
			column = "attendee_id"
			err = tx.QueryRow(ctx, `INSERT INTO attendees (credential_id) VALUES ($1) RETURNING id`, credID).Scan(&profileID)
		case models.RolePresenter:
			column = "presenter_id"
			err = tx.QueryRow(ctx, `INSERT INTO presenters (credential_id) VALUES ($1) RETURNING id`, credID).Scan(&profileID)
		case models.RoleTeacher:
			column = "teacher_id"
			err = tx.QueryRow(ctx, `INSERT INTO teachers (credential_id, presenter_id) VALUES ($1, $2) RETURNING id`,
				credID, p.PresenterID).Scan(&profileID)
		default:
			return fmt.Errorf("unknown role %q", p.Role)
		}
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}

		q := `UPDATE credentials SET ` + column + ` = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + credentialColumns
		cred, err = scanCredential(tx.QueryRow(ctx, q, credID, profileID))
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "credentials_email_key" {
			return nil, models.ErrEmailTaken
		}
		return nil, fmt.Errorf("create credential: %w", err)
	}
	return cred, nil
}

// UpdatePassword replaces the password hash of a credential.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE credentials SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
