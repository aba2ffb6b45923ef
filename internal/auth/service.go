package auth

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/internal/validate"
	"github.com/lecturely/backend/pkg/utils"
)

// CredentialStore persists credentials. Implemented by Repository.
type CredentialStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Credential, error)
	GetByEmail(ctx context.Context, email string) (*models.Credential, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, p CreateParams) (*models.Credential, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

// PresenterFinder looks up the presenter a teacher registers under.
type PresenterFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Presenter, error)
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserType  string `json:"userType"`
	Presenter string `json:"presenter"`
}

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordInput is the body of PUT /auth. ID is the caller's profile id.
type ChangePasswordInput struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// Session is an authenticated credential with its freshly issued token.
type Session struct {
	Credential *models.Credential
	Profile    models.ProfileRef
	Token      string
}

// Body returns the public response for s: the profile id, email, role and
// the profile id again under the role's own key.
func (s *Session) Body() map[string]interface{} {
	return map[string]interface{}{
		"id":                   s.Profile.ID,
		"email":                s.Credential.Email,
		"userType":             s.Profile.Role,
		string(s.Profile.Role): s.Profile.ID,
	}
}

// Service implements registration, login and password changes.
type Service struct {
	store      CredentialStore
	presenters PresenterFinder
	tokens     *JWTService
	logger     *zap.Logger
}

// NewService creates an auth service.
func NewService(store CredentialStore, presenters PresenterFinder, tokens *JWTService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, presenters: presenters, tokens: tokens, logger: logger}
}

var passwordLength = validation.By(func(v interface{}) error {
	if s, _ := v.(string); len(s) > utils.MaxPasswordBytes {
		return errors.New("Password is too long")
	}
	return nil
})

var roleNames = []interface{}{string(models.RoleAttendee), string(models.RolePresenter), string(models.RoleTeacher)}

// Register creates a credential and its empty role profile.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	err := validate.First(
		validate.Check(in.Email, validate.Required("Email is required"), is.Email.Error("Invalid email")),
		validate.Check(in.Password,
			validate.Required("Password is required"),
			passwordLength),
		validate.Check(in.UserType, validate.Required("User type is required"), validation.In(roleNames...).Error("Invalid user type")),
		validate.Check(in.Presenter,
			validation.When(in.UserType == string(models.RoleTeacher), validate.Required("Presenter Id is required")),
			validate.ID("Presenter Id is required")),
	)
	if err != nil {
		return nil, err
	}
	exists, err := s.store.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	if exists {
		return nil, apperr.Conflict("Email already exists")
	}

	params := CreateParams{Email: in.Email, Role: models.Role(in.UserType)}
	if params.Role == models.RoleTeacher {
		presenterID, _ := uuid.Parse(in.Presenter)
		p, err := s.presenters.GetByID(ctx, presenterID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && !p.Active) {
			return nil, apperr.NotFound("Invalid presenter Id")
		}
		if err != nil {
			return nil, apperr.Dependency("Database error", err)
		}
		params.PresenterID = p.ID
	}

	params.PasswordHash, err = utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Dependency("Could not hash password", err)
	}

	cred, err := s.store.Create(ctx, params)
	if errors.Is(err, models.ErrEmailTaken) {
		return nil, apperr.Conflict("Email already exists")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("credential registered", zap.String("credential_id", cred.ID.String()), zap.String("role", in.UserType))
	return s.session(cred)
}

// Authenticate checks email and password and issues a token.
func (s *Service) Authenticate(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	err := validate.First(
		validate.Check(in.Email, validate.Required("Email is required")),
		validate.Check(in.Password, validate.Required("Password is required")),
	)
	if err != nil {
		return nil, err
	}

	cred, err := s.store.GetByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.Auth("Invalid email")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	if !utils.CheckPassword(in.Password, cred.PasswordHash) {
		return nil, apperr.Auth("Invalid password")
	}
	return s.session(cred)
}

// CheckEmailExists reports whether email is already registered.
func (s *Service) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := validate.First(validate.Check(email, validate.Required("Email is required"))); err != nil {
		return false, err
	}
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return false, apperr.Dependency("Database error", err)
	}
	return exists, nil
}

// ChangePassword re-hashes the caller's password. in.ID must be the caller's
// own profile id.
func (s *Service) ChangePassword(ctx context.Context, credentialID uuid.UUID, in ChangePasswordInput) error {
	err := validate.First(
		validate.Check(in.ID, validate.RequiredID("User Id is required")...),
		validate.Check(in.Password,
			validate.Required("Password is required"),
			passwordLength),
	)
	if err != nil {
		return err
	}
	target, _ := uuid.Parse(in.ID)

	cred, err := s.store.GetByID(ctx, credentialID)
	if errors.Is(err, models.ErrNotFound) {
		return apperr.Auth("Please log in")
	}
	if err != nil {
		return apperr.Dependency("Database error", err)
	}
	ref, err := models.ResolveProfile(cred)
	if err != nil {
		return apperr.Dependency("Corrupted identity", err)
	}
	if ref.ID != target {
		return apperr.Auth("Invalid user id")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return apperr.Dependency("Could not hash password", err)
	}
	if err := s.store.UpdatePassword(ctx, cred.ID, hash); err != nil {
		return apperr.Dependency("Database error", err)
	}
	return nil
}

func (s *Service) session(cred *models.Credential) (*Session, error) {
	ref, err := models.ResolveProfile(cred)
	if err != nil {
		s.logger.Error("credential without profile", zap.String("credential_id", cred.ID.String()))
		return nil, apperr.Dependency("Corrupted identity", err)
	}
	token, err := s.tokens.Issue(cred.ID)
	if err != nil {
		return nil, apperr.Dependency("Could not issue token", err)
	}
	return &Session{Credential: cred, Profile: ref, Token: token}, nil
}
