package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
)

type fakeStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.Credential
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: map[string]*models.Credential{}}
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byEmail {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, p CreateParams) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[p.Email]; ok {
		return nil, models.ErrEmailTaken
	}
	c := &models.Credential{
		ID:           uuid.New(),
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Profile:      models.ProfileRef{Role: p.Role, ID: uuid.New()},
		CreatedAt:    time.Now(),
	}
	f.byEmail[p.Email] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.byEmail {
		if c.ID == id {
			c.PasswordHash = hash
			return nil
		}
	}
	return models.ErrNotFound
}

type fakePresenters map[uuid.UUID]*models.Presenter

func (f fakePresenters) GetByID(_ context.Context, id uuid.UUID) (*models.Presenter, error) {
	p, ok := f[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

func newTestService(presenters fakePresenters) (*Service, *fakeStore, *JWTService) {
	store := newFakeStore()
	tokens := NewJWTService("test-secret", time.Hour)
	return NewService(store, presenters, tokens, nil), store, tokens
}

func TestRegisterEachRole(t *testing.T) {
	t.Parallel()

	presenterID := uuid.New()
	svc, _, tokens := newTestService(fakePresenters{presenterID: {ID: presenterID, Active: true}})

	for _, role := range models.Roles {
		in := RegisterInput{Email: string(role) + "@example.com", Password: "pw", UserType: string(role)}
		if role == models.RoleTeacher {
			in.Presenter = presenterID.String()
		}
		sess, err := svc.Register(context.Background(), in)
		require.NoError(t, err, role)

		assert.Equal(t, role, sess.Credential.Role())
		body := sess.Body()
		assert.NotEqual(t, uuid.Nil, body[string(role)])
		assert.Equal(t, body["id"], body[string(role)])
		assert.Equal(t, role, body["userType"])

		credID, err := tokens.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, sess.Credential.ID, credID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "pw", UserType: "attendee"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "other", UserType: "presenter"})
	var ce *apperr.ConflictError
	require.ErrorAs(t, err, &ce)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)
	tests := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"missing everything", RegisterInput{}, "Email is required"},
		{"bad email", RegisterInput{Email: "nope", Password: "pw", UserType: "attendee"}, "Invalid email"},
		{"missing password", RegisterInput{Email: "a@example.com", UserType: "attendee"}, "Password is required"},
		{"unknown role", RegisterInput{Email: "a@example.com", Password: "pw", UserType: "admin"}, "Invalid user type"},
		{"teacher without presenter", RegisterInput{Email: "a@example.com", Password: "pw", UserType: "teacher"}, "Presenter Id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.want, ve.Message)
		})
	}
}

func TestRegisterTeacherUnknownPresenter(t *testing.T) {
	t.Parallel()

	inactive := uuid.New()
	svc, _, _ := newTestService(fakePresenters{inactive: {ID: inactive, Active: false}})

	for _, id := range []uuid.UUID{uuid.New(), inactive} {
		_, err := svc.Register(context.Background(), RegisterInput{
			Email: id.String() + "@example.com", Password: "pw", UserType: "teacher", Presenter: id.String(),
		})
		var nf *apperr.NotFoundError
		require.ErrorAs(t, err, &nf)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterInput{Email: "p@example.com", Password: "right", UserType: "presenter"})
	require.NoError(t, err)

	sess, err := svc.Authenticate(ctx, LoginInput{Email: "p@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, reg.Profile.ID, sess.Body()["presenter"])

	_, err = svc.Authenticate(ctx, LoginInput{Email: "x@example.com", Password: "right"})
	assert.EqualError(t, err, "Invalid email")

	_, err = svc.Authenticate(ctx, LoginInput{Email: "p@example.com", Password: "wrong"})
	assert.EqualError(t, err, "Invalid password")
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)
	ctx := context.Background()
	a, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "old", UserType: "attendee"})
	require.NoError(t, err)
	b, err := svc.Register(ctx, RegisterInput{Email: "b@example.com", Password: "old", UserType: "attendee"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, a.Credential.ID, ChangePasswordInput{ID: b.Profile.ID.String(), Password: "new"})
	var ae *apperr.AuthError
	require.ErrorAs(t, err, &ae)

	err = svc.ChangePassword(ctx, a.Credential.ID, ChangePasswordInput{ID: a.Profile.ID.String(), Password: "new"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, LoginInput{Email: "a@example.com", Password: "old"})
	assert.EqualError(t, err, "Invalid password")
	_, err = svc.Authenticate(ctx, LoginInput{Email: "a@example.com", Password: "new"})
	assert.NoError(t, err)
}

func TestCheckEmailExists(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "pw", UserType: "attendee"})
	require.NoError(t, err)

	exists, err := svc.CheckEmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CheckEmailExists(ctx, "A@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "email match is exact")

	_, err = svc.CheckEmailExists(ctx, " ")
	assert.EqualError(t, err, "Email is required")
}
