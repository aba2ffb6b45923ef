package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProfile(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := &Credential{ID: uuid.New(), Profile: ProfileRef{Role: RoleTeacher, ID: id}}
	ref, err := ResolveProfile(c)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, ref.Role)
	assert.Equal(t, id, ref.ID)

	_, err = ResolveProfile(&Credential{Profile: ProfileRef{Role: RolePresenter}})
	assert.ErrorIs(t, err, ErrProfileMissing)

	_, err = ResolveProfile(&Credential{Profile: ProfileRef{Role: "admin", ID: id}})
	assert.ErrorIs(t, err, ErrProfileMissing)

	_, err = ResolveProfile(nil)
	assert.ErrorIs(t, err, ErrProfileMissing)
}

func TestProfileFromColumns(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	other := uuid.New()

	ref := ProfileFromColumns(RolePresenter, nil, &id, nil)
	assert.Equal(t, ProfileRef{Role: RolePresenter, ID: id}, ref)

	// A stray column for a different role makes the credential unresolvable.
	ref = ProfileFromColumns(RolePresenter, &other, &id, nil)
	_, err := ResolveProfile(&Credential{Profile: ref})
	assert.ErrorIs(t, err, ErrProfileMissing)

	ref = ProfileFromColumns(RoleAttendee, nil, nil, nil)
	_, err = ResolveProfile(&Credential{Profile: ref})
	assert.ErrorIs(t, err, ErrProfileMissing)
}

func TestLectureMediaState(t *testing.T) {
	t.Parallel()

	l := &Lecture{}
	assert.Equal(t, MediaNone, l.MediaState())

	l.ZoomID = "123"
	l.ZoomLink = "https://zoom.us/j/123"
	assert.Equal(t, MediaZoom, l.MediaState())
	assert.Empty(t, l.ToPublic(false).ZoomStartLink)

	var p LecturePatch
	p.SwitchToExternal("https://vimeo.com/1")
	require.NotNil(t, p.ZoomLink)
	require.NotNil(t, p.ZoomStartLink)
	assert.Empty(t, *p.ZoomLink)
	assert.Empty(t, *p.ZoomStartLink)
	assert.Equal(t, "https://vimeo.com/1", *p.VimeoLink)
}
