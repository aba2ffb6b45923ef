package attendees

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/access/accesstest"
	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/models"
)

type memStore struct {
	views map[uuid.UUID][]models.HistoryEntry
}

func (m *memStore) RecordView(_ context.Context, attendeeID, lectureID uuid.UUID) error {
	entry := models.HistoryEntry{Lecture: models.Ref{ID: lectureID}, ViewedAt: time.Now()}
	m.views[attendeeID] = append([]models.HistoryEntry{entry}, m.views[attendeeID]...)
	return nil
}

func (m *memStore) History(_ context.Context, attendeeID uuid.UUID, limit int) ([]models.HistoryEntry, error) {
	list := m.views[attendeeID]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func TestHistorySelfOnly(t *testing.T) {
	t.Parallel()
	w := accesstest.NewWorld()
	svc := NewService(&memStore{views: map[uuid.UUID][]models.HistoryEntry{}}, w.Resolver, nil)
	ctx := context.Background()
	credA, attendeeID := w.AddAttendee()
	credB, _ := w.AddAttendee()
	credP, _ := w.AddPresenter("school")

	empty, err := svc.History(ctx, credA, attendeeID.String())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, second := uuid.New(), uuid.New()
	require.NoError(t, svc.RecordView(ctx, attendeeID, first))
	require.NoError(t, svc.RecordView(ctx, attendeeID, second))

	list, err := svc.History(ctx, credA, attendeeID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].Lecture.ID)

	for _, cred := range []uuid.UUID{credB, credP} {
		_, err = svc.History(ctx, cred, attendeeID.String())
		var ae *apperr.AuthError
		assert.ErrorAs(t, err, &ae)
	}

	_, err = svc.History(ctx, credA, "x")
	assert.EqualError(t, err, "Attendee Id is required")
}
