package queue

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobCarriesPayload(t *testing.T) {
	t.Parallel()

	payload := MeetingDeletePayload{LectureID: uuid.New(), PresenterID: uuid.New(), MeetingID: "85746065432"}
	job, err := NewJob(JobTypeMeetingDelete, payload)
	require.NoError(t, err)

	assert.Equal(t, JobTypeMeetingDelete, job.Type)
	assert.Zero(t, job.Attempt)
	assert.NotEmpty(t, job.ID)

	var got MeetingDeletePayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, payload, got)
}
