// Package worker drains the meeting cleanup queue.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/meetings"
	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/pkg/queue"
)

// DequeueTimeout bounds each blocking pop so Run notices cancellation.
const DequeueTimeout = 5 * time.Second

// JobSource is the queue the processor consumes. Implemented by queue.Queue.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// PresenterLoader loads the presenter whose account owns a meeting.
type PresenterLoader interface {
	Presenter(ctx context.Context, id uuid.UUID) (*models.Presenter, error)
}

// MeetingCleanupProcessor deletes remote meetings left behind by deleted lectures.
type MeetingCleanupProcessor struct {
	jobs       JobSource
	presenters PresenterLoader
	meetings   meetings.Provider
	backoff    time.Duration
	logger     *zap.Logger
}

// NewMeetingCleanupProcessor creates a meeting cleanup processor. A zero
// backoff uses queue.RetryBackoff.
func NewMeetingCleanupProcessor(jobs JobSource, presenters PresenterLoader, provider meetings.Provider, backoff time.Duration, logger *zap.Logger) *MeetingCleanupProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if backoff <= 0 {
		backoff = queue.RetryBackoff
	}
	return &MeetingCleanupProcessor{jobs: jobs, presenters: presenters, meetings: provider, backoff: backoff, logger: logger}
}

// Process executes one meeting cleanup job. Credentials are read at run time,
// so a presenter who fixes its provider account unblocks pending jobs.
func (p *MeetingCleanupProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeMeetingDelete {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.MeetingDeletePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if payload.MeetingID == "" {
		p.logger.Warn("meeting cleanup job without meeting id", zap.String("job_id", job.ID))
		return nil
	}

	presenter, err := p.presenters.Presenter(ctx, payload.PresenterID)
	if errors.Is(err, models.ErrNotFound) {
		p.logger.Warn("meeting cleanup for unknown presenter",
			zap.String("presenter_id", payload.PresenterID.String()), zap.String("meeting_id", payload.MeetingID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load presenter: %w", err)
	}

	if err := p.meetings.DeleteMeeting(ctx, payload.MeetingID, meetings.CredentialsFor(presenter)); err != nil {
		return fmt.Errorf("delete meeting %s: %w", payload.MeetingID, err)
	}
	p.logger.Info("remote meeting deleted",
		zap.String("meeting_id", payload.MeetingID), zap.String("lecture_id", payload.LectureID.String()))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *MeetingCleanupProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("meeting cleanup worker stopping")
			return
		default:
		}

		job, err := p.jobs.Dequeue(ctx, DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if reErr := p.jobs.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			p.sleep(ctx)
		}
	}
}

func (p *MeetingCleanupProcessor) sleep(ctx context.Context) {
	t := time.NewTimer(p.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
