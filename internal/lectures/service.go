package lectures

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lecturely/backend/internal/access"
	"github.com/lecturely/backend/internal/apperr"
	"github.com/lecturely/backend/internal/meetings"
	"github.com/lecturely/backend/internal/models"
	"github.com/lecturely/backend/internal/validate"
	"github.com/lecturely/backend/pkg/queue"
	"github.com/lecturely/backend/pkg/sanitize"
)

// DefaultDuration is the meeting length in minutes when none is given.
const DefaultDuration = 60

// Store persists lectures. Implemented by Repository.
type Store interface {
	Create(ctx context.Context, l *models.Lecture) (*models.Lecture, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lecture, error)
	Update(ctx context.Context, id uuid.UUID, patch models.LecturePatch) (*models.Lecture, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Lecture, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Lecture, error)
	ListByPresenter(ctx context.Context, presenterID uuid.UUID) ([]models.Lecture, error)
}

// CourseFinder loads courses regardless of status.
type CourseFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

// TeacherFinder loads teachers regardless of status.
type TeacherFinder interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Teacher, error)
}

// ProfileChecker resolves the id of an active course, teacher or presenter.
type ProfileChecker interface {
	Active(ctx context.Context, id string) (uuid.UUID, error)
}

// CleanupQueue takes remote meetings whose deletion failed.
type CleanupQueue interface {
	EnqueueMeetingDelete(ctx context.Context, payload queue.MeetingDeletePayload) error
}

// HistoryRecorder records an attendee opening a lecture.
type HistoryRecorder interface {
	RecordView(ctx context.Context, attendeeID, lectureID uuid.UUID) error
}

// Deps are the collaborators of Service. Cleanup and History may be nil.
type Deps struct {
	Store     Store
	Courses   CourseFinder
	Teachers  TeacherFinder
	Access    *access.Resolver
	Meetings  meetings.Provider
	Cleanup   CleanupQueue
	History   HistoryRecorder
	Sanitizer *sanitize.Sanitizer
	Logger    *zap.Logger
	Active    ActiveCheckers
}

// ActiveCheckers guard the listing endpoints.
type ActiveCheckers struct {
	Courses    ProfileChecker
	Teachers   ProfileChecker
	Presenters ProfileChecker
}

// CreateInput is the body of POST /lecture.
type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Time        string `json:"time"`
	Timezone    string `json:"timezone"`
	Duration    int    `json:"duration"`
	CourseID    string `json:"courseId"`
	TeacherID   string `json:"teacherId"`
	ImageLink   string `json:"imageLink"`
}

// UpdateInput is the body of PUT /lecture.
type UpdateInput struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Time        *string `json:"time"`
	Timezone    *string `json:"timezone"`
	Duration    *int    `json:"duration"`
	TeacherID   *string `json:"teacherId"`
	ImageLink   *string `json:"imageLink"`
	VimeoLink   *string `json:"vimeoLink"`
}

// DeleteInput is the body of DELETE /lecture.
type DeleteInput struct {
	ID string `json:"id"`
}

// Service implements lecture flows and their meeting side effects.
type Service struct {
	store     Store
	courses   CourseFinder
	teachers  TeacherFinder
	access    *access.Resolver
	meetings  meetings.Provider
	cleanup   CleanupQueue
	history   HistoryRecorder
	active    ActiveCheckers
	sanitizer *sanitize.Sanitizer
	logger    *zap.Logger
}

// NewService creates a lectures service.
func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Sanitizer == nil {
		d.Sanitizer = sanitize.New()
	}
	return &Service{
		store:     d.Store,
		courses:   d.Courses,
		teachers:  d.Teachers,
		access:    d.Access,
		meetings:  d.Meetings,
		cleanup:   d.Cleanup,
		history:   d.History,
		active:    d.Active,
		sanitizer: d.Sanitizer,
		logger:    d.Logger,
	}
}

func (s *Service) providerError(op string, err error) error {
	if errors.Is(err, meetings.ErrNotConfigured) {
		return apperr.Validation("Zoom credentials are not set")
	}
	s.logger.Error("meeting provider call failed", zap.String("op", op), zap.Error(err))
	return apperr.Dependency("Meeting provider error", err)
}

// Create schedules a meeting with the presenter's provider account and stores
// the lecture with its links.
func (s *Service) Create(ctx context.Context, credentialID uuid.UUID, in CreateInput) (*models.LecturePublic, error) {
	err := validate.First(
		validate.Check(in.Name, validate.Required("Lecture name is required")),
		validate.Check(in.TeacherID, validate.RequiredID("Teacher Id is required")...),
		validate.Check(in.CourseID, validate.RequiredID("Course Id is required")...),
		validate.Check(in.Time, validate.Required("Date is required"), validate.Timestamp("Date is required")),
		validate.Check(in.Duration, validation.Min(1).Error("Invalid duration")),
	)
	if err != nil {
		return nil, err
	}
	name := s.sanitizer.Text(in.Name)
	if name == "" {
		return nil, apperr.Validation("Lecture name is required")
	}
	startsAt, _ := time.Parse(time.RFC3339, strings.TrimSpace(in.Time))
	teacherID, _ := uuid.Parse(in.TeacherID)
	courseID, _ := uuid.Parse(in.CourseID)
	duration := in.Duration
	if duration == 0 {
		duration = DefaultDuration
	}

	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	presenter, err := access.RequirePresenter(caller)
	if err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !course.Active) {
		return nil, apperr.NotFound("Invalid course Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !teacher.Active) {
		return nil, apperr.NotFound("Invalid teacher Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	if err := access.CanCreateLecture(caller, course, teacher); err != nil {
		return nil, err
	}

	meeting, err := s.meetings.CreateMeeting(ctx, meetings.MeetingRequest{
		Topic:     name,
		StartTime: startsAt,
		Timezone:  strings.TrimSpace(in.Timezone),
		Duration:  duration,
	}, meetings.CredentialsFor(presenter))
	if err != nil {
		return nil, s.providerError("create", err)
	}

	l, err := s.store.Create(ctx, &models.Lecture{
		Name:          name,
		Description:   s.sanitizer.Text(in.Description),
		Time:          startsAt,
		Course:        course.Ref(),
		Teacher:       teacher.Ref(),
		Presenter:     presenter.Ref(),
		ZoomID:        meeting.ID,
		ZoomLink:      meeting.JoinURL,
		ZoomStartLink: meeting.StartURL,
		ZoomPayload:   meeting.Raw,
		ImageLink:     strings.TrimSpace(in.ImageLink),
	})
	if err != nil {
		s.logger.Error("lecture insert failed after meeting was created",
			zap.String("meeting_id", meeting.ID), zap.Error(err))
		s.enqueueCleanup(ctx, uuid.Nil, presenter.ID, meeting.ID)
		return nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("lecture created", zap.String("lecture_id", l.ID.String()), zap.String("meeting_id", meeting.ID))
	out := l.ToPublic(true)
	return &out, nil
}

// Get returns an active lecture. An authenticated attendee gets a history
// entry; the owning presenter and the assigned teacher also see the host link.
func (s *Service) Get(ctx context.Context, credentialID uuid.UUID, id string) (*models.LecturePublic, error) {
	lectureID, err := validate.ParseID(id, "Lecture Id is required")
	if err != nil {
		return nil, err
	}
	l, err := s.store.GetByID(ctx, lectureID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !l.Active) {
		return nil, apperr.NotFound("Invalid lecture Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}

	host := false
	if credentialID != uuid.Nil {
		caller, err := s.access.Caller(ctx, credentialID)
		if err != nil {
			s.logger.Warn("lecture read with unresolvable caller", zap.String("credential_id", credentialID.String()), zap.Error(err))
		} else {
			host = caller.IsPresenter(l.Presenter.ID) || caller.IsTeacher(l.Teacher.ID)
			if caller.Role() == models.RoleAttendee && s.history != nil {
				if err := s.history.RecordView(ctx, caller.Profile.ID, l.ID); err != nil {
					s.logger.Warn("record lecture view", zap.String("lecture_id", l.ID.String()), zap.Error(err))
				}
			}
		}
	}
	out := l.ToPublic(host)
	return &out, nil
}

// ListByCourse returns the active lectures of an active course.
func (s *Service) ListByCourse(ctx context.Context, courseID string) ([]models.LecturePublic, error) {
	id, err := s.active.Courses.Active(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return shape(s.store.ListByCourse(ctx, id))
}

// ListByTeacher returns the active lectures of an active teacher.
func (s *Service) ListByTeacher(ctx context.Context, teacherID string) ([]models.LecturePublic, error) {
	id, err := s.active.Teachers.Active(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return shape(s.store.ListByTeacher(ctx, id))
}

// ListByPresenter returns the active lectures of an active presenter.
func (s *Service) ListByPresenter(ctx context.Context, presenterID string) ([]models.LecturePublic, error) {
	id, err := s.active.Presenters.Active(ctx, presenterID)
	if err != nil {
		return nil, err
	}
	return shape(s.store.ListByPresenter(ctx, id))
}

func shape(list []models.Lecture, err error) ([]models.LecturePublic, error) {
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := make([]models.LecturePublic, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToPublic(false))
	}
	return out, nil
}

// lookup loads a lecture of any status for mutation.
func (s *Service) lookup(ctx context.Context, id uuid.UUID) (*models.Lecture, error) {
	l, err := s.store.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("Invalid lecture Id")
	}
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	return l, nil
}

// editable resolves the caller and checks it may update lecture id.
func (s *Service) editable(ctx context.Context, credentialID, id uuid.UUID) (*access.Caller, *models.Lecture, error) {
	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return nil, nil, err
	}
	l, err := s.lookup(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := access.CanUpdateLecture(caller, l); err != nil {
		return nil, nil, err
	}
	if !l.Active {
		return nil, nil, apperr.NotFound("Invalid lecture Id")
	}
	return caller, l, nil
}

// Update changes a lecture. Allowed for the owning presenter and the assigned
// teacher. Setting a video link clears the meeting links; otherwise a change
// of name, time, timezone or duration is pushed to the remote meeting.
func (s *Service) Update(ctx context.Context, credentialID uuid.UUID, in UpdateInput) (*models.LecturePublic, error) {
	err := validate.First(
		validate.Check(in.ID, validate.RequiredID("Lecture Id is required")...),
		validate.Check(in.TeacherID, validate.ID("Teacher Id is required")),
		validate.Check(in.Time, validate.Timestamp("Invalid date")),
		validate.Check(in.Duration, validation.Min(1).Error("Invalid duration")),
	)
	if err != nil {
		return nil, err
	}
	id, _ := uuid.Parse(in.ID)
	startsAt, err := validate.ParseOptionalTime(in.Time, "Invalid date")
	if err != nil {
		return nil, err
	}
	teacherID, err := validate.ParseOptionalID(in.TeacherID, "Teacher Id is required")
	if err != nil {
		return nil, err
	}

	patch := models.LecturePatch{
		Name:        s.sanitizer.Ptr(in.Name),
		Description: s.sanitizer.Ptr(in.Description),
		Time:        startsAt,
		TeacherID:   teacherID,
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, apperr.Validation("Lecture name is required")
	}
	if in.ImageLink != nil {
		link := strings.TrimSpace(*in.ImageLink)
		patch.ImageLink = &link
	}
	var vimeoLink string
	if in.VimeoLink != nil && strings.TrimSpace(*in.VimeoLink) != "" {
		if vimeoLink = s.sanitizer.Link(*in.VimeoLink); vimeoLink == "" {
			return nil, apperr.Validation("Invalid Vimeo link")
		}
	}

	caller, l, err := s.editable(ctx, credentialID, id)
	if err != nil {
		return nil, err
	}

	if teacherID != nil && *teacherID != l.Teacher.ID {
		t, err := s.teachers.GetByID(ctx, *teacherID)
		if errors.Is(err, models.ErrNotFound) || (err == nil && !t.Active) {
			return nil, apperr.NotFound("Invalid teacher Id")
		}
		if err != nil {
			return nil, apperr.Dependency("Database error", err)
		}
		if t.Presenter.ID != l.Presenter.ID {
			return nil, access.ErrForbidden
		}
	}

	upd := meetings.MeetingUpdate{
		Topic:     patch.Name,
		StartTime: patch.Time,
		Timezone:  trimPtr(in.Timezone),
		Duration:  in.Duration,
	}
	switch {
	case vimeoLink != "":
		patch.SwitchToExternal(vimeoLink)
	case l.ZoomID != "" && l.MediaState() != models.MediaExternal && !upd.Empty():
		owner, err := s.access.MeetingOwner(ctx, caller)
		if err != nil {
			return nil, err
		}
		meeting, err := s.meetings.UpdateMeeting(ctx, l.ZoomID, upd, meetings.CredentialsFor(owner))
		if err != nil {
			return nil, s.providerError("update", err)
		}
		patch.ZoomLink = &meeting.JoinURL
		patch.ZoomStartLink = &meeting.StartURL
		patch.ZoomPayload = meeting.Raw
	}

	l, err = s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, apperr.Dependency("Database error", err)
	}
	out := l.ToPublic(true)
	return &out, nil
}

// Delete soft-deletes a lecture owned by the calling presenter, then removes
// its remote meeting. A failed remote delete is queued for retry and does not
// fail the request. Deleting an inactive lecture is a no-op.
func (s *Service) Delete(ctx context.Context, credentialID uuid.UUID, in DeleteInput) (uuid.UUID, error) {
	if err := validate.First(validate.Check(in.ID, validate.RequiredID("Lecture Id is required")...)); err != nil {
		return uuid.Nil, err
	}
	id, _ := uuid.Parse(in.ID)

	caller, err := s.access.Caller(ctx, credentialID)
	if err != nil {
		return uuid.Nil, err
	}
	l, err := s.lookup(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if err := access.CanDeleteLecture(caller, l); err != nil {
		return uuid.Nil, err
	}
	if !l.Active {
		return l.ID, nil
	}
	if err := s.store.Deactivate(ctx, l.ID); err != nil {
		return uuid.Nil, apperr.Dependency("Database error", err)
	}
	s.logger.Info("lecture deactivated", zap.String("lecture_id", l.ID.String()))

	if l.ZoomID != "" {
		if err := s.meetings.DeleteMeeting(ctx, l.ZoomID, meetings.CredentialsFor(caller.Presenter)); err != nil {
			s.logger.Warn("remote meeting delete failed",
				zap.String("lecture_id", l.ID.String()), zap.String("meeting_id", l.ZoomID), zap.Error(err))
			s.enqueueCleanup(ctx, l.ID, l.Presenter.ID, l.ZoomID)
		}
	}
	return l.ID, nil
}

func (s *Service) enqueueCleanup(ctx context.Context, lectureID, presenterID uuid.UUID, meetingID string) {
	if s.cleanup == nil {
		return
	}
	err := s.cleanup.EnqueueMeetingDelete(ctx, queue.MeetingDeletePayload{
		LectureID:   lectureID,
		PresenterID: presenterID,
		MeetingID:   meetingID,
	})
	if err != nil {
		s.logger.Error("enqueue meeting cleanup", zap.String("meeting_id", meetingID), zap.Error(err))
	}
}

// AuthorizeImage implements media.Target.
func (s *Service) AuthorizeImage(ctx context.Context, credentialID uuid.UUID, id string) error {
	lectureID, err := validate.ParseID(id, "Lecture Id is required")
	if err != nil {
		return err
	}
	_, _, err = s.editable(ctx, credentialID, lectureID)
	return err
}

// SetImage implements media.Target.
func (s *Service) SetImage(ctx context.Context, credentialID uuid.UUID, id, link string) (interface{}, error) {
	return s.Update(ctx, credentialID, UpdateInput{ID: id, ImageLink: &link})
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
