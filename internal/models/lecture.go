package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MediaState describes which video source a lecture uses.
type MediaState string

const (
	MediaNone     MediaState = "none"
	MediaZoom     MediaState = "zoom"
	MediaExternal MediaState = "vimeo"
)

// Lecture is a scheduled session of a course, delivered by one teacher.
type Lecture struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Time          time.Time
	Course        Ref
	Teacher       Ref
	Presenter     Ref
	ZoomID        string
	ZoomLink      string
	ZoomStartLink string
	ZoomPayload   json.RawMessage
	VimeoLink     string
	ImageLink     string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MediaState returns the current media state of l.
func (l *Lecture) MediaState() MediaState {
	switch {
	case l.VimeoLink != "":
		return MediaExternal
	case l.ZoomLink != "":
		return MediaZoom
	}
	return MediaNone
}

// LecturePublic is the API shape of a lecture.
type LecturePublic struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Time          time.Time  `json:"time"`
	Course        Ref        `json:"course"`
	Teacher       Ref        `json:"teacher"`
	Presenter     Ref        `json:"presenter"`
	Media         MediaState `json:"media"`
	ZoomLink      string     `json:"zoomLink,omitempty"`
	ZoomStartLink string     `json:"zoomStartLink,omitempty"`
	VimeoLink     string     `json:"vimeoLink,omitempty"`
	ImageLink     string     `json:"imageLink"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToPublic converts Lecture to LecturePublic. The host start link is only
// included when host is true.
func (l *Lecture) ToPublic(host bool) LecturePublic {
	out := LecturePublic{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Time:        l.Time,
		Course:      l.Course,
		Teacher:     l.Teacher,
		Presenter:   l.Presenter,
		Media:       l.MediaState(),
		ZoomLink:    l.ZoomLink,
		VimeoLink:   l.VimeoLink,
		ImageLink:   l.ImageLink,
		UpdatedAt:   l.UpdatedAt,
	}
	if host {
		out.ZoomStartLink = l.ZoomStartLink
	}
	return out
}

// LecturePatch holds the optional fields of a lecture update. A nil field is
// left unchanged.
type LecturePatch struct {
	Name          *string
	Description   *string
	Time          *time.Time
	TeacherID     *uuid.UUID
	ImageLink     *string
	VimeoLink     *string
	ZoomLink      *string
	ZoomStartLink *string
	ZoomPayload   json.RawMessage
}

// SwitchToExternal sets the external video link and clears both meeting
// links. The meeting id is kept so the remote meeting can still be removed.
func (p *LecturePatch) SwitchToExternal(link string) {
	empty := ""
	p.VimeoLink = &link
	p.ZoomLink = &empty
	p.ZoomStartLink = &empty
}
