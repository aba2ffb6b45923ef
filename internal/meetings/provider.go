// Package meetings talks to the live-meeting provider that backs lectures.
package meetings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lecturely/backend/internal/models"
)

// Credentials identify the presenter account a meeting belongs to.
type Credentials struct {
	APIKey      string
	APISecret   string
	HostID      string
	AccessToken string
}

// CredentialsFor returns the provider credentials stored on a presenter.
func CredentialsFor(p *models.Presenter) Credentials {
	return Credentials{
		APIKey:      p.Zoom.APIKey,
		APISecret:   p.Zoom.APISecret,
		HostID:      p.Zoom.HostID,
		AccessToken: p.Zoom.AccessToken,
	}
}

// Configured reports whether c can authenticate against the provider.
func (c Credentials) Configured() bool {
	return c.AccessToken != "" || (c.APIKey != "" && c.APISecret != "")
}

// MeetingRequest describes a meeting to create.
type MeetingRequest struct {
	Topic     string
	StartTime time.Time
	Timezone  string
	Duration  int // minutes
}

// MeetingUpdate holds the fields of a meeting patch. Nil fields are unchanged.
type MeetingUpdate struct {
	Topic     *string
	StartTime *time.Time
	Timezone  *string
	Duration  *int
}

// Empty reports whether u changes nothing.
func (u MeetingUpdate) Empty() bool {
	return u.Topic == nil && u.StartTime == nil && u.Timezone == nil && u.Duration == nil
}

// Meeting is a scheduled provider meeting.
type Meeting struct {
	ID       string
	JoinURL  string
	StartURL string
	Raw      json.RawMessage
}

// Provider creates, patches and removes meetings.
type Provider interface {
	CreateMeeting(ctx context.Context, req MeetingRequest, creds Credentials) (*Meeting, error)
	UpdateMeeting(ctx context.Context, id string, upd MeetingUpdate, creds Credentials) (*Meeting, error)
	DeleteMeeting(ctx context.Context, id string, creds Credentials) error
}

// ErrNotConfigured is returned when the presenter has no provider credentials.
var ErrNotConfigured = errors.New("meeting provider credentials not configured")

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("meeting provider: status %d code %d: %s", e.Status, e.Code, e.Message)
}
