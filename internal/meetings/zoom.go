package meetings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// ZoomClient implements Provider against the Zoom REST API v2.
type ZoomClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

// NewZoomClient creates a Zoom client. baseURL is e.g. https://api.zoom.us/v2.
func NewZoomClient(baseURL string, timeout time.Duration, logger *zap.Logger) *ZoomClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoomClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

type zoomSettings struct {
	JoinBeforeHost bool `json:"join_before_host"`
	HostVideo      bool `json:"host_video"`
}

type zoomMeetingBody struct {
	Topic     string        `json:"topic,omitempty"`
	Type      int           `json:"type,omitempty"`
	StartTime string        `json:"start_time,omitempty"`
	Duration  int           `json:"duration,omitempty"`
	Timezone  string        `json:"timezone,omitempty"`
	Settings  *zoomSettings `json:"settings,omitempty"`
}

type zoomMeeting struct {
	ID       json.Number `json:"id"`
	JoinURL  string      `json:"join_url"`
	StartURL string      `json:"start_url"`
}

const zoomScheduled = 2

// CreateMeeting schedules a meeting for the credentials' host.
func (z *ZoomClient) CreateMeeting(ctx context.Context, req MeetingRequest, creds Credentials) (*Meeting, error) {
	host := creds.HostID
	if host == "" {
		host = "me"
	}
	body := zoomMeetingBody{
		Topic:     req.Topic,
		Type:      zoomScheduled,
		StartTime: req.StartTime.UTC().Format(time.RFC3339),
		Duration:  req.Duration,
		Timezone:  req.Timezone,
		Settings:  &zoomSettings{JoinBeforeHost: true, HostVideo: true},
	}
	raw, err := z.do(ctx, http.MethodPost, "/users/"+url.PathEscape(host)+"/meetings", body, creds)
	if err != nil {
		return nil, err
	}
	return decodeMeeting(raw)
}

// UpdateMeeting patches a meeting and returns its refreshed state.
func (z *ZoomClient) UpdateMeeting(ctx context.Context, id string, upd MeetingUpdate, creds Credentials) (*Meeting, error) {
	var body zoomMeetingBody
	if upd.Topic != nil {
		body.Topic = *upd.Topic
	}
	if upd.StartTime != nil {
		body.StartTime = upd.StartTime.UTC().Format(time.RFC3339)
	}
	if upd.Timezone != nil {
		body.Timezone = *upd.Timezone
	}
	if upd.Duration != nil {
		body.Duration = *upd.Duration
	}
	path := "/meetings/" + url.PathEscape(id)
	if _, err := z.do(ctx, http.MethodPatch, path, body, creds); err != nil {
		return nil, err
	}
	raw, err := z.do(ctx, http.MethodGet, path, nil, creds)
	if err != nil {
		return nil, err
	}
	return decodeMeeting(raw)
}

// DeleteMeeting removes a meeting. A meeting that no longer exists counts as deleted.
func (z *ZoomClient) DeleteMeeting(ctx context.Context, id string, creds Credentials) error {
	_, err := z.do(ctx, http.MethodDelete, "/meetings/"+url.PathEscape(id), nil, creds)
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Status == http.StatusNotFound {
		z.logger.Info("zoom meeting already gone", zap.String("meeting_id", id))
		return nil
	}
	return err
}

func (z *ZoomClient) do(ctx context.Context, method, path string, body interface{}, creds Credentials) ([]byte, error) {
	token, err := z.bearer(creds)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal zoom request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, z.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build zoom request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := z.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zoom %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read zoom response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		pe := &ProviderError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, pe)
		z.logger.Warn("zoom request failed",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("message", pe.Message))
		return nil, pe
	}
	return raw, nil
}

// bearer returns the OAuth access token, or signs a short-lived API-key JWT
// for accounts that only configured a key and secret.
func (z *ZoomClient) bearer(creds Credentials) (string, error) {
	if creds.AccessToken != "" {
		return creds.AccessToken, nil
	}
	if creds.APIKey == "" || creds.APISecret == "" {
		return "", ErrNotConfigured
	}
	claims := jwt.RegisteredClaims{
		Issuer:    creds.APIKey,
		ExpiresAt: jwt.NewNumericDate(z.now().Add(time.Minute)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(creds.APISecret))
}

func decodeMeeting(raw []byte) (*Meeting, error) {
	var m zoomMeeting
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode zoom meeting: %w", err)
	}
	id := m.ID.String()
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, fmt.Errorf("zoom meeting id %q: %w", id, err)
	}
	return &Meeting{ID: id, JoinURL: m.JoinURL, StartURL: m.StartURL, Raw: json.RawMessage(raw)}, nil
}
