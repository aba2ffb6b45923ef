package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lecturely/backend/internal/apperr"
)

type memStore struct {
	objects map[string][]byte
	types   map[string]string
	fail    error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) ImagesBucket() string { return "images-bucket" }

func (m *memStore) Upload(_ context.Context, bucket, key, contentType string, body io.Reader, _ int64, _ bool) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = b
	m.types[key] = contentType
	return "https://" + bucket + ".test/" + key, nil
}

func (m *memStore) DeleteObject(_ context.Context, _, key string) error {
	delete(m.objects, key)
	return nil
}

func TestStore(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	u := NewUploader(store, nil)

	img, err := u.Store(context.Background(), bytes.NewReader([]byte("png")), 3, "Avatar.PNG", "course-1")
	require.NoError(t, err)
	assert.Regexp(t, `^images/course-1-[0-9a-f-]{36}\.png$`, img.Key)
	assert.Equal(t, "https://images-bucket.test/"+img.Key, img.Link)
	assert.Equal(t, "image/png", store.types[img.Key])

	again, err := u.Store(context.Background(), bytes.NewReader([]byte("png2")), 4, "a.png", "course-1")
	require.NoError(t, err)
	assert.NotEqual(t, img.Key, again.Key)
	assert.Len(t, store.objects, 2)

	u.Discard(context.Background(), again)
	assert.Equal(t, map[string][]byte{img.Key: []byte("png")}, store.objects)

	_, err = u.Store(context.Background(), bytes.NewReader(nil), 0, "evil.exe", "course-1")
	assert.EqualError(t, err, "Only image files are allowed.")

	store.fail = errors.New("s3 down")
	_, err = u.Store(context.Background(), bytes.NewReader(nil), 0, "a.jpg", "course-1")
	var de *apperr.DependencyError
	assert.ErrorAs(t, err, &de)
}

type fakeTarget struct {
	allowed bool
	fail    error
	link    string
}

func (f *fakeTarget) AuthorizeImage(context.Context, uuid.UUID, string) error {
	if !f.allowed {
		return apperr.Auth("Invalid user id")
	}
	return nil
}

func (f *fakeTarget) SetImage(_ context.Context, _ uuid.UUID, id, link string) (interface{}, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	f.link = link
	return map[string]string{"id": id, "imageLink": link}, nil
}

func multipartRequest(t *testing.T, path, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, _ = part.Write([]byte("image-bytes"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	target := &fakeTarget{allowed: true}
	h := NewHandler(NewUploader(store, nil), 1<<20)

	r := gin.New()
	r.POST("/course/:id/image", h.Upload("course", target))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/course/abc/image", "cover.jpg"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.objects, 1)
	var current string
	for key, body := range store.objects {
		current = key
		assert.Equal(t, []byte("image-bytes"), body)
	}
	assert.Regexp(t, `^images/course-abc-.+\.jpg$`, current)
	assert.Equal(t, "https://images-bucket.test/"+current, target.link)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/course/abc/image", "notes.pdf"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Only image files are allowed."}`, w.Body.String())

	target.allowed = false
	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/course/abc/image", "cover.jpg"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Len(t, store.objects, 1, "nothing is stored for an unauthorized caller")

	target.allowed = true
	target.fail = apperr.NotFound("Invalid course Id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/course/abc/image", "cover.jpg"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.Len(t, store.objects, 1, "the rejected upload is removed")
	assert.Contains(t, store.objects, current, "the linked image survives a failed replacement")
	assert.Equal(t, "https://images-bucket.test/"+current, target.link)
}
