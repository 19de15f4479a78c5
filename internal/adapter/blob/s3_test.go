package blob_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restorehq/control-plane/internal/adapter/blob"
)

func newTestStore(t *testing.T, endpoint string) *blob.Store {
	t.Helper()
	store, err := blob.New(context.Background(), blob.Config{
		Bucket: "restore-images", Region: "us-east-1", Endpoint: endpoint,
		AccessKeyID: "test-key", SecretAccessKey: "test-secret",
		ForcePathStyle: true, UploadURLTTL: 10 * time.Minute, DownloadURLTTL: 15 * time.Minute,
	})
	require.NoError(t, err)
	return store
}

func TestStore_IssueUploadURL_Presigned(t *testing.T) {
	store := newTestStore(t, "https://blob.example.internal")

	url, objectName, expiresAt, err := store.IssueUploadURL(context.Background(), "owner-1", "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, objectName)
	assert.Contains(t, url, "restore-images")
	assert.Contains(t, url, "owner-1/"+objectName)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestStore_IssueDownloadURL_Presigned(t *testing.T) {
	store := newTestStore(t, "https://blob.example.internal")

	url, expiresAt, err := store.IssueDownloadURL(context.Background(), "owner-1", "job-1.restored.jpg", "restored.jpg")
	require.NoError(t, err)
	assert.Contains(t, url, "owner-1/job-1.restored.jpg")
	assert.True(t, expiresAt.After(time.Now()))
}

// fakeObjectStore emulates just enough of the S3 REST surface (PUT to
// store, GET to retrieve) for Upload/Download's round trip.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/")
		switch r.Method {
		case http.MethodPut:
			data, _ := io.ReadAll(r.Body)
			f.mu.Lock()
			f.objects[key] = data
			f.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			f.mu.Lock()
			data, ok := f.objects[key]
			f.mu.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write(data)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func TestStore_UploadThenDownload(t *testing.T) {
	fake := newFakeObjectStore()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	ctx := context.Background()

	err := store.Upload(ctx, "owner-1", "job-1.jpg", []byte("restored-bytes"), "image/jpeg")
	require.NoError(t, err)

	data, err := store.Download(ctx, "owner-1", "job-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("restored-bytes"), data)
}

func TestStore_Download_MissingObjectErrors(t *testing.T) {
	fake := newFakeObjectStore()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	_, err := store.Download(context.Background(), "owner-1", "missing.jpg")
	assert.Error(t, err)
}
