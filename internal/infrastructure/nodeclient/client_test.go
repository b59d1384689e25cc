package nodeclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// newTestClient points the URL template at the test server, with the node
// name as the first path segment so handlers can assert on it.
func newTestClient(server *httptest.Server) *Client {
	cfg := &config.Config{NodeURLTemplate: server.URL + "/%s"}
	return New(cfg, zerolog.Nop())
}

func TestUploadStreamsMultipartPut(t *testing.T) {
	var gotMethod, gotPath, gotFilename, gotPartType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotFilename = header.Filename
		gotPartType = header.Header.Get("Content-Type")
		gotBody, err = io.ReadAll(file)
		require.NoError(t, err)
	}))
	defer server.Close()

	client := newTestClient(server)
	payload := "the quick brown fox"
	written, err := client.Upload(context.Background(), "s3worker", "photos", "notes/a.txt",
		strings.NewReader(payload), "a.txt", "text/plain")
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), written)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/s3worker/upload/photos/notes/a.txt", gotPath)
	assert.Equal(t, "a.txt", gotFilename)
	assert.Equal(t, "text/plain", gotPartType)
	assert.Equal(t, payload, string(gotBody))
}

func TestUploadRelaysNodeFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInsufficientStorage)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Upload(context.Background(), "s3worker", "photos", "a.txt",
		strings.NewReader("x"), "a.txt", "text/plain")
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, platformerrors.ErrorTypeUpstream, platformErr.Type)
	assert.Equal(t, http.StatusInsufficientStorage, platformErr.HTTPStatus())
	assert.Equal(t, "Failed to process file", platformErr.Message)
}

func TestGetStreamsBodyAndContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/s3node1/photos/a.jpg", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpegbytes"))
	}))
	defer server.Close()

	client := newTestClient(server)
	body, contentType, err := client.Get(context.Background(), "s3node1", "photos", "a.jpg")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))
	assert.Equal(t, "image/jpeg", contentType)
}

func TestGetRelaysNodeStatusOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, _, err := client.Get(context.Background(), "s3node1", "photos", "a.jpg")
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, http.StatusNotFound, platformErr.HTTPStatus())
}

func TestHeadReportsContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "2048")
	}))
	defer server.Close()

	client := newTestClient(server)
	size, err := client.Head(context.Background(), "s3node1", "photos", "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)
}

func TestDeletePaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
	}))
	defer server.Close()

	client := newTestClient(server)
	require.NoError(t, client.Delete(context.Background(), "s3node1", "photos", "a.jpg"))
	require.NoError(t, client.DeleteBucket(context.Background(), "s3node2", "photos"))

	assert.Equal(t, []string{"/s3node1/photos/a.jpg", "/s3node2/delete_bucket/photos"}, paths)
}

func TestUnreachableNodeIsInternalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server)
	err := client.Delete(context.Background(), "s3node1", "photos", "a.jpg")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeInternal))
}
