package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fileflux/fileflux-manager-webapp/internal/config"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/bucket"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/cluster"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/object"
	"github.com/fileflux/fileflux-manager-webapp/internal/domain/user"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/auth"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/metrics"
	"github.com/fileflux/fileflux-manager-webapp/internal/infrastructure/nodeclient"
	"github.com/fileflux/fileflux-manager-webapp/internal/interfaces/httpserver/handlers"
	"github.com/fileflux/fileflux-manager-webapp/internal/utils/platformerrors"
)

// In-memory repositories backing the full engine under test.

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*user.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[username]; exists {
		return 0, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeConflict, "username already taken", nil, "test")
	}
	r.nextID++
	r.users[username] = &user.User{ID: r.nextID, Username: username, PasswordHash: passwordHash}
	return r.nextID, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[username], nil
}

type memBucketRepo struct {
	mu     sync.Mutex
	owners map[string]int64
}

func newMemBucketRepo() *memBucketRepo {
	return &memBucketRepo{owners: map[string]int64{}}
}

func (r *memBucketRepo) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.owners[name]
	return ok, nil
}

func (r *memBucketRepo) Create(ctx context.Context, name string, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[name] = ownerID
	return nil
}

func (r *memBucketRepo) OwnedBy(ctx context.Context, name string, ownerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[name]
	return ok && owner == ownerID, nil
}

func (r *memBucketRepo) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, name)
	return nil
}

type memNodeRepo struct {
	nodes []cluster.Node
}

func (r *memNodeRepo) List(ctx context.Context) ([]cluster.Node, error) {
	return r.nodes, nil
}

type memObjectRepo struct {
	mu         sync.Mutex
	placements map[string]string
}

func newMemObjectRepo() *memObjectRepo {
	return &memObjectRepo{placements: map[string]string{}}
}

func (r *memObjectRepo) FindNode(ctx context.Context, bucketName, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placements[bucketName+"/"+key], nil
}

func (r *memObjectRepo) Record(ctx context.Context, obj *object.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placements[obj.Bucket+"/"+obj.Key] = obj.NodeName
	return nil
}

func (r *memObjectRepo) Delete(ctx context.Context, bucketName, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.placements, bucketName+"/"+key)
	return nil
}

// stubNode emulates the storage node network API for every node name, keeping
// blobs in memory and recording which nodes received bucket deletes.
type stubNode struct {
	mu            sync.Mutex
	blobs         map[string][]byte
	contentTypes  map[string]string
	bucketDeletes []string
}

func newStubNode() *stubNode {
	return &stubNode{blobs: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (n *stubNode) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
		if len(parts) != 2 {
			http.Error(w, "bad path", http.StatusBadRequest)
			return
		}
		node, rest := parts[0], parts[1]

		n.mu.Lock()
		defer n.mu.Unlock()

		switch {
		case r.Method == http.MethodPut && strings.HasPrefix(rest, "upload/"):
			file, header, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "missing file", http.StatusBadRequest)
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				http.Error(w, "read", http.StatusInternalServerError)
				return
			}
			objectPath := strings.TrimPrefix(rest, "upload/")
			n.blobs[objectPath] = data
			n.contentTypes[objectPath] = header.Header.Get("Content-Type")

		case r.Method == http.MethodDelete && strings.HasPrefix(rest, "delete_bucket/"):
			n.bucketDeletes = append(n.bucketDeletes, node)
			prefix := strings.TrimPrefix(rest, "delete_bucket/") + "/"
			for p := range n.blobs {
				if strings.HasPrefix(p, prefix) {
					delete(n.blobs, p)
				}
			}

		case r.Method == http.MethodGet || r.Method == http.MethodHead:
			data, ok := n.blobs[rest]
			if !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", n.contentTypes[rest])
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
			if r.Method == http.MethodGet {
				_, _ = w.Write(data)
			}

		case r.Method == http.MethodDelete:
			if _, ok := n.blobs[rest]; !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			delete(n.blobs, rest)

		default:
			http.Error(w, "unsupported", http.StatusMethodNotAllowed)
		}
	})
}

func newTestGateway(t *testing.T) (http.Handler, *stubNode) {
	t.Helper()

	node := newStubNode()
	nodeServer := httptest.NewServer(node.handler())
	t.Cleanup(nodeServer.Close)

	cfg := &config.Config{
		ServiceName:     "fileflux-manager",
		Environment:     "test",
		NodeURLTemplate: nodeServer.URL + "/%s",
		IngestNode:      "s3worker",
	}
	log := zerolog.Nop()

	users := user.NewService(newMemUserRepo(), log)
	bucketRepo := newMemBucketRepo()
	objects := newMemObjectRepo()
	client := nodeclient.New(cfg, log)
	buckets := bucket.NewService(bucketRepo,
		&memNodeRepo{nodes: []cluster.Node{{NodeName: "s3worker"}, {NodeName: "s3node1"}}},
		client, log)
	objectSvc := object.NewService(bucketRepo, objects,
		object.NewRouter(objects, cfg.IngestNode), client, log)

	validator := auth.NewValidator(users, log)
	provider := handlers.NewProvider(users, buckets, objectSvc, log)
	server := New(cfg, log, metrics.New(), validator, provider)
	return server.Engine(), node
}

func do(t *testing.T, h http.Handler, method, path, username, password string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartFile(t *testing.T, filename, contentType, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestGatewayEndToEnd(t *testing.T) {
	engine, node := newTestGateway(t)

	// Account creation, open endpoint.
	rec := do(t, engine, http.MethodPost, "/create_user", "", "",
		strings.NewReader(`{"username":"alice","password":"wonder"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Message string `json:"message"`
		UserID  int64  `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "User created successfully", created.Message)
	assert.NotZero(t, created.UserID)

	// A taken username conflicts.
	rec = do(t, engine, http.MethodPost, "/create_user", "", "",
		strings.NewReader(`{"username":"alice","password":"other"}`), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Credential checks.
	assert.Equal(t, http.StatusOK,
		do(t, engine, http.MethodGet, "/authenticate", "alice", "wonder", nil, "").Code)
	assert.Equal(t, http.StatusForbidden,
		do(t, engine, http.MethodGet, "/authenticate", "alice", "nope", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(t, engine, http.MethodGet, "/authenticate", "", "", nil, "").Code)

	// Bucket creation is idempotent from the client's point of view.
	rec = do(t, engine, http.MethodPost, "/create_bucket/photos", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "created successfully")

	rec = do(t, engine, http.MethodPost, "/create_bucket/photos", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	// Upload lands on the ingest node and the bytes round-trip.
	body, formType := multipartFile(t, "a.txt", "text/plain", "hello fileflux")
	rec = do(t, engine, http.MethodPut, "/upload/photos/a.txt", "alice", "wonder", body, formType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Upload successful", rec.Body.String())

	rec = do(t, engine, http.MethodGet, "/photos/a.txt", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello fileflux", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))

	rec = do(t, engine, http.MethodHead, "/photos/a.txt", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var head struct {
		Exists bool  `json:"exists"`
		Size   int64 `json:"size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &head))
	assert.True(t, head.Exists)
	assert.Equal(t, int64(len("hello fileflux")), head.Size)

	// Another account cannot touch alice's bucket.
	rec = do(t, engine, http.MethodPost, "/create_user", "", "",
		strings.NewReader(`{"username":"bob","password":"builder"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusForbidden,
		do(t, engine, http.MethodGet, "/photos/a.txt", "bob", "builder", nil, "").Code)

	// Object delete removes both the blob and the routing record.
	rec = do(t, engine, http.MethodDelete, "/photos/a.txt", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound,
		do(t, engine, http.MethodGet, "/photos/a.txt", "alice", "wonder", nil, "").Code)

	// Bucket delete fans out to every registered node.
	rec = do(t, engine, http.MethodDelete, "/delete_bucket/photos", "alice", "wonder", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted from all nodes successfully")
	assert.Equal(t, []string{"s3worker", "s3node1"}, node.bucketDeletes)

	// Bob never owned it, so even after deletion he gets Forbidden, not 404.
	assert.Equal(t, http.StatusForbidden,
		do(t, engine, http.MethodDelete, "/delete_bucket/photos", "bob", "builder", nil, "").Code)
}

func TestGatewayMissingKeyRejected(t *testing.T) {
	engine, _ := newTestGateway(t)

	rec := do(t, engine, http.MethodPost, "/create_user", "", "",
		strings.NewReader(`{"username":"carol","password":"pw"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, engine, http.MethodGet, "/photos/", "carol", "pw", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGatewayOperationalEndpoints(t *testing.T) {
	engine, _ := newTestGateway(t)

	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/healthz", "", "", nil, "").Code)
	assert.Equal(t, http.StatusOK, do(t, engine, http.MethodGet, "/readyz", "", "", nil, "").Code)

	rec := do(t, engine, http.MethodGet, "/metrics", "", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fileflux_manager_http_request_total")
}
