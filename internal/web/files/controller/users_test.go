package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

// stubStore backs the routed service with a single known user and no nodes.
type stubStore struct {
	user *model.User
}

func (s *stubStore) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return &model.User{ID: primitive.NewObjectID(), Email: email, Password: passwordHash}, nil
}

func (s *stubStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, mongoLib.ErrNoDocuments
}

func (s *stubStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, mongoLib.ErrNoDocuments
}

func (s *stubStore) CountUsers(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubStore) InsertFile(ctx context.Context, file *model.File) (*model.File, error) {
	file.ID = primitive.NewObjectID()
	return file, nil
}

func (s *stubStore) GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	return nil, mongoLib.ErrNoDocuments
}

func (s *stubStore) ListFiles(ctx context.Context, ownerID primitive.ObjectID, parentID *primitive.ObjectID, filterParent bool, page int64) ([]*model.File, error) {
	return nil, nil
}

func (s *stubStore) SetFilePublic(ctx context.Context, id, ownerID primitive.ObjectID, public bool) (*model.File, error) {
	return nil, mongoLib.ErrNoDocuments
}

func (s *stubStore) CountFiles(ctx context.Context) (int64, error) { return 0, nil }

func (s *stubStore) InsertJob(ctx context.Context, job *model.ThumbnailJob) (*model.ThumbnailJob, error) {
	job.ID = primitive.NewObjectID()
	return job, nil
}

func (s *stubStore) Ping(ctx context.Context) error { return nil }

type stubSessions struct {
	sessions map[string]*redis.Session
}

func (s *stubSessions) SaveSession(ctx context.Context, session *redis.Session, ttl time.Duration) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *stubSessions) GetSession(ctx context.Context, token string) (*redis.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, redis.ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessions) DeleteSession(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *stubSessions) Ping(ctx context.Context) error { return nil }

type stubQueue struct{}

func (s *stubQueue) EnqueueThumbnailTask(ctx context.Context, task *redis.ThumbnailTask) error {
	return nil
}

func (s *stubQueue) ThumbnailQueueDepth(ctx context.Context) (int64, error) { return 0, nil }

func newTestRouter(t *testing.T, store *stubStore, sessions *stubSessions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	blobs, err := blob.NewStore(afero.NewMemMapFs(), "/data/files")
	require.NoError(t, err)

	svc, err := service.NewService(store, sessions, blobs, &stubQueue{}, log.Logger.Named("test"))
	require.NoError(t, err)

	router := gin.New()
	New(svc, log.Logger.Named("test")).RegisterRoutes(router)
	return router
}

// TestRegisterBadBody verifies a malformed JSON body reports a generic
// bad-request error while an empty object still yields the field error.
// It accepts no parameters besides the testing handle and asserts on both bodies.
func TestRegisterBadBody(t *testing.T) {
	router := newTestRouter(t, &stubStore{}, &stubSessions{sessions: map[string]*redis.Session{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid request body")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{}"))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Missing email")
}

// TestUploadBadBody verifies a malformed upload body reports the generic
// bad-request error after authentication.
// It accepts no parameters besides the testing handle and asserts on status and body.
func TestUploadBadBody(t *testing.T) {
	user := &model.User{ID: primitive.NewObjectID(), Email: "bob@dylan.com"}
	sessions := &stubSessions{sessions: map[string]*redis.Session{
		"tok": {Token: "tok", UserID: user.GetID(), ExpiresAt: time.Now().UTC().Add(time.Hour)},
	}}
	router := newTestRouter(t, &stubStore{user: user}, sessions)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/files", strings.NewReader("{not json"))
	req.Header.Set(HeaderToken, "tok")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid request body")

	// an empty object binds fine and falls through to the field checks
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/files", strings.NewReader("{}"))
	req.Header.Set(HeaderToken, "tok")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Missing name")

	// no token at all never reaches the body
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/files", strings.NewReader("{}"))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
