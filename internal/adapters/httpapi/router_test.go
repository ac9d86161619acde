package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	authadapter "cityscope/internal/adapters/auth"
	"cityscope/internal/adapters/database"
	"cityscope/internal/adapters/httpapi"
	"cityscope/internal/adapters/httpapi/middleware"
	"cityscope/internal/adapters/storage"
	feedapp "cityscope/internal/core/feed/service"
	interactionapp "cityscope/internal/core/interaction/service"
	postapp "cityscope/internal/core/post/service"
	userapp "cityscope/internal/core/user/service"
	"cityscope/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type denyAll struct{}

func (denyAll) Allow(ctx context.Context, resource, id string) (bool, error) { return false, nil }

func newServer(t *testing.T, limiter middleware.Limiter) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t)
	mediaDir := t.TempDir()

	uploader, err := storage.NewDiskUploader(mediaDir, "http://localhost/media")
	require.NoError(t, err)
	tokens := authadapter.NewJWTManager("router-test-secret", time.Hour)
	userRepo := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	const maxUpload = 1 << 20

	users := userapp.NewUserService(userRepo, postRepo, nil, tokens, uploader, maxUpload, nil)
	users.BcryptCost = bcrypt.MinCost
	projector := postapp.NewProjector(users)

	return httpapi.SetupRoutes(
		users,
		postapp.NewPostService(postRepo, userRepo, uploader, projector, maxUpload, nil),
		feedapp.NewFeedService(postRepo, projector, 100, nil),
		interactionapp.NewInteractionService(postRepo, userRepo, projector, nil),
		httpapi.Options{
			Verifier:        tokens,
			Limiter:         limiter,
			MaxUploadSize:   maxUpload,
			DefaultPageSize: 10,
			MediaDir:        mediaDir,
		},
	)
}

func do(t *testing.T, r http.Handler, method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	return do(t, r, method, path, token, "application/json", reader)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID       string   `json:"id"`
		Username string   `json:"username"`
		Posts    []string `json:"posts"`
	} `json:"user"`
}

func signup(t *testing.T, r http.Handler, username, mobile string) authBody {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/users/signup", "", map[string]string{
		"username": username, "name": strings.ToUpper(username), "mobile": mobile, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authBody](t, w)
}

type postBody struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Images []string `json:"images"`
	Author struct {
		Username string `json:"username"`
	} `json:"author"`
	LikesCount    int  `json:"likesCount"`
	LikedByMe     bool `json:"likedByMe"`
	CommentsCount int  `json:"commentsCount"`
	Comments      []struct {
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt"`
		User      struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	} `json:"comments"`
}

type feedBody struct {
	Items      []postBody `json:"items"`
	Pagination struct {
		CurrentPage int  `json:"currentPage"`
		PageSize    int  `json:"pageSize"`
		TotalPages  int  `json:"totalPages"`
		TotalItems  int  `json:"totalItems"`
		HasNextPage bool `json:"hasNextPage"`
		HasPrevPage bool `json:"hasPrevPage"`
	} `json:"pagination"`
}

type likeBody struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

func multipartPost(t *testing.T, fields map[string]string, images map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range images {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPlumberScenario(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "alice", "0912000001")
	b := signup(t, r, "bob", "0912000002")
	c := signup(t, r, "carol", "0912000003")

	body, ct := multipartPost(t, map[string]string{"content": "Looking for a plumber", "type": "ask_for_help", "location": "Downtown"},
		map[string][]byte{"leak.png": []byte("\x89PNG\r\n\x1a\n0000")})
	w := do(t, r, http.MethodPost, "/posts", a.Token, ct, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[postBody](t, w)
	assert.Equal(t, "alice", p.Author.Username)
	require.Len(t, p.Images, 1)
	assert.True(t, strings.HasPrefix(p.Images[0], "http://localhost/media/posts/"))

	w = doJSON(t, r, http.MethodPost, "/posts/"+p.ID+"/like", b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, likeBody{Liked: true, LikesCount: 1}, decode[likeBody](t, w))

	w = doJSON(t, r, http.MethodPost, "/posts/"+p.ID+"/like", b.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, likeBody{Liked: false, LikesCount: 0}, decode[likeBody](t, w))

	w = doJSON(t, r, http.MethodPost, "/posts/"+p.ID+"/comment", c.Token, map[string]string{"content": "Try Joe's Plumbing"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[struct {
		Comment struct {
			Content   string    `json:"content"`
			CreatedAt time.Time `json:"createdAt"`
			User      struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"comment"`
	}](t, w).Comment
	assert.Equal(t, "Try Joe's Plumbing", comment.Content)
	assert.Equal(t, c.User.ID, comment.User.ID)
	assert.False(t, comment.CreatedAt.IsZero())

	w = do(t, r, http.MethodGet, "/posts?type=ask_for_help&page=1&pageSize=10", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	f := decode[feedBody](t, w)
	require.Len(t, f.Items, 1)
	assert.Equal(t, p.ID, f.Items[0].ID)
	assert.Equal(t, 0, f.Items[0].LikesCount)
	assert.Equal(t, 1, f.Items[0].CommentsCount)
	assert.Equal(t, "carol", f.Items[0].Comments[0].User.Username)
	assert.Equal(t, 1, f.Pagination.TotalItems)
	assert.Equal(t, 1, f.Pagination.TotalPages)
	assert.False(t, f.Pagination.HasNextPage)

	w = do(t, r, http.MethodGet, "/posts?location=down", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[feedBody](t, w).Items, 1)

	w = do(t, r, http.MethodGet, "/users/profile", a.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{p.ID}, decode[struct {
		Posts []string `json:"posts"`
	}](t, w).Posts)
}

func TestPostsMineAndSinglePost(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "author", "0912000010")
	b := signup(t, r, "reader", "0912000011")

	var ids []string
	for _, content := range []string{"first", "second"} {
		w := doJSON(t, r, http.MethodPost, "/posts", a.Token, map[string]string{"content": content, "type": "local_update"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decode[postBody](t, w).ID)
		time.Sleep(2 * time.Millisecond)
	}
	doJSON(t, r, http.MethodPost, "/posts/"+ids[0]+"/like", b.Token, nil)

	w := do(t, r, http.MethodGet, "/posts/mine", a.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[struct {
		Posts []postBody `json:"posts"`
	}](t, w).Posts
	require.Len(t, mine, 2)
	assert.Equal(t, ids[1], mine[0].ID)

	w = do(t, r, http.MethodGet, "/posts/"+ids[0], b.Token, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[postBody](t, w).LikedByMe)

	w = do(t, r, http.MethodGet, "/posts/"+ids[0], "", "", nil)
	assert.False(t, decode[postBody](t, w).LikedByMe)

	w = do(t, r, http.MethodGet, "/posts/not-a-post", "", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorResponses(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "errors", "0912000020")

	tests := []struct {
		name   string
		w      *httptest.ResponseRecorder
		status int
		code   string
	}{
		{"create without token", doJSON(t, r, http.MethodPost, "/posts", "", map[string]string{"content": "x", "type": "local_update"}), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"create with bad token", doJSON(t, r, http.MethodPost, "/posts", "bogus", map[string]string{"content": "x", "type": "local_update"}), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"content too long", doJSON(t, r, http.MethodPost, "/posts", a.Token, map[string]string{"content": strings.Repeat("a", 281), "type": "local_update"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown type", doJSON(t, r, http.MethodPost, "/posts", a.Token, map[string]string{"content": "x", "type": "rumor"}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid feed type", do(t, r, http.MethodGet, "/posts?type=rumor", "", "", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid page", do(t, r, http.MethodGet, "/posts?page=0", "", "", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"page out of range", do(t, r, http.MethodGet, "/posts?page="+strconv.Itoa(math.MaxInt/10+7)+"&pageSize=10", "", "", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"non numeric page size", do(t, r, http.MethodGet, "/posts?pageSize=ten", "", "", nil), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"like missing post", doJSON(t, r, http.MethodPost, "/posts/0b6f3c2e-1d4e-4f7a-9a3b-2c1d0e9f8a7b/like", a.Token, nil), http.StatusNotFound, "NOT_FOUND"},
		{"comment missing post", doJSON(t, r, http.MethodPost, "/posts/0b6f3c2e-1d4e-4f7a-9a3b-2c1d0e9f8a7b/comment", a.Token, map[string]string{"content": "hi"}), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate signup", doJSON(t, r, http.MethodPost, "/users/signup", "", map[string]string{"username": "errors", "mobile": "0912000099", "password": "secret123"}), http.StatusConflict, "CONFLICT"},
		{"bad login", doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{"username": "errors", "password": "nope-nope"}), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"unknown handle", do(t, r, http.MethodGet, "/users/nobody", "", "", nil), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.w.Code, tt.w.Body.String())
			body := decode[map[string]string](t, tt.w)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTooManyImages(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "shutter", "0912000030")

	images := map[string][]byte{}
	for _, name := range []string{"1.png", "2.png", "3.png", "4.png", "5.png", "6.png"} {
		images[name] = []byte("\x89PNG\r\n\x1a\n0000")
	}
	body, ct := multipartPost(t, map[string]string{"content": "gallery", "type": "local_update"}, images)
	w := do(t, r, http.MethodPost, "/posts", a.Token, ct, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/posts", "", "", nil)
	assert.Empty(t, decode[feedBody](t, w).Items)
}

func TestUserEndpoints(t *testing.T) {
	r := newServer(t, nil)
	a := signup(t, r, "profiled", "0912000040")

	w := doJSON(t, r, http.MethodPost, "/users/login", "", map[string]string{"username": "0912000040", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[authBody](t, w).Token)

	w = do(t, r, http.MethodGet, "/users/authenticate", a.Token, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPut, "/users/profile", a.Token, map[string]string{"bio": "local guide"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "local guide", decode[struct {
		User struct {
			Bio string `json:"bio"`
		} `json:"user"`
	}](t, w).User.Bio)

	w = do(t, r, http.MethodGet, "/users/profiled", "", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]any](t, w)
	assert.Equal(t, "profiled", summary["username"])
	assert.NotContains(t, summary, "mobile")
	assert.NotContains(t, summary, "password")
}

func TestRateLimitedWrites(t *testing.T) {
	r := newServer(t, denyAll{})

	w := doJSON(t, r, http.MethodPost, "/users/signup", "", map[string]string{"username": "limited", "mobile": "0912000050", "password": "secret123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", decode[map[string]string](t, w)["code"])

	w = do(t, r, http.MethodGet, "/posts", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newServer(t, nil)

	w := do(t, r, http.MethodGet, "/healthz", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	do(t, r, http.MethodGet, "/posts", "", "", nil)
	w = do(t, r, http.MethodGet, "/metrics", "", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cityscope_http_requests_total")
}
