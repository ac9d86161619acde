package postapp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	authadapter "cityscope/internal/adapters/auth"
	"cityscope/internal/adapters/database"
	"cityscope/internal/core/apperr"
	postEntity "cityscope/internal/core/post"
	postapp "cityscope/internal/core/post/service"
	userapp "cityscope/internal/core/user/service"
	"cityscope/internal/ports/media"
	"cityscope/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

type stubUploader struct {
	mu     sync.Mutex
	keys   []string
	failAt int // 1-based call number that fails; 0 never fails
}

func (u *stubUploader) Upload(ctx context.Context, key string, file media.File) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	if u.failAt > 0 && len(u.keys) == u.failAt {
		return "", errors.New("bucket unavailable")
	}
	return "https://cdn.example/" + key, nil
}

type fixture struct {
	db       *gorm.DB
	svc      *postapp.PostService
	uploader *stubUploader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := database.NewUserRepositoryDatabase(db)
	postRepo := database.NewPostRepositoryDatabase(db)
	uploader := &stubUploader{}

	users := userapp.NewUserService(userRepo, postRepo, nil, authadapter.NewJWTManager("s", time.Hour), uploader, 1024, nil)
	svc := postapp.NewPostService(postRepo, userRepo, uploader, postapp.NewProjector(users), 1024, nil)
	return &fixture{db: db, svc: svc, uploader: uploader}
}

func (f *fixture) countPosts(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Table("posts").Count(&n).Error)
	return n
}

func TestCreatePost_WithImages(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.db, "photog")

	dto, err := f.svc.CreatePost(context.Background(), postapp.CreatePostInput{
		AuthorID: author.ID.String(),
		Content:  "Sunset from the bridge",
		Type:     "local_update",
		Location: "River Side",
		Images: []media.File{
			{Filename: "a.png", Data: pngHeader},
			{Filename: "b.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sunset from the bridge", dto.Content)
	assert.Equal(t, "local_update", dto.Type)
	assert.Equal(t, "photog", dto.Author.Username)
	assert.Equal(t, author.ID.String(), dto.Author.ID)
	require.Len(t, dto.Images, 2)
	assert.Regexp(t, `^https://cdn.example/posts/\d+-`+author.ID.String()+`-[0-9a-f]{8}\.png$`, dto.Images[0])
	assert.Regexp(t, `\.jpg$`, dto.Images[1])
	assert.Zero(t, dto.LikesCount)
	assert.Empty(t, dto.Comments)
	assert.EqualValues(t, 1, f.countPosts(t))
}

func TestCreatePost_ValidationHappensBeforeUpload(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.db, "validator")
	img := media.File{Filename: "a.png", Data: pngHeader}

	tests := []struct {
		name string
		in   postapp.CreatePostInput
	}{
		{"empty content", postapp.CreatePostInput{Content: "", Type: "local_update", Images: []media.File{img}}},
		{"missing type", postapp.CreatePostInput{Content: "hi", Images: []media.File{img}}},
		{"unknown type", postapp.CreatePostInput{Content: "hi", Type: "meme", Images: []media.File{img}}},
		{"six images", postapp.CreatePostInput{Content: "hi", Type: "local_update", Images: []media.File{img, img, img, img, img, img}}},
		{"not an image", postapp.CreatePostInput{Content: "hi", Type: "local_update", Images: []media.File{{Filename: "a.txt", Data: []byte("plain text")}}}},
		{"too large", postapp.CreatePostInput{Content: "hi", Type: "local_update", Images: []media.File{{Filename: "big.png", Data: make([]byte, 2048)}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.AuthorID = author.ID.String()
			_, err := f.svc.CreatePost(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation), err.Error())
		})
	}
	assert.Empty(t, f.uploader.keys)
	assert.Zero(t, f.countPosts(t))
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePost(context.Background(), postapp.CreatePostInput{
		AuthorID: "9b2c6f0e-8a0a-4c55-9d7e-3f1f7b1a2c3d",
		Content:  "ghost post",
		Type:     "recommendation",
		Images:   []media.File{{Filename: "a.png", Data: pngHeader}},
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Empty(t, f.uploader.keys)
	assert.Zero(t, f.countPosts(t))
}

func TestCreatePost_UploadFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	f.uploader.failAt = 2
	author := testutil.SeedUser(t, f.db, "unlucky")

	_, err := f.svc.CreatePost(context.Background(), postapp.CreatePostInput{
		AuthorID: author.ID.String(),
		Content:  "two pictures",
		Type:     "recommendation",
		Images:   []media.File{{Filename: "a.png", Data: pngHeader}, {Filename: "b.png", Data: pngHeader}},
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUploadFailed))
	assert.Equal(t, "failed to upload image", err.(*apperr.Error).Message)
	assert.Len(t, f.uploader.keys, 2)
	assert.Zero(t, f.countPosts(t))
}

func TestGetPost(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.db, "getter")
	ctx := context.Background()

	created, err := f.svc.CreatePost(ctx, postapp.CreatePostInput{AuthorID: author.ID.String(), Content: "read me", Type: "ask_for_help"})
	require.NoError(t, err)

	got, err := f.svc.GetPost(ctx, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.False(t, got.LikedByMe)

	_, err = f.svc.GetPost(ctx, "not-a-uuid", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.svc.GetPost(ctx, "9b2c6f0e-8a0a-4c55-9d7e-3f1f7b1a2c3d", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListPostsByAuthor(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedUser(t, f.db, "lister")
	ctx := context.Background()

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	for _, content := range []string{"one", "two", "three"} {
		_, err := f.svc.CreatePost(ctx, postapp.CreatePostInput{AuthorID: author.ID.String(), Content: content, Type: string(postEntity.TypeLocalUpdate)})
		require.NoError(t, err)
	}

	posts, err := f.svc.ListPostsByAuthor(ctx, author.ID.String(), author.ID.String())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "three", posts[0].Content)
	assert.Equal(t, "one", posts[2].Content)
}
