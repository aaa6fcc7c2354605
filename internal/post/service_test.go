package post

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-social/melodia/internal/song"
	"github.com/melodia-social/melodia/pkg/moderation"
)

type fakePostRepo struct {
	posts    map[int]*Post
	created  *Post
	deleted  []int
	comments []Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[int]*Post{}}
}

func (f *fakePostRepo) CreatePost(p *Post) error {
	p.ID = len(f.posts) + 1
	f.posts[p.ID] = p
	f.created = p
	return nil
}

func (f *fakePostRepo) GetPostByID(postID, viewerID int) (*Post, error) {
	p, ok := f.posts[postID]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakePostRepo) GetFeed(userID, limit, offset int) ([]Post, error) { return nil, nil }

func (f *fakePostRepo) DeletePost(postID int) error {
	if _, ok := f.posts[postID]; !ok {
		return ErrNotFound
	}
	delete(f.posts, postID)
	f.deleted = append(f.deleted, postID)
	return nil
}

func (f *fakePostRepo) AddLike(postID, userID int) error    { return nil }
func (f *fakePostRepo) RemoveLike(postID, userID int) error { return nil }

func (f *fakePostRepo) CreateComment(postID, userID int, texto string) (*Comment, error) {
	c := Comment{ID: len(f.comments) + 1, PublicacionID: postID, UsuarioID: userID, Texto: texto}
	f.comments = append(f.comments, c)
	return &c, nil
}

func (f *fakePostRepo) GetComments(postID int) ([]Comment, error) { return f.comments, nil }

func (f *fakePostRepo) CreateReport(postID, userID int, motivo string) (*Report, error) {
	return &Report{ID: 1, PublicacionID: postID, UsuarioID: userID, Motivo: motivo, Estado: ReporteEstadoPendiente}, nil
}

func (f *fakePostRepo) ListReports(estado string) ([]Report, error) { return nil, nil }

func (f *fakePostRepo) ResolveReport(reportID int, eliminarPublicacion bool) error { return nil }

type fakeSongCache struct {
	songs map[string]*song.Song
}

func (f *fakeSongCache) EnsureCached(ctx context.Context, id string) (*song.Song, error) {
	if s, ok := f.songs[id]; ok {
		return s, nil
	}
	return nil, song.ErrNotFound
}

type fakeModerator struct {
	result *moderation.Result
	err    error
	texts  []string
}

func (f *fakeModerator) Check(ctx context.Context, text string) (*moderation.Result, error) {
	f.texts = append(f.texts, text)
	return f.result, f.err
}

func newTestService(repo *fakePostRepo, songs *fakeSongCache, mod *fakeModerator) *Service {
	return NewService(repo, songs, mod, zerolog.Nop())
}

func TestCreatePostWithSong(t *testing.T) {
	repo := newFakePostRepo()
	songs := &fakeSongCache{songs: map[string]*song.Song{
		"t1": {ID: "t1", Nombre: "Paranoid", Artista: "Black Sabbath"},
	}}
	mod := &fakeModerator{result: &moderation.Result{Permitido: true}}
	svc := newTestService(repo, songs, mod)

	p, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Texto: "temazo", CancionID: "t1"})

	require.NoError(t, err)
	assert.Equal(t, "temazo", p.Texto)
	require.NotNil(t, p.Cancion)
	assert.Equal(t, "Black Sabbath", p.Cancion.Artista)
	assert.Equal(t, []string{"temazo"}, mod.texts)
}

func TestCreatePostModerationRejects(t *testing.T) {
	repo := newFakePostRepo()
	mod := &fakeModerator{result: &moderation.Result{Permitido: false, Motivo: "spam"}}
	svc := newTestService(repo, &fakeSongCache{}, mod)

	_, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Texto: "compra ya"})

	assert.ErrorIs(t, err, ErrContenidoRechazado)
	assert.Nil(t, repo.created)
}

// La caída del moderador no bloquea el alta de contenido.
func TestCreatePostModerationUnavailable(t *testing.T) {
	repo := newFakePostRepo()
	mod := &fakeModerator{err: errors.New("timeout")}
	svc := newTestService(repo, &fakeSongCache{}, mod)

	p, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Texto: "hola"})

	require.NoError(t, err)
	assert.NotZero(t, p.ID)
}

func TestCreatePostUnknownSong(t *testing.T) {
	mod := &fakeModerator{result: &moderation.Result{Permitido: true}}
	svc := newTestService(newFakePostRepo(), &fakeSongCache{}, mod)

	_, err := svc.CreatePost(context.Background(), 1, CreatePostRequest{Texto: "x", CancionID: "desconocida"})

	assert.ErrorIs(t, err, ErrCancionInvalida)
}

func TestDeletePostAuthorization(t *testing.T) {
	repo := newFakePostRepo()
	repo.posts[1] = &Post{ID: 1, UsuarioID: 10}
	svc := newTestService(repo, &fakeSongCache{}, &fakeModerator{result: &moderation.Result{Permitido: true}})

	assert.ErrorIs(t, svc.DeletePost(1, 99, "usuario"), ErrNoAutorizado)
	assert.NoError(t, svc.DeletePost(1, 10, "usuario"))

	repo.posts[2] = &Post{ID: 2, UsuarioID: 10}
	assert.NoError(t, svc.DeletePost(2, 99, "admin"))
}

func TestCommentModerated(t *testing.T) {
	repo := newFakePostRepo()
	repo.posts[1] = &Post{ID: 1, UsuarioID: 10}
	mod := &fakeModerator{result: &moderation.Result{Permitido: false}}
	svc := newTestService(repo, &fakeSongCache{}, mod)

	_, err := svc.Comment(context.Background(), 1, 2, "insulto")

	assert.ErrorIs(t, err, ErrContenidoRechazado)
	assert.Empty(t, repo.comments)
}

func TestLikeUnknownPost(t *testing.T) {
	svc := newTestService(newFakePostRepo(), &fakeSongCache{}, &fakeModerator{result: &moderation.Result{Permitido: true}})

	assert.ErrorIs(t, svc.Like(42, 1), ErrNotFound)
}
