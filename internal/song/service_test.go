package song

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-social/melodia/pkg/catalog"
)

type fakeSongRepo struct {
	songs   map[string]*Song
	ratings map[string]int
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{songs: map[string]*Song{}, ratings: map[string]int{}}
}

func (f *fakeSongRepo) GetSongByID(id string) (*Song, error) {
	if s, ok := f.songs[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (f *fakeSongRepo) UpsertSong(s *Song) error {
	f.songs[s.ID] = s
	return nil
}

func (f *fakeSongRepo) UpsertRating(usuarioID int, cancionID string, calificacion int) error {
	f.ratings[cancionID] = calificacion
	return nil
}

func (f *fakeSongRepo) GetRatingSummary(cancionID string, usuarioID int) (*RatingSummary, error) {
	return &RatingSummary{}, nil
}

func (f *fakeSongRepo) CreateComment(usuarioID int, cancionID, texto string) (*Comment, error) {
	return &Comment{ID: 1, CancionID: cancionID, UsuarioID: usuarioID, Texto: texto}, nil
}

func (f *fakeSongRepo) GetComments(cancionID string) ([]Comment, error) { return nil, nil }

func (f *fakeSongRepo) GetTrendingNews(limit int) ([]NewsItem, error) { return nil, nil }

type fakeCatalog struct {
	tracks map[string]*catalog.Track
	calls  int
}

func (f *fakeCatalog) GetTrack(ctx context.Context, id string) (*catalog.Track, error) {
	f.calls++
	if t, ok := f.tracks[id]; ok {
		return t, nil
	}
	return nil, errors.New("no encontrada")
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	return nil, nil
}

func TestEnsureCachedFetchesOnce(t *testing.T) {
	repo := newFakeSongRepo()
	cat := &fakeCatalog{tracks: map[string]*catalog.Track{
		"t1": {ID: "t1", Nombre: "Paranoid", Artista: "Black Sabbath", Album: "Paranoid"},
	}}
	svc := NewService(repo, cat, zerolog.Nop())

	s, err := svc.EnsureCached(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Black Sabbath", s.Artista)
	assert.Equal(t, 1, cat.calls)

	// Segunda llamada: responde la caché local, sin tocar el catálogo.
	_, err = svc.EnsureCached(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, cat.calls)
}

func TestEnsureCachedUnknownTrack(t *testing.T) {
	svc := NewService(newFakeSongRepo(), &fakeCatalog{}, zerolog.Nop())

	_, err := svc.EnsureCached(context.Background(), "nada")

	assert.ErrorIs(t, err, ErrNotFound)
}

// Calificar no cachea la canción: los metadatos se resuelven después por
// enriquecimiento cuando hagan falta.
func TestRateDoesNotTouchCache(t *testing.T) {
	repo := newFakeSongRepo()
	cat := &fakeCatalog{}
	svc := NewService(repo, cat, zerolog.Nop())

	require.NoError(t, svc.Rate(1, "t-desconocida", 5))

	assert.Equal(t, 5, repo.ratings["t-desconocida"])
	assert.Zero(t, cat.calls)
	assert.Empty(t, repo.songs)
}
