package recommendation

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	bundle *InteractionBundle
	err    error
}

func (f *fakeCollector) Collect(userID int) (*InteractionBundle, error) {
	return f.bundle, f.err
}

type fakeEnricher struct {
	meta   map[string]TrackMeta
	gotIDs []string
}

func (f *fakeEnricher) Enrich(ctx context.Context, ids []string) map[string]TrackMeta {
	f.gotIDs = ids
	if f.meta == nil {
		return map[string]TrackMeta{}
	}
	return f.meta
}

type fakeRepo struct {
	personalized []RecommendedPost
	popular      []RecommendedPost
	similar      []RecommendedUser
	popularUsers []RecommendedUser

	gotTopArtists []string
	gotKnownIDs   []string
	popularCalled bool
}

func (f *fakeRepo) GetPersonalizedPosts(userID int, topArtists, knownSongIDs []string, limit int) ([]RecommendedPost, error) {
	f.gotTopArtists = topArtists
	f.gotKnownIDs = knownSongIDs
	return f.personalized, nil
}

func (f *fakeRepo) GetPopularPosts(limit int) ([]RecommendedPost, error) {
	f.popularCalled = true
	return f.popular, nil
}

func (f *fakeRepo) GetSimilarUsers(userID int, knownSongIDs []string, limit int) ([]RecommendedUser, error) {
	f.gotKnownIDs = knownSongIDs
	return f.similar, nil
}

func (f *fakeRepo) GetPopularUsers(userID, limit int) ([]RecommendedUser, error) {
	f.popularCalled = true
	return f.popularUsers, nil
}

func newTestService(bundle *InteractionBundle, meta map[string]TrackMeta, repo *fakeRepo) *Service {
	return NewService(&fakeCollector{bundle: bundle}, &fakeEnricher{meta: meta}, repo, zerolog.Nop())
}

func TestRecommendPostsColdStart(t *testing.T) {
	repo := &fakeRepo{popular: []RecommendedPost{{}}}
	svc := newTestService(&InteractionBundle{}, nil, repo)

	result, err := svc.RecommendPosts(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, AlgorithmPopular, result.Algorithm)
	assert.Equal(t, "Usuario sin interacciones previas", result.Reason)
	assert.Empty(t, result.TopArtists)
	assert.True(t, repo.popularCalled)
}

func TestRecommendPostsPersonalized(t *testing.T) {
	bundle := &InteractionBundle{
		Posts: []SongInteraction{{CancionID: "s1", Artista: "X", Interacciones: 1}},
	}
	repo := &fakeRepo{personalized: []RecommendedPost{{Relevancia: 3}}}
	svc := newTestService(bundle, nil, repo)

	result, err := svc.RecommendPosts(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, AlgorithmCollaborative, result.Algorithm)
	assert.Equal(t, 1, result.TotalInteractions)
	assert.Equal(t, []string{"X"}, result.TopArtists)
	assert.Empty(t, result.Reason)
	assert.False(t, repo.popularCalled)
	// La exclusión de canciones conocidas llega a la consulta.
	assert.Equal(t, []string{"s1"}, repo.gotKnownIDs)
}

// Con una sola interacción ya no hay arranque en frío, aunque el puntaje
// sea bajo: la puerta es el conteo de filas, no el puntaje.
func TestColdStartGateUsesRowCountNotScore(t *testing.T) {
	bundle := &InteractionBundle{
		Ratings: []RatingInteraction{{CancionID: "s1", Calificacion: 1}},
	}
	repo := &fakeRepo{}
	svc := newTestService(bundle, nil, repo)

	result, err := svc.RecommendPosts(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, AlgorithmCollaborative, result.Algorithm)
	assert.False(t, repo.popularCalled)
	assert.Empty(t, result.Recommendations)
}

func TestRecommendPostsTopArtistsCappedAtFive(t *testing.T) {
	bundle := &InteractionBundle{}
	for _, artista := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		bundle.Posts = append(bundle.Posts, SongInteraction{
			CancionID: "s-" + artista, Artista: artista, Interacciones: 1,
		})
	}
	repo := &fakeRepo{}
	svc := newTestService(bundle, nil, repo)

	result, err := svc.RecommendPosts(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Len(t, result.TopArtists, 5)
	// La consulta sí recibe hasta 10 artistas.
	assert.Len(t, repo.gotTopArtists, 7)
}

func TestRecommendPostsCollectorError(t *testing.T) {
	svc := NewService(
		&fakeCollector{err: errors.New("conexión perdida")},
		&fakeEnricher{},
		&fakeRepo{},
		zerolog.Nop(),
	)

	_, err := svc.RecommendPosts(context.Background(), 1, 10)

	assert.Error(t, err)
}

func TestRecommendUsersColdStart(t *testing.T) {
	repo := &fakeRepo{popularUsers: []RecommendedUser{{}}}
	svc := newTestService(&InteractionBundle{}, nil, repo)

	result, err := svc.RecommendUsers(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, AlgorithmPopularUsers, result.Algorithm)
	assert.True(t, repo.popularCalled)
}

func TestRecommendUsersPersonalized(t *testing.T) {
	bundle := &InteractionBundle{
		Ratings: []RatingInteraction{{CancionID: "s1", Calificacion: 4}},
	}
	repo := &fakeRepo{similar: []RecommendedUser{{CancionesComunes: 2}}}
	svc := newTestService(bundle, map[string]TrackMeta{"s1": {Artista: "Z"}}, repo)

	result, err := svc.RecommendUsers(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Equal(t, AlgorithmTasteMatching, result.Algorithm)
	assert.Equal(t, []string{"s1"}, repo.gotKnownIDs)
	assert.Equal(t, []string{"Z"}, result.TopArtists)
}

func TestAnalyze(t *testing.T) {
	bundle := &InteractionBundle{
		Posts: []SongInteraction{{CancionID: "s1", Artista: "X", Interacciones: 2}},
		Ratings: []RatingInteraction{
			{CancionID: "s2", Calificacion: 4},
			{CancionID: "s3", Calificacion: 2},
		},
	}
	meta := map[string]TrackMeta{
		"s2": {Artista: "Y"},
		"s3": {Artista: "Y"},
	}
	svc := newTestService(bundle, meta, &fakeRepo{})

	analysis, err := svc.Analyze(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 3, analysis.TotalInteractions)
	assert.Equal(t, 1, analysis.RecentActivity.Posts)
	assert.Equal(t, 2, analysis.RecentActivity.Ratings)
	assert.Equal(t, 3.0, analysis.AverageRating)

	require.Len(t, analysis.TopArtists, 2)
	// Y: 2*4 + 2*2 = 12 supera a X: 5*2 = 10.
	assert.Equal(t, ArtistScore{Artist: "Y", Score: 12}, analysis.TopArtists[0])
	assert.Equal(t, ArtistScore{Artist: "X", Score: 10}, analysis.TopArtists[1])
}

func TestAnalyzeNoRatings(t *testing.T) {
	svc := newTestService(&InteractionBundle{}, nil, &fakeRepo{})

	analysis, err := svc.Analyze(context.Background(), 1)

	require.NoError(t, err)
	assert.Zero(t, analysis.AverageRating)
	assert.Zero(t, analysis.TotalInteractions)
}

func TestEnrichmentOnlyRequestedForUncachedRows(t *testing.T) {
	bundle := &InteractionBundle{
		Posts:        []SongInteraction{{CancionID: "cacheada", Artista: "X"}},
		Ratings:      []RatingInteraction{{CancionID: "r1", Calificacion: 5}},
		SongComments: []SongInteraction{{CancionID: "sc1", Interacciones: 1}},
	}
	enricher := &fakeEnricher{}
	svc := NewService(&fakeCollector{bundle: bundle}, enricher, &fakeRepo{}, zerolog.Nop())

	_, err := svc.RecommendPosts(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "sc1"}, enricher.gotIDs)
}
