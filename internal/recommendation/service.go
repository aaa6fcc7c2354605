package recommendation

import (
	"context"

	"github.com/rs/zerolog"
)

type interactionCollector interface {
	Collect(userID int) (*InteractionBundle, error)
}

type metadataEnricher interface {
	Enrich(ctx context.Context, ids []string) map[string]TrackMeta
}

type repository interface {
	GetPersonalizedPosts(userID int, topArtists, knownSongIDs []string, limit int) ([]RecommendedPost, error)
	GetPopularPosts(limit int) ([]RecommendedPost, error)
	GetSimilarUsers(userID int, knownSongIDs []string, limit int) ([]RecommendedUser, error)
	GetPopularUsers(userID, limit int) ([]RecommendedUser, error)
}

// Service orquesta la tubería: recolectar → enriquecer → puntuar →
// consultar. No guarda estado entre peticiones.
type Service struct {
	collector interactionCollector
	enricher  metadataEnricher
	repo      repository
	logger    zerolog.Logger
}

func NewService(collector interactionCollector, enricher metadataEnricher, repo repository, logger zerolog.Logger) *Service {
	return &Service{
		collector: collector,
		enricher:  enricher,
		repo:      repo,
		logger:    logger.With().Str("component", "recommendation").Logger(),
	}
}

// buildProfile ejecuta las tres primeras etapas de la tubería.
func (s *Service) buildProfile(ctx context.Context, userID int) (*PreferenceProfile, *InteractionBundle, error) {
	bundle, err := s.collector.Collect(userID)
	if err != nil {
		return nil, nil, err
	}

	enriched := s.enricher.Enrich(ctx, idsToEnrich(bundle))
	return ComputeProfile(bundle, enriched), bundle, nil
}

// idsToEnrich junta las canciones sin artista conocido: calificaciones y
// comentarios directos. Las demás categorías ya traen metadatos de la
// caché local.
func idsToEnrich(bundle *InteractionBundle) []string {
	ids := make([]string, 0, len(bundle.Ratings)+len(bundle.SongComments))
	for _, rating := range bundle.Ratings {
		ids = append(ids, rating.CancionID)
	}
	for _, sc := range bundle.SongComments {
		if sc.Artista == "" {
			ids = append(ids, sc.CancionID)
		}
	}
	return ids
}

func (s *Service) RecommendPosts(ctx context.Context, userID, limit int) (*PostRecommendations, error) {
	profile, _, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.TotalInteractions == 0 {
		posts, err := s.repo.GetPopularPosts(limit)
		if err != nil {
			return nil, err
		}
		return &PostRecommendations{
			Recommendations: posts,
			Algorithm:       AlgorithmPopular,
			Reason:          coldStartReason,
		}, nil
	}

	posts, err := s.repo.GetPersonalizedPosts(userID, profile.TopArtists, profile.KnownSongIDList(), limit)
	if err != nil {
		return nil, err
	}
	return &PostRecommendations{
		Recommendations:   posts,
		Algorithm:         AlgorithmCollaborative,
		TotalInteractions: profile.TotalInteractions,
		TopArtists:        topN(profile.TopArtists, 5),
	}, nil
}

func (s *Service) RecommendUsers(ctx context.Context, userID, limit int) (*UserRecommendations, error) {
	profile, _, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if profile.TotalInteractions == 0 {
		users, err := s.repo.GetPopularUsers(userID, limit)
		if err != nil {
			return nil, err
		}
		return &UserRecommendations{
			Recommendations: users,
			Algorithm:       AlgorithmPopularUsers,
		}, nil
	}

	users, err := s.repo.GetSimilarUsers(userID, profile.KnownSongIDList(), limit)
	if err != nil {
		return nil, err
	}
	return &UserRecommendations{
		Recommendations: users,
		Algorithm:       AlgorithmTasteMatching,
		TopArtists:      topN(profile.TopArtists, 5),
	}, nil
}

func (s *Service) Analyze(ctx context.Context, userID int) (*TasteAnalysis, error) {
	profile, bundle, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	topArtists := make([]ArtistScore, 0, len(profile.TopArtists))
	for _, artista := range profile.TopArtists {
		topArtists = append(topArtists, ArtistScore{Artist: artista, Score: profile.ArtistScores[artista]})
	}

	var promedio float64
	if len(bundle.Ratings) > 0 {
		var suma int
		for _, rating := range bundle.Ratings {
			suma += rating.Calificacion
		}
		promedio = float64(suma) / float64(len(bundle.Ratings))
	}

	return &TasteAnalysis{
		TotalInteractions: profile.TotalInteractions,
		TopArtists:        topArtists,
		RecentActivity: ActivityCounts{
			Posts:        len(bundle.Posts),
			Likes:        len(bundle.Likes),
			Comments:     len(bundle.Comments),
			Ratings:      len(bundle.Ratings),
			SongComments: len(bundle.SongComments),
		},
		AverageRating: promedio,
	}, nil
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
