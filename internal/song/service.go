package song

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/melodia-social/melodia/pkg/catalog"
)

type repository interface {
	GetSongByID(id string) (*Song, error)
	UpsertSong(s *Song) error
	UpsertRating(usuarioID int, cancionID string, calificacion int) error
	GetRatingSummary(cancionID string, usuarioID int) (*RatingSummary, error)
	CreateComment(usuarioID int, cancionID, texto string) (*Comment, error)
	GetComments(cancionID string) ([]Comment, error)
	GetTrendingNews(limit int) ([]NewsItem, error)
}

type catalogClient interface {
	GetTrack(ctx context.Context, id string) (*catalog.Track, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]catalog.Track, error)
}

type Service struct {
	repo    repository
	catalog catalogClient
	logger  zerolog.Logger
}

func NewService(repo repository, catalog catalogClient, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger.With().Str("component", "song").Logger(),
	}
}

// GetSong resuelve primero contra la caché local y si no existe consulta
// el catálogo e inserta la copia.
func (s *Service) GetSong(ctx context.Context, id string) (*Song, error) {
	cached, err := s.repo.GetSongByID(id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.EnsureCached(ctx, id)
}

// EnsureCached trae la pista del catálogo y la deja en la caché local.
// Se usa también desde el alta de publicaciones.
func (s *Service) EnsureCached(ctx context.Context, id string) (*Song, error) {
	cached, err := s.repo.GetSongByID(id)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	track, err := s.catalog.GetTrack(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("cancion", id).Msg("no se pudo resolver la pista en el catálogo")
		return nil, ErrNotFound
	}

	song := &Song{
		ID:         track.ID,
		Nombre:     track.Nombre,
		Artista:    track.Artista,
		Album:      track.Album,
		PreviewURL: track.PreviewURL,
		ImagenURL:  track.ImagenURL,
		Genero:     track.Genero,
	}
	if err := s.repo.UpsertSong(song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]catalog.Track, error) {
	return s.catalog.SearchTracks(ctx, query, limit)
}

// Rate registra la calificación sin tocar la caché local: una canción
// puede calificarse aunque nunca se haya publicado sobre ella, y sus
// metadatos se resuelven después vía enriquecimiento.
func (s *Service) Rate(usuarioID int, cancionID string, calificacion int) error {
	return s.repo.UpsertRating(usuarioID, cancionID, calificacion)
}

func (s *Service) GetRatingSummary(cancionID string, usuarioID int) (*RatingSummary, error) {
	return s.repo.GetRatingSummary(cancionID, usuarioID)
}

func (s *Service) Comment(usuarioID int, cancionID, texto string) (*Comment, error) {
	return s.repo.CreateComment(usuarioID, cancionID, texto)
}

func (s *Service) GetComments(cancionID string) ([]Comment, error) {
	return s.repo.GetComments(cancionID)
}

func (s *Service) GetNews(limit int) ([]NewsItem, error) {
	return s.repo.GetTrendingNews(limit)
}
