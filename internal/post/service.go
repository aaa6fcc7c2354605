package post

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/melodia-social/melodia/internal/song"
	"github.com/melodia-social/melodia/pkg/moderation"
)

var (
	ErrContenidoRechazado = errors.New("el contenido fue rechazado por moderación")
	ErrNoAutorizado       = errors.New("no autorizado")
	ErrCancionInvalida    = errors.New("la canción no existe en el catálogo")
)

type repository interface {
	CreatePost(p *Post) error
	GetPostByID(postID, viewerID int) (*Post, error)
	GetFeed(userID, limit, offset int) ([]Post, error)
	DeletePost(postID int) error
	AddLike(postID, userID int) error
	RemoveLike(postID, userID int) error
	CreateComment(postID, userID int, texto string) (*Comment, error)
	GetComments(postID int) ([]Comment, error)
	CreateReport(postID, userID int, motivo string) (*Report, error)
	ListReports(estado string) ([]Report, error)
	ResolveReport(reportID int, eliminarPublicacion bool) error
}

type songCache interface {
	EnsureCached(ctx context.Context, id string) (*song.Song, error)
}

type moderator interface {
	Check(ctx context.Context, text string) (*moderation.Result, error)
}

type Service struct {
	repo      repository
	songs     songCache
	moderator moderator
	logger    zerolog.Logger
}

func NewService(repo repository, songs songCache, moderator moderator, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		songs:     songs,
		moderator: moderator,
		logger:    logger.With().Str("component", "post").Logger(),
	}
}

// CreatePost pasa el texto por moderación antes de persistir. Si el
// moderador no responde se deja pasar la publicación; la caída de un
// servicio externo no debe tumbar el alta de contenido.
func (s *Service) CreatePost(ctx context.Context, userID int, req CreatePostRequest) (*Post, error) {
	result, err := s.moderator.Check(ctx, req.Texto)
	if err != nil {
		s.logger.Warn().Err(err).Msg("moderación no disponible, se permite la publicación")
	} else if !result.Permitido {
		return nil, ErrContenidoRechazado
	}

	p := &Post{UsuarioID: userID, Texto: req.Texto}
	if req.CancionID != "" {
		cached, err := s.songs.EnsureCached(ctx, req.CancionID)
		if err != nil {
			return nil, ErrCancionInvalida
		}
		p.Cancion = cached
	}

	if err := s.repo.CreatePost(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPost(postID, viewerID int) (*Post, error) {
	return s.repo.GetPostByID(postID, viewerID)
}

func (s *Service) GetFeed(userID, limit, offset int) ([]Post, error) {
	return s.repo.GetFeed(userID, limit, offset)
}

// DeletePost permite borrar al autor o a un administrador.
func (s *Service) DeletePost(postID, userID int, role string) error {
	p, err := s.repo.GetPostByID(postID, userID)
	if err != nil {
		return err
	}
	if p.UsuarioID != userID && role != "admin" {
		return ErrNoAutorizado
	}
	return s.repo.DeletePost(postID)
}

func (s *Service) Like(postID, userID int) error {
	if _, err := s.repo.GetPostByID(postID, userID); err != nil {
		return err
	}
	return s.repo.AddLike(postID, userID)
}

func (s *Service) Unlike(postID, userID int) error {
	return s.repo.RemoveLike(postID, userID)
}

func (s *Service) Comment(ctx context.Context, postID, userID int, texto string) (*Comment, error) {
	result, err := s.moderator.Check(ctx, texto)
	if err != nil {
		s.logger.Warn().Err(err).Msg("moderación no disponible, se permite el comentario")
	} else if !result.Permitido {
		return nil, ErrContenidoRechazado
	}

	if _, err := s.repo.GetPostByID(postID, userID); err != nil {
		return nil, err
	}
	return s.repo.CreateComment(postID, userID, texto)
}

func (s *Service) GetComments(postID int) ([]Comment, error) {
	return s.repo.GetComments(postID)
}

func (s *Service) Report(postID, userID int, motivo string) (*Report, error) {
	if _, err := s.repo.GetPostByID(postID, userID); err != nil {
		return nil, err
	}
	return s.repo.CreateReport(postID, userID, motivo)
}

func (s *Service) ListReports(estado string) ([]Report, error) {
	if estado == "" {
		estado = ReporteEstadoPendiente
	}
	return s.repo.ListReports(estado)
}

func (s *Service) ResolveReport(reportID int, accion string) error {
	return s.repo.ResolveReport(reportID, accion == "eliminar_publicacion")
}
