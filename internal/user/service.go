package user

import (
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia-social/melodia/pkg/auth"
)

var (
	ErrEmailTaken         = errors.New("el correo ya está registrado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrSelfFollow         = errors.New("no puedes seguirte a ti mismo")
	ErrUserInactive       = errors.New("la cuenta está suspendida")
)

type repository interface {
	CreateUser(u *User) error
	GetUserByEmail(correo string) (*User, error)
	GetUserByID(userID int) (*User, error)
	UpdateUser(userID int, req *UpdateUserRequest) error
	UpdatePassword(correo, hashed string) error
	UpdateAvatar(userID int, objectName string) error
	SetEstado(userID int, estado string) error
	FollowUser(seguidorID, seguidoID int) error
	UnfollowUser(seguidorID, seguidoID int) error
	IsFollowing(seguidorID, seguidoID int) (bool, error)
	GetFollowers(userID int) ([]Profile, error)
	GetFollowing(userID int) ([]Profile, error)
	ListUsers(limit, offset int) ([]User, error)
	GetAdminStats() (*AdminStats, error)
}

type mailer interface {
	SendWelcomeEmail(to, username string) error
	SendResetEmail(to, resetLink string) error
}

type Service struct {
	repo   repository
	mailer mailer
	logger zerolog.Logger
}

func NewService(repo repository, mailer mailer, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		mailer: mailer,
		logger: logger.With().Str("component", "user").Logger(),
	}
}

func (s *Service) Register(req RegisterRequest) (*User, error) {
	if existing, _ := s.repo.GetUserByEmail(req.Correo); existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		NombreUsuario: req.NombreUsuario,
		Correo:        req.Correo,
		Contrasena:    string(hashed),
		Rol:           RolUsuario,
		Estado:        EstadoActivo,
	}
	if err := s.repo.CreateUser(u); err != nil {
		return nil, err
	}

	// El correo de bienvenida no bloquea el registro.
	go func() {
		if err := s.mailer.SendWelcomeEmail(u.Correo, u.NombreUsuario); err != nil {
			s.logger.Warn().Err(err).Str("correo", u.Correo).Msg("no se pudo enviar el correo de bienvenida")
		}
	}()

	return u, nil
}

func (s *Service) Authenticate(correo, contrasena string) (string, *User, error) {
	u, err := s.repo.GetUserByEmail(correo)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if u.Estado != EstadoActivo {
		return "", nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Contrasena), []byte(contrasena)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, u.Rol)
	if err != nil {
		return "", nil, err
	}

	u.Contrasena = ""
	return token, u, nil
}

// RequestPasswordReset emite el token de recuperación y lo envía por correo.
// Si el correo no existe no se revela nada al llamador.
func (s *Service) RequestPasswordReset(correo, resetBaseURL string) error {
	u, err := s.repo.GetUserByEmail(correo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := auth.GenerateResetToken(u.Correo)
	if err != nil {
		return err
	}

	link := resetBaseURL + "?token=" + token
	if err := s.mailer.SendResetEmail(u.Correo, link); err != nil {
		s.logger.Warn().Err(err).Str("correo", u.Correo).Msg("no se pudo enviar el correo de recuperación")
		return err
	}
	return nil
}

func (s *Service) ResetPassword(token, contrasena string) error {
	claims, err := auth.ParseResetToken(token)
	if err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(contrasena), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(claims.Email, string(hashed))
}

func (s *Service) GetUser(userID int) (*User, error) {
	u, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	u.Contrasena = ""
	return u, nil
}

func (s *Service) UpdateUser(userID int, req UpdateUserRequest) error {
	if req.Contrasena != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Contrasena), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		h := string(hashed)
		req.Contrasena = &h
	}
	return s.repo.UpdateUser(userID, &req)
}

func (s *Service) UpdateAvatar(userID int, objectName string) error {
	return s.repo.UpdateAvatar(userID, objectName)
}

func (s *Service) Follow(seguidorID, seguidoID int) error {
	if seguidorID == seguidoID {
		return ErrSelfFollow
	}
	if _, err := s.repo.GetUserByID(seguidoID); err != nil {
		return err
	}
	return s.repo.FollowUser(seguidorID, seguidoID)
}

func (s *Service) Unfollow(seguidorID, seguidoID int) error {
	return s.repo.UnfollowUser(seguidorID, seguidoID)
}

func (s *Service) GetFollowers(userID int) ([]Profile, error) {
	return s.repo.GetFollowers(userID)
}

func (s *Service) GetFollowing(userID int) ([]Profile, error) {
	return s.repo.GetFollowing(userID)
}

func (s *Service) ListUsers(limit, offset int) ([]User, error) {
	return s.repo.ListUsers(limit, offset)
}

func (s *Service) BanUser(userID int) error {
	return s.repo.SetEstado(userID, EstadoBaneado)
}

func (s *Service) UnbanUser(userID int) error {
	return s.repo.SetEstado(userID, EstadoActivo)
}

func (s *Service) GetAdminStats() (*AdminStats, error) {
	return s.repo.GetAdminStats()
}
