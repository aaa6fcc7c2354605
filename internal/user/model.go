package user

import "time"

const (
	RolAdmin   = "admin"
	RolUsuario = "usuario"

	EstadoActivo    = "activo"
	EstadoBaneado   = "baneado"
	EstadoEliminado = "eliminado"
)

type User struct {
	ID            int       `json:"id"`
	NombreUsuario string    `json:"nombre_usuario"`
	Correo        string    `json:"correo"`
	Contrasena    string    `json:"-"`
	Rol           string    `json:"rol"`
	Estado        string    `json:"estado"`
	Avatar        string    `json:"avatar,omitempty"`
	FechaRegistro time.Time `json:"fecha_registro"`
}

// Profile es la vista pública de un usuario (listas de seguidores,
// resultados de recomendación, etc.).
type Profile struct {
	ID            int    `json:"id"`
	NombreUsuario string `json:"nombre_usuario"`
	Avatar        string `json:"avatar,omitempty"`
	Seguidores    int    `json:"seguidores"`
}

type RegisterRequest struct {
	NombreUsuario string `json:"nombre_usuario" validate:"required,min=3,max=30"`
	Correo        string `json:"correo" validate:"required,email"`
	Contrasena    string `json:"contrasena" validate:"required,min=8"`
}

type LoginRequest struct {
	Correo     string `json:"correo" validate:"required,email"`
	Contrasena string `json:"contrasena" validate:"required"`
}

type UpdateUserRequest struct {
	NombreUsuario *string `json:"nombre_usuario" validate:"omitempty,min=3,max=30"`
	Correo        *string `json:"correo" validate:"omitempty,email"`
	Contrasena    *string `json:"contrasena" validate:"omitempty,min=8"`
}

type ForgotPasswordRequest struct {
	Correo string `json:"correo" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token      string `json:"token" validate:"required"`
	Contrasena string `json:"contrasena" validate:"required,min=8"`
}

// AdminStats alimenta el panel de moderación.
type AdminStats struct {
	Usuarios            int `json:"usuarios"`
	UsuariosBaneados    int `json:"usuarios_baneados"`
	Publicaciones       int `json:"publicaciones"`
	Comentarios         int `json:"comentarios"`
	Likes               int `json:"likes"`
	ReportesPendientes  int `json:"reportes_pendientes"`
	ReportesResueltos   int `json:"reportes_resueltos"`
}
