package post

import (
	"time"

	"github.com/melodia-social/melodia/internal/song"
)

type Post struct {
	ID            int        `json:"id"`
	UsuarioID     int        `json:"usuario_id"`
	NombreUsuario string     `json:"nombre_usuario"`
	Avatar        string     `json:"avatar,omitempty"`
	Cancion       *song.Song `json:"cancion,omitempty"`
	Texto         string     `json:"texto"`
	Fecha         time.Time  `json:"fecha"`
	Likes         int        `json:"likes"`
	Comentarios   int        `json:"comentarios"`
	MeGusta       bool       `json:"me_gusta"`
}

type CreatePostRequest struct {
	Texto     string `json:"texto" validate:"required,max=1000"`
	CancionID string `json:"cancion_id"`
}

type Comment struct {
	ID            int       `json:"id"`
	PublicacionID int       `json:"publicacion_id"`
	UsuarioID     int       `json:"usuario_id"`
	NombreUsuario string    `json:"nombre_usuario"`
	Texto         string    `json:"texto"`
	Fecha         time.Time `json:"fecha"`
}

type CommentRequest struct {
	Texto string `json:"texto" validate:"required,max=500"`
}

const (
	ReporteEstadoPendiente = "pendiente"
	ReporteEstadoResuelto  = "resuelto"
)

type Report struct {
	ID            int       `json:"id"`
	PublicacionID int       `json:"publicacion_id"`
	UsuarioID     int       `json:"usuario_id"`
	Motivo        string    `json:"motivo"`
	Estado        string    `json:"estado"`
	Fecha         time.Time `json:"fecha"`
}

type ReportRequest struct {
	Motivo string `json:"motivo" validate:"required,max=300"`
}

type ResolveReportRequest struct {
	Accion string `json:"accion" validate:"required,oneof=descartar eliminar_publicacion"`
}
