package song

import "time"

// Song es la copia local de una pista del catálogo externo. El id es el
// del catálogo, nunca se genera aquí.
type Song struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Artista    string `json:"artista"`
	Album      string `json:"album"`
	PreviewURL string `json:"preview_url,omitempty"`
	ImagenURL  string `json:"imagen_url,omitempty"`
	Genero     string `json:"genero,omitempty"`
}

type RateRequest struct {
	Calificacion int `json:"calificacion" validate:"required,min=1,max=5"`
}

type RatingSummary struct {
	Promedio float64 `json:"promedio"`
	Total    int     `json:"total"`
	Propia   int     `json:"propia,omitempty"`
}

type CommentRequest struct {
	Texto string `json:"texto" validate:"required,max=500"`
}

type Comment struct {
	ID            int       `json:"id"`
	CancionID     string    `json:"cancion_id"`
	UsuarioID     int       `json:"usuario_id"`
	NombreUsuario string    `json:"nombre_usuario"`
	Texto         string    `json:"texto"`
	Fecha         time.Time `json:"fecha"`
}

// NewsItem agrupa la actividad reciente alrededor de una canción en
// tendencia para la sección de noticias.
type NewsItem struct {
	Cancion       Song       `json:"cancion"`
	Interacciones int        `json:"interacciones"`
	Publicaciones []NewsPost `json:"publicaciones"`
}

type NewsPost struct {
	ID            int       `json:"id"`
	UsuarioID     int       `json:"usuario_id"`
	NombreUsuario string    `json:"nombre_usuario"`
	Texto         string    `json:"texto"`
	Fecha         time.Time `json:"fecha"`
}
