package recommendation

import (
	"github.com/melodia-social/melodia/internal/post"
	"github.com/melodia-social/melodia/internal/user"
)

// SongInteraction es una fila agregada de actividad del usuario sobre una
// canción (publicaciones, likes, comentarios de publicaciones o comentarios
// directos de canciones).
type SongInteraction struct {
	CancionID     string
	Artista       string
	Album         string
	Nombre        string
	Interacciones int
}

// RatingInteraction es una calificación cruda, sin agregación: una fila
// por calificación.
type RatingInteraction struct {
	CancionID    string
	Calificacion int
}

// InteractionBundle reúne las cinco clases de interacción de un usuario
// para una pasada de puntuación.
type InteractionBundle struct {
	Posts        []SongInteraction
	Likes        []SongInteraction
	Comments     []SongInteraction
	Ratings      []RatingInteraction
	SongComments []SongInteraction
}

// TotalRows cuenta filas crudas en las cinco categorías. Es la señal de
// arranque en frío, no una métrica de afinidad.
func (b *InteractionBundle) TotalRows() int {
	return len(b.Posts) + len(b.Likes) + len(b.Comments) + len(b.Ratings) + len(b.SongComments)
}

// TrackMeta son los metadatos resueltos por el enriquecedor para una
// canción que no está en la caché local.
type TrackMeta struct {
	Nombre  string
	Artista string
	Album   string
}

// PreferenceProfile es el perfil de gustos calculado en cada petición.
// Nunca se cachea entre peticiones.
type PreferenceProfile struct {
	TopArtists        []string
	ArtistScores      map[string]float64
	SongScores        map[string]float64
	KnownSongIDs      map[string]struct{}
	TotalInteractions int
}

// KnownSongIDList devuelve los ids conocidos como slice para las
// cláusulas de exclusión en SQL.
func (p *PreferenceProfile) KnownSongIDList() []string {
	ids := make([]string, 0, len(p.KnownSongIDs))
	for id := range p.KnownSongIDs {
		ids = append(ids, id)
	}
	return ids
}

type RecommendedPost struct {
	post.Post
	Relevancia int `json:"relevancia,omitempty"`
}

type RecommendedUser struct {
	user.Profile
	CancionesComunes int     `json:"canciones_comunes,omitempty"`
	Afinidad         float64 `json:"afinidad,omitempty"`
}

// Etiquetas de algoritmo expuestas en las respuestas.
const (
	AlgorithmPopular       = "popular"
	AlgorithmCollaborative = "collaborative_filtering"
	AlgorithmPopularUsers  = "popular_users"
	AlgorithmTasteMatching = "taste_matching_enhanced"
)

const coldStartReason = "Usuario sin interacciones previas"

type PostRecommendations struct {
	Recommendations   []RecommendedPost `json:"recommendations"`
	Algorithm         string            `json:"algorithm"`
	TotalInteractions int               `json:"totalInteractions"`
	TopArtists        []string          `json:"topArtists,omitempty"`
	Reason            string            `json:"reason,omitempty"`
}

type UserRecommendations struct {
	Recommendations []RecommendedUser `json:"recommendations"`
	Algorithm       string            `json:"algorithm"`
	TopArtists      []string          `json:"topArtists,omitempty"`
}

type ArtistScore struct {
	Artist string  `json:"artist"`
	Score  float64 `json:"score"`
}

type ActivityCounts struct {
	Posts        int `json:"posts"`
	Likes        int `json:"likes"`
	Comments     int `json:"comments"`
	Ratings      int `json:"ratings"`
	SongComments int `json:"songComments"`
}

type TasteAnalysis struct {
	TotalInteractions int            `json:"totalInteractions"`
	TopArtists        []ArtistScore  `json:"topArtists"`
	RecentActivity    ActivityCounts `json:"recentActivity"`
	AverageRating     float64        `json:"averageRating"`
}
