package recommendation

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/melodia-social/melodia/internal/song"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetPersonalizedPosts busca publicaciones no vistas de artistas afines:
// coincidencia directa de artista pesa 3, coincidencia por álbum pesa 1.
// Se excluyen las publicaciones propias, las ya likeadas y las canciones
// que el usuario ya conoce.
func (r *Repository) GetPersonalizedPosts(userID int, topArtists, knownSongIDs []string, limit int) ([]RecommendedPost, error) {
	query := `
		SELECT p.id, p.usuario_id, u.nombre_usuario, COALESCE(u.avatar, ''), p.texto, p.fecha,
			c.id, c.nombre, c.artista, c.album, COALESCE(c.preview_url, ''), COALESCE(c.imagen_url, ''),
			(SELECT COUNT(*) FROM reaccion re WHERE re.publicacion_id = p.id AND re.tipo = 'like') AS likes,
			(SELECT COUNT(*) FROM comentario co WHERE co.publicacion_id = p.id) AS comentarios,
			CASE WHEN c.artista = ANY($2) THEN 3 ELSE 1 END AS relevancia
		FROM publicacion p
		JOIN cancion c ON c.id = p.cancion_id
		JOIN usuario u ON u.id = p.usuario_id
		WHERE u.estado = 'activo'
			AND p.usuario_id <> $1
			AND NOT (p.cancion_id = ANY($3))
			AND NOT EXISTS (
				SELECT 1 FROM reaccion rl
				WHERE rl.publicacion_id = p.id AND rl.usuario_id = $1 AND rl.tipo = 'like')
			AND (c.artista = ANY($2) OR c.album IN (
				SELECT album FROM cancion WHERE artista = ANY($2)))
		ORDER BY relevancia DESC, likes DESC, p.fecha DESC
		LIMIT $4`
	return r.queryPosts(query, userID, pq.Array(topArtists), pq.Array(knownSongIDs), limit)
}

// GetPopularPosts es la rama de arranque en frío: las publicaciones con
// canción más likeadas de toda la red.
func (r *Repository) GetPopularPosts(limit int) ([]RecommendedPost, error) {
	query := `
		SELECT p.id, p.usuario_id, u.nombre_usuario, COALESCE(u.avatar, ''), p.texto, p.fecha,
			c.id, c.nombre, c.artista, c.album, COALESCE(c.preview_url, ''), COALESCE(c.imagen_url, ''),
			(SELECT COUNT(*) FROM reaccion re WHERE re.publicacion_id = p.id AND re.tipo = 'like') AS likes,
			(SELECT COUNT(*) FROM comentario co WHERE co.publicacion_id = p.id) AS comentarios,
			0 AS relevancia
		FROM publicacion p
		JOIN cancion c ON c.id = p.cancion_id
		JOIN usuario u ON u.id = p.usuario_id
		WHERE u.estado = 'activo' AND p.cancion_id IS NOT NULL
		ORDER BY likes DESC, p.fecha DESC
		LIMIT $1`
	return r.queryPosts(query, limit)
}

func (r *Repository) queryPosts(query string, args ...interface{}) ([]RecommendedPost, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []RecommendedPost{}
	for rows.Next() {
		var rp RecommendedPost
		var cancion song.Song
		if err := rows.Scan(&rp.ID, &rp.UsuarioID, &rp.NombreUsuario, &rp.Avatar, &rp.Texto, &rp.Fecha,
			&cancion.ID, &cancion.Nombre, &cancion.Artista, &cancion.Album,
			&cancion.PreviewURL, &cancion.ImagenURL,
			&rp.Likes, &rp.Comentarios, &rp.Relevancia); err != nil {
			return nil, err
		}
		rp.Cancion = &cancion
		posts = append(posts, rp)
	}
	return posts, rows.Err()
}

// GetSimilarUsers encuentra usuarios que calificaron o comentaron las
// mismas canciones. Una calificación aporta su valor en estrellas y un
// comentario directo aporta 5 fijo; el ranking manda canciones en común,
// luego afinidad y luego seguidores.
func (r *Repository) GetSimilarUsers(userID int, knownSongIDs []string, limit int) ([]RecommendedUser, error) {
	query := `
		SELECT u.id, u.nombre_usuario, COALESCE(u.avatar, ''),
			(SELECT COUNT(*) FROM seguimiento sf WHERE sf.seguido_id = u.id) AS seguidores,
			COUNT(DISTINCT x.cancion_id) AS canciones_comunes,
			SUM(x.puntaje) AS afinidad
		FROM (
			SELECT usuario_id, cancion_id, calificacion AS puntaje
			FROM calificaciones WHERE cancion_id = ANY($2)
			UNION ALL
			SELECT usuario_id, cancion_id, 5 AS puntaje
			FROM comentarios_canciones WHERE cancion_id = ANY($2)
		) x
		JOIN usuario u ON u.id = x.usuario_id
		WHERE u.id <> $1
			AND u.estado = 'activo'
			AND NOT EXISTS (
				SELECT 1 FROM seguimiento s
				WHERE s.seguidor_id = $1 AND s.seguido_id = u.id)
		GROUP BY u.id
		HAVING COUNT(DISTINCT x.cancion_id) > 0
		ORDER BY canciones_comunes DESC, afinidad DESC, seguidores DESC
		LIMIT $3`
	rows, err := r.db.Query(query, userID, pq.Array(knownSongIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []RecommendedUser{}
	for rows.Next() {
		var ru RecommendedUser
		if err := rows.Scan(&ru.ID, &ru.NombreUsuario, &ru.Avatar, &ru.Seguidores,
			&ru.CancionesComunes, &ru.Afinidad); err != nil {
			return nil, err
		}
		users = append(users, ru)
	}
	return users, rows.Err()
}

// GetPopularUsers es la rama de arranque en frío para "gente que te puede
// gustar": los más seguidos, excluyendo al propio usuario y a quienes ya
// sigue.
func (r *Repository) GetPopularUsers(userID, limit int) ([]RecommendedUser, error) {
	query := `
		SELECT u.id, u.nombre_usuario, COALESCE(u.avatar, ''),
			COUNT(s.seguidor_id) AS seguidores
		FROM usuario u
		LEFT JOIN seguimiento s ON s.seguido_id = u.id
		WHERE u.id <> $1
			AND u.estado = 'activo'
			AND NOT EXISTS (
				SELECT 1 FROM seguimiento sf
				WHERE sf.seguidor_id = $1 AND sf.seguido_id = u.id)
		GROUP BY u.id
		ORDER BY seguidores DESC
		LIMIT $2`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []RecommendedUser{}
	for rows.Next() {
		var ru RecommendedUser
		if err := rows.Scan(&ru.ID, &ru.NombreUsuario, &ru.Avatar, &ru.Seguidores); err != nil {
			return nil, err
		}
		users = append(users, ru)
	}
	return users, rows.Err()
}
