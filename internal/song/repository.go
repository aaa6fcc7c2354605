package song

import (
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("canción no encontrada")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetSongByID(id string) (*Song, error) {
	var s Song
	query := `SELECT id, nombre, artista, album, COALESCE(preview_url, ''), COALESCE(imagen_url, ''), COALESCE(genero, '')
		FROM cancion WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&s.ID, &s.Nombre, &s.Artista, &s.Album, &s.PreviewURL, &s.ImagenURL, &s.Genero)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSong cachea la pista; si ya existe se actualizan los metadatos.
func (r *Repository) UpsertSong(s *Song) error {
	query := `INSERT INTO cancion (id, nombre, artista, album, preview_url, imagen_url, genero)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			artista = EXCLUDED.artista,
			album = EXCLUDED.album,
			preview_url = EXCLUDED.preview_url,
			imagen_url = EXCLUDED.imagen_url,
			genero = EXCLUDED.genero`
	_, err := r.db.Exec(query, s.ID, s.Nombre, s.Artista, s.Album, s.PreviewURL, s.ImagenURL, s.Genero)
	return err
}

// UpsertRating garantiza como máximo una calificación por (usuario, canción).
func (r *Repository) UpsertRating(usuarioID int, cancionID string, calificacion int) error {
	query := `INSERT INTO calificaciones (usuario_id, cancion_id, calificacion)
		VALUES ($1, $2, $3)
		ON CONFLICT (usuario_id, cancion_id) DO UPDATE SET calificacion = EXCLUDED.calificacion`
	_, err := r.db.Exec(query, usuarioID, cancionID, calificacion)
	return err
}

func (r *Repository) GetRatingSummary(cancionID string, usuarioID int) (*RatingSummary, error) {
	var summary RatingSummary
	query := `SELECT COALESCE(AVG(calificacion), 0), COUNT(*),
			COALESCE(MAX(CASE WHEN usuario_id = $2 THEN calificacion END), 0)
		FROM calificaciones WHERE cancion_id = $1`
	err := r.db.QueryRow(query, cancionID, usuarioID).
		Scan(&summary.Promedio, &summary.Total, &summary.Propia)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *Repository) CreateComment(usuarioID int, cancionID, texto string) (*Comment, error) {
	var comment Comment
	query := `INSERT INTO comentarios_canciones (usuario_id, cancion_id, texto)
		VALUES ($1, $2, $3) RETURNING id, fecha`
	err := r.db.QueryRow(query, usuarioID, cancionID, texto).Scan(&comment.ID, &comment.Fecha)
	if err != nil {
		return nil, err
	}
	comment.UsuarioID = usuarioID
	comment.CancionID = cancionID
	comment.Texto = texto
	return &comment, nil
}

func (r *Repository) GetComments(cancionID string) ([]Comment, error) {
	query := `SELECT cc.id, cc.cancion_id, cc.usuario_id, u.nombre_usuario, cc.texto, cc.fecha
		FROM comentarios_canciones cc
		JOIN usuario u ON u.id = cc.usuario_id
		WHERE cc.cancion_id = $1
		ORDER BY cc.fecha DESC`
	rows, err := r.db.Query(query, cancionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.CancionID, &c.UsuarioID, &c.NombreUsuario, &c.Texto, &c.Fecha); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetTrendingNews devuelve las canciones con más actividad (publicaciones,
// likes y comentarios) en los últimos 30 días, con sus publicaciones más
// recientes.
func (r *Repository) GetTrendingNews(limit int) ([]NewsItem, error) {
	query := `SELECT c.id, c.nombre, c.artista, c.album,
			COALESCE(c.preview_url, ''), COALESCE(c.imagen_url, ''), COALESCE(c.genero, ''),
			COUNT(DISTINCT p.id) + COUNT(DISTINCT re.publicacion_id || '-' || re.usuario_id) + COUNT(DISTINCT co.id) AS interacciones
		FROM cancion c
		JOIN publicacion p ON p.cancion_id = c.id AND p.fecha > NOW() - INTERVAL '30 days'
		LEFT JOIN reaccion re ON re.publicacion_id = p.id AND re.tipo = 'like'
		LEFT JOIN comentario co ON co.publicacion_id = p.id
		GROUP BY c.id
		ORDER BY interacciones DESC
		LIMIT $1`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []NewsItem{}
	for rows.Next() {
		var item NewsItem
		if err := rows.Scan(&item.Cancion.ID, &item.Cancion.Nombre, &item.Cancion.Artista,
			&item.Cancion.Album, &item.Cancion.PreviewURL, &item.Cancion.ImagenURL,
			&item.Cancion.Genero, &item.Interacciones); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		posts, err := r.getRecentPosts(items[i].Cancion.ID, 3)
		if err != nil {
			return nil, err
		}
		items[i].Publicaciones = posts
	}
	return items, nil
}

func (r *Repository) getRecentPosts(cancionID string, limit int) ([]NewsPost, error) {
	query := `SELECT p.id, p.usuario_id, u.nombre_usuario, p.texto, p.fecha
		FROM publicacion p
		JOIN usuario u ON u.id = p.usuario_id
		WHERE p.cancion_id = $1
		ORDER BY p.fecha DESC
		LIMIT $2`
	rows, err := r.db.Query(query, cancionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []NewsPost{}
	for rows.Next() {
		var p NewsPost
		if err := rows.Scan(&p.ID, &p.UsuarioID, &p.NombreUsuario, &p.Texto, &p.Fecha); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
