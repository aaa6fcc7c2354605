package post

import (
	"database/sql"
	"errors"

	"github.com/melodia-social/melodia/internal/song"
)

var ErrNotFound = errors.New("publicación no encontrada")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePost(p *Post) error {
	var cancionID interface{}
	if p.Cancion != nil {
		cancionID = p.Cancion.ID
	}
	query := `INSERT INTO publicacion (usuario_id, cancion_id, texto)
		VALUES ($1, $2, $3) RETURNING id, fecha`
	return r.db.QueryRow(query, p.UsuarioID, cancionID, p.Texto).Scan(&p.ID, &p.Fecha)
}

const postColumns = `p.id, p.usuario_id, u.nombre_usuario, COALESCE(u.avatar, ''), p.texto, p.fecha,
	p.cancion_id, c.nombre, c.artista, c.album, c.preview_url, c.imagen_url,
	(SELECT COUNT(*) FROM reaccion re WHERE re.publicacion_id = p.id AND re.tipo = 'like') AS likes,
	(SELECT COUNT(*) FROM comentario co WHERE co.publicacion_id = p.id) AS comentarios,
	EXISTS (SELECT 1 FROM reaccion rm WHERE rm.publicacion_id = p.id AND rm.usuario_id = $1 AND rm.tipo = 'like') AS me_gusta`

func (r *Repository) GetPostByID(postID, viewerID int) (*Post, error) {
	query := `SELECT ` + postColumns + `
		FROM publicacion p
		JOIN usuario u ON u.id = p.usuario_id
		LEFT JOIN cancion c ON c.id = p.cancion_id
		WHERE p.id = $2`
	row := r.db.QueryRow(query, viewerID, postID)

	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetFeed devuelve las publicaciones propias y de los usuarios seguidos,
// más recientes primero.
func (r *Repository) GetFeed(userID, limit, offset int) ([]Post, error) {
	query := `SELECT ` + postColumns + `
		FROM publicacion p
		JOIN usuario u ON u.id = p.usuario_id
		LEFT JOIN cancion c ON c.id = p.cancion_id
		WHERE u.estado = 'activo'
			AND (p.usuario_id = $1 OR p.usuario_id IN (
				SELECT seguido_id FROM seguimiento WHERE seguidor_id = $1))
		ORDER BY p.fecha DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	var cancionID, nombre, artista, album, previewURL, imagenURL sql.NullString
	err := row.Scan(&p.ID, &p.UsuarioID, &p.NombreUsuario, &p.Avatar, &p.Texto, &p.Fecha,
		&cancionID, &nombre, &artista, &album, &previewURL, &imagenURL,
		&p.Likes, &p.Comentarios, &p.MeGusta)
	if err != nil {
		return nil, err
	}
	if cancionID.Valid {
		p.Cancion = &song.Song{
			ID:         cancionID.String,
			Nombre:     nombre.String,
			Artista:    artista.String,
			Album:      album.String,
			PreviewURL: previewURL.String,
			ImagenURL:  imagenURL.String,
		}
	}
	return &p, nil
}

func (r *Repository) DeletePost(postID int) error {
	res, err := r.db.Exec("DELETE FROM publicacion WHERE id = $1", postID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLike respeta la unicidad (publicacion, usuario, tipo); repetir el
// like no duplica la fila.
func (r *Repository) AddLike(postID, userID int) error {
	_, err := r.db.Exec(`INSERT INTO reaccion (publicacion_id, usuario_id, tipo)
		VALUES ($1, $2, 'like') ON CONFLICT DO NOTHING`, postID, userID)
	return err
}

func (r *Repository) RemoveLike(postID, userID int) error {
	_, err := r.db.Exec(`DELETE FROM reaccion
		WHERE publicacion_id = $1 AND usuario_id = $2 AND tipo = 'like'`, postID, userID)
	return err
}

func (r *Repository) CreateComment(postID, userID int, texto string) (*Comment, error) {
	var comment Comment
	query := `INSERT INTO comentario (publicacion_id, usuario_id, texto)
		VALUES ($1, $2, $3) RETURNING id, fecha`
	if err := r.db.QueryRow(query, postID, userID, texto).Scan(&comment.ID, &comment.Fecha); err != nil {
		return nil, err
	}
	comment.PublicacionID = postID
	comment.UsuarioID = userID
	comment.Texto = texto
	return &comment, nil
}

func (r *Repository) GetComments(postID int) ([]Comment, error) {
	query := `SELECT co.id, co.publicacion_id, co.usuario_id, u.nombre_usuario, co.texto, co.fecha
		FROM comentario co
		JOIN usuario u ON u.id = co.usuario_id
		WHERE co.publicacion_id = $1
		ORDER BY co.fecha ASC`
	rows, err := r.db.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PublicacionID, &c.UsuarioID, &c.NombreUsuario, &c.Texto, &c.Fecha); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *Repository) CreateReport(postID, userID int, motivo string) (*Report, error) {
	var report Report
	query := `INSERT INTO reporte (publicacion_id, usuario_id, motivo, estado)
		VALUES ($1, $2, $3, 'pendiente') RETURNING id, fecha`
	if err := r.db.QueryRow(query, postID, userID, motivo).Scan(&report.ID, &report.Fecha); err != nil {
		return nil, err
	}
	report.PublicacionID = postID
	report.UsuarioID = userID
	report.Motivo = motivo
	report.Estado = ReporteEstadoPendiente
	return &report, nil
}

func (r *Repository) ListReports(estado string) ([]Report, error) {
	query := `SELECT id, publicacion_id, usuario_id, motivo, estado, fecha
		FROM reporte WHERE estado = $1 ORDER BY fecha ASC`
	rows, err := r.db.Query(query, estado)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.PublicacionID, &rep.UsuarioID, &rep.Motivo, &rep.Estado, &rep.Fecha); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// ResolveReport marca el reporte como resuelto y, si procede, elimina
// la publicación dentro de la misma transacción.
func (r *Repository) ResolveReport(reportID int, eliminarPublicacion bool) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var postID int
	err = tx.QueryRow(`UPDATE reporte SET estado = 'resuelto'
		WHERE id = $1 AND estado = 'pendiente' RETURNING publicacion_id`, reportID).Scan(&postID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if eliminarPublicacion {
		if _, err := tx.Exec("DELETE FROM publicacion WHERE id = $1", postID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
