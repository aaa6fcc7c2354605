package recommendation

import "database/sql"

// Collector reúne las cinco clases de interacción de un usuario. Solo
// lecturas; cualquier error de consulta tumba la petición completa.
type Collector struct {
	db *sql.DB
}

func NewCollector(db *sql.DB) *Collector {
	return &Collector{db: db}
}

func (c *Collector) Collect(userID int) (*InteractionBundle, error) {
	bundle := &InteractionBundle{}
	var err error

	// Canciones sobre las que el usuario publicó. El artista viene de la
	// caché local porque publicar siempre cachea la canción.
	bundle.Posts, err = c.querySongInteractions(`
		SELECT p.cancion_id, c.artista, c.album, c.nombre, COUNT(*) AS interacciones
		FROM publicacion p
		JOIN cancion c ON c.id = p.cancion_id
		WHERE p.usuario_id = $1 AND p.cancion_id IS NOT NULL
		GROUP BY p.cancion_id, c.artista, c.album, c.nombre`, userID)
	if err != nil {
		return nil, err
	}

	bundle.Likes, err = c.querySongInteractions(`
		SELECT p.cancion_id, c.artista, c.album, c.nombre, COUNT(*) AS interacciones
		FROM reaccion r
		JOIN publicacion p ON p.id = r.publicacion_id
		JOIN cancion c ON c.id = p.cancion_id
		WHERE r.usuario_id = $1 AND r.tipo = 'like' AND p.cancion_id IS NOT NULL
		GROUP BY p.cancion_id, c.artista, c.album, c.nombre`, userID)
	if err != nil {
		return nil, err
	}

	bundle.Comments, err = c.querySongInteractions(`
		SELECT p.cancion_id, c.artista, c.album, c.nombre, COUNT(*) AS interacciones
		FROM comentario co
		JOIN publicacion p ON p.id = co.publicacion_id
		JOIN cancion c ON c.id = p.cancion_id
		WHERE co.usuario_id = $1 AND p.cancion_id IS NOT NULL
		GROUP BY p.cancion_id, c.artista, c.album, c.nombre`, userID)
	if err != nil {
		return nil, err
	}

	// Calificaciones crudas, una fila por calificación. Sin join con la
	// caché: la canción puede no existir localmente y sus metadatos los
	// resuelve el enriquecedor.
	bundle.Ratings, err = c.queryRatings(userID)
	if err != nil {
		return nil, err
	}

	bundle.SongComments, err = c.querySongCommentCounts(userID)
	if err != nil {
		return nil, err
	}

	return bundle, nil
}

func (c *Collector) querySongInteractions(query string, userID int) ([]SongInteraction, error) {
	rows, err := c.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := []SongInteraction{}
	for rows.Next() {
		var si SongInteraction
		if err := rows.Scan(&si.CancionID, &si.Artista, &si.Album, &si.Nombre, &si.Interacciones); err != nil {
			return nil, err
		}
		interactions = append(interactions, si)
	}
	return interactions, rows.Err()
}

func (c *Collector) queryRatings(userID int) ([]RatingInteraction, error) {
	rows, err := c.db.Query(
		"SELECT cancion_id, calificacion FROM calificaciones WHERE usuario_id = $1", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []RatingInteraction{}
	for rows.Next() {
		var r RatingInteraction
		if err := rows.Scan(&r.CancionID, &r.Calificacion); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (c *Collector) querySongCommentCounts(userID int) ([]SongInteraction, error) {
	rows, err := c.db.Query(`
		SELECT cancion_id, COUNT(*) AS interacciones
		FROM comentarios_canciones
		WHERE usuario_id = $1
		GROUP BY cancion_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := []SongInteraction{}
	for rows.Next() {
		var si SongInteraction
		if err := rows.Scan(&si.CancionID, &si.Interacciones); err != nil {
			return nil, err
		}
		interactions = append(interactions, si)
	}
	return interactions, rows.Err()
}
