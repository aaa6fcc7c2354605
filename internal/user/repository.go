package user

import (
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("usuario no encontrado")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(u *User) error {
	query := `INSERT INTO usuario (nombre_usuario, correo, contrasena, rol, estado)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, fecha_registro`
	return r.db.QueryRow(query, u.NombreUsuario, u.Correo, u.Contrasena, u.Rol, u.Estado).
		Scan(&u.ID, &u.FechaRegistro)
}

func (r *Repository) GetUserByEmail(correo string) (*User, error) {
	var u User
	query := `SELECT id, nombre_usuario, correo, contrasena, rol, estado, COALESCE(avatar, ''), fecha_registro
		FROM usuario WHERE correo = $1`
	err := r.db.QueryRow(query, correo).
		Scan(&u.ID, &u.NombreUsuario, &u.Correo, &u.Contrasena, &u.Rol, &u.Estado, &u.Avatar, &u.FechaRegistro)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByID(userID int) (*User, error) {
	var u User
	query := `SELECT id, nombre_usuario, correo, contrasena, rol, estado, COALESCE(avatar, ''), fecha_registro
		FROM usuario WHERE id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&u.ID, &u.NombreUsuario, &u.Correo, &u.Contrasena, &u.Rol, &u.Estado, &u.Avatar, &u.FechaRegistro)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateUser(userID int, req *UpdateUserRequest) error {
	query := `UPDATE usuario SET
		nombre_usuario = COALESCE($1, nombre_usuario),
		correo = COALESCE($2, correo),
		contrasena = COALESCE($3, contrasena)
		WHERE id = $4`
	_, err := r.db.Exec(query, req.NombreUsuario, req.Correo, req.Contrasena, userID)
	return err
}

func (r *Repository) UpdatePassword(correo, hashed string) error {
	res, err := r.db.Exec("UPDATE usuario SET contrasena = $1 WHERE correo = $2", hashed, correo)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateAvatar(userID int, objectName string) error {
	_, err := r.db.Exec("UPDATE usuario SET avatar = $1 WHERE id = $2", objectName, userID)
	return err
}

func (r *Repository) SetEstado(userID int, estado string) error {
	res, err := r.db.Exec("UPDATE usuario SET estado = $1 WHERE id = $2", estado, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) FollowUser(seguidorID, seguidoID int) error {
	_, err := r.db.Exec(`INSERT INTO seguimiento (seguidor_id, seguido_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`, seguidorID, seguidoID)
	return err
}

func (r *Repository) UnfollowUser(seguidorID, seguidoID int) error {
	_, err := r.db.Exec("DELETE FROM seguimiento WHERE seguidor_id = $1 AND seguido_id = $2", seguidorID, seguidoID)
	return err
}

func (r *Repository) IsFollowing(seguidorID, seguidoID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM seguimiento WHERE seguidor_id = $1 AND seguido_id = $2
	)`
	err := r.db.QueryRow(query, seguidorID, seguidoID).Scan(&exists)
	return exists, err
}

func (r *Repository) GetFollowers(userID int) ([]Profile, error) {
	query := `SELECT u.id, u.nombre_usuario, COALESCE(u.avatar, ''),
			(SELECT COUNT(*) FROM seguimiento s2 WHERE s2.seguido_id = u.id)
		FROM seguimiento s
		JOIN usuario u ON u.id = s.seguidor_id
		WHERE s.seguido_id = $1 AND u.estado = 'activo'
		ORDER BY u.nombre_usuario`
	return r.queryProfiles(query, userID)
}

func (r *Repository) GetFollowing(userID int) ([]Profile, error) {
	query := `SELECT u.id, u.nombre_usuario, COALESCE(u.avatar, ''),
			(SELECT COUNT(*) FROM seguimiento s2 WHERE s2.seguido_id = u.id)
		FROM seguimiento s
		JOIN usuario u ON u.id = s.seguido_id
		WHERE s.seguidor_id = $1 AND u.estado = 'activo'
		ORDER BY u.nombre_usuario`
	return r.queryProfiles(query, userID)
}

func (r *Repository) queryProfiles(query string, args ...interface{}) ([]Profile, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.NombreUsuario, &p.Avatar, &p.Seguidores); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *Repository) ListUsers(limit, offset int) ([]User, error) {
	query := `SELECT id, nombre_usuario, correo, rol, estado, COALESCE(avatar, ''), fecha_registro
		FROM usuario ORDER BY fecha_registro DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.NombreUsuario, &u.Correo, &u.Rol, &u.Estado, &u.Avatar, &u.FechaRegistro); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repository) GetAdminStats() (*AdminStats, error) {
	var s AdminStats
	query := `SELECT
		(SELECT COUNT(*) FROM usuario),
		(SELECT COUNT(*) FROM usuario WHERE estado = 'baneado'),
		(SELECT COUNT(*) FROM publicacion),
		(SELECT COUNT(*) FROM comentario),
		(SELECT COUNT(*) FROM reaccion WHERE tipo = 'like'),
		(SELECT COUNT(*) FROM reporte WHERE estado = 'pendiente'),
		(SELECT COUNT(*) FROM reporte WHERE estado = 'resuelto')`
	err := r.db.QueryRow(query).Scan(
		&s.Usuarios, &s.UsuariosBaneados, &s.Publicaciones,
		&s.Comentarios, &s.Likes, &s.ReportesPendientes, &s.ReportesResueltos)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
