package post

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/melodia-social/melodia/pkg/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El texto no puede estar vacío"})
	}

	p, err := h.service.CreatePost(c.Request().Context(), auth.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrContenidoRechazado):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "El contenido infringe las normas de la comunidad"})
		case errors.Is(err, ErrCancionInvalida):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Canción no encontrada en el catálogo"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
		}
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetFeed(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	posts, err := h.service.GetFeed(auth.UserID(c), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"publicaciones": posts})
}

func (h *Handler) GetPost(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	p, err := h.service.GetPost(postID, auth.UserID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Publicación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePost(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	role, _ := c.Get("role").(string)
	if err := h.service.DeletePost(postID, auth.UserID(c), role); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Publicación no encontrada"})
		case errors.Is(err, ErrNoAutorizado):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "No puedes eliminar esta publicación"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Publicación eliminada"})
}

func (h *Handler) Like(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.Like(postID, auth.UserID(c)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Publicación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Like registrado"})
}

func (h *Handler) Unlike(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.Unlike(postID, auth.UserID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Like eliminado"})
}

func (h *Handler) Comment(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El comentario no puede estar vacío"})
	}

	comment, err := h.service.Comment(c.Request().Context(), postID, auth.UserID(c), req.Texto)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Publicación no encontrada"})
		case errors.Is(err, ErrContenidoRechazado):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "El contenido infringe las normas de la comunidad"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
		}
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) GetComments(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	comments, err := h.service.GetComments(postID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) Report(c echo.Context) error {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	var req ReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El motivo no puede estar vacío"})
	}

	report, err := h.service.Report(postID, auth.UserID(c), req.Motivo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Publicación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusCreated, report)
}

// Rutas de administración.

func (h *Handler) ListReports(c echo.Context) error {
	reports, err := h.service.ListReports(c.QueryParam("estado"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, reports)
}

func (h *Handler) ResolveReport(c echo.Context) error {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	var req ResolveReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Acción desconocida"})
	}

	if err := h.service.ResolveReport(reportID, req.Accion); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Reporte no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Reporte resuelto"})
}
