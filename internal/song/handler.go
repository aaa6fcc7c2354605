package song

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

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Falta el término de búsqueda"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	tracks, err := h.service.Search(c.Request().Context(), query, limit)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "El catálogo de música no está disponible"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"resultados": tracks})
}

func (h *Handler) GetSong(c echo.Context) error {
	song, err := h.service.GetSong(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Canción no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, song)
}

func (h *Handler) Rate(c echo.Context) error {
	var req RateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "La calificación debe estar entre 1 y 5"})
	}

	if err := h.service.Rate(auth.UserID(c), c.Param("id"), req.Calificacion); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Calificación guardada"})
}

func (h *Handler) GetRatings(c echo.Context) error {
	summary, err := h.service.GetRatingSummary(c.Param("id"), auth.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) Comment(c echo.Context) error {
	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "El comentario no puede estar vacío"})
	}

	comment, err := h.service.Comment(auth.UserID(c), c.Param("id"), req.Texto)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) GetComments(c echo.Context) error {
	comments, err := h.service.GetComments(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) GetNews(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 20 {
		limit = 10
	}

	news, err := h.service.GetNews(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"noticias": news})
}
