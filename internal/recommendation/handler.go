package recommendation

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/melodia-social/melodia/pkg/auth"
)

type Handler struct {
	service *Service
	logger  zerolog.Logger
}

func NewHandler(service *Service, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "recommendation").Logger(),
	}
}

func (h *Handler) GetRecommendations(c echo.Context) error {
	userID := auth.UserID(c)
	limit := parseLimit(c.QueryParam("limit"), 10)

	result, err := h.service.RecommendPosts(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Int("usuario", userID).Msg("error generando recomendaciones")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetUserRecommendations(c echo.Context) error {
	userID := auth.UserID(c)
	limit := parseLimit(c.QueryParam("limit"), 10)

	result, err := h.service.RecommendUsers(c.Request().Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Int("usuario", userID).Msg("error generando recomendaciones de usuarios")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) GetAnalysis(c echo.Context) error {
	userID := auth.UserID(c)

	analysis, err := h.service.Analyze(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Int("usuario", userID).Msg("error analizando el perfil de gustos")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, analysis)
}

func parseLimit(raw string, fallback int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > 50 {
		return 50
	}
	return limit
}
