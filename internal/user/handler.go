package user

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/melodia-social/melodia/pkg/auth"
	"github.com/melodia-social/melodia/pkg/storage"
)

type Handler struct {
	service      *Service
	storage      *storage.MinioStorage
	validate     *validator.Validate
	resetBaseURL string
}

func NewHandler(service *Service, storage *storage.MinioStorage, resetBaseURL string) *Handler {
	return &Handler{
		service:      service,
		storage:      storage,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		resetBaseURL: resetBaseURL,
	}
}

func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}

	u, err := h.service.Register(req)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "El correo ya está registrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}

	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Formato de solicitud inválido"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Formato de solicitud inválido"})
	}

	token, u, err := h.service.Authenticate(req.Correo, req.Contrasena)
	if err != nil {
		if errors.Is(err, ErrUserInactive) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "La cuenta está suspendida"})
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":   token,
		"usuario": u,
	})
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}

	if err := h.service.RequestPasswordReset(req.Correo, h.resetBaseURL); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Si el correo existe, se envió el enlace de recuperación"})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}

	if err := h.service.ResetPassword(req.Token, req.Contrasena); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Token inválido o caducado"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Contraseña actualizada"})
}

func (h *Handler) GetMe(c echo.Context) error {
	u, err := h.service.GetUser(auth.UserID(c))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Datos inválidos"})
	}

	if err := h.service.UpdateUser(auth.UserID(c), req); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error actualizando los datos"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Datos actualizados"})
}

func (h *Handler) UploadAvatar(c echo.Context) error {
	userID := auth.UserID(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Archivo ausente"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Archivo inválido"})
	}
	defer src.Close()

	objectName := fmt.Sprintf("avatares/%d%s", userID, filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if err := h.storage.PutFile(c.Request().Context(), objectName, src, file.Size, contentType); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error guardando el avatar"})
	}

	if err := h.service.UpdateAvatar(userID, objectName); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error guardando el avatar"})
	}
	return c.JSON(http.StatusOK, map[string]string{"avatar": objectName})
}

func (h *Handler) Follow(c echo.Context) error {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.Follow(auth.UserID(c), targetID); err != nil {
		switch {
		case errors.Is(err, ErrSelfFollow):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No puedes seguirte a ti mismo"})
		case errors.Is(err, ErrNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Ahora sigues a este usuario"})
}

func (h *Handler) Unfollow(c echo.Context) error {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.Unfollow(auth.UserID(c), targetID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Dejaste de seguir a este usuario"})
}

func (h *Handler) GetFollowers(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	followers, err := h.service.GetFollowers(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, followers)
}

func (h *Handler) GetFollowing(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	following, err := h.service.GetFollowing(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, following)
}

// Rutas de administración.

func (h *Handler) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.service.ListUsers(limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) BanUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.BanUser(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Usuario baneado"})
}

func (h *Handler) UnbanUser(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	}

	if err := h.service.UnbanUser(userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Usuario reactivado"})
}

func (h *Handler) GetAdminStats(c echo.Context) error {
	stats, err := h.service.GetAdminStats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Error del servidor"})
	}
	return c.JSON(http.StatusOK, stats)
}
