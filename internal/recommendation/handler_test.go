package recommendation

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, svc *Service, path string, handlerFn func(*Handler) echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", 7)

	handler := NewHandler(svc, zerolog.Nop())
	require.NoError(t, handlerFn(handler)(c))
	return rec
}

func TestGetRecommendationsColdStartEnvelope(t *testing.T) {
	svc := newTestService(&InteractionBundle{}, nil, &fakeRepo{popular: []RecommendedPost{{}}})

	rec := doRequest(t, svc, "/api/recommendations", func(h *Handler) echo.HandlerFunc {
		return h.GetRecommendations
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "popular", body["algorithm"])
	assert.Equal(t, "Usuario sin interacciones previas", body["reason"])
}

func TestGetRecommendationsGenericErrorMessage(t *testing.T) {
	svc := NewService(
		&fakeCollector{err: errors.New("pq: relation does not exist")},
		&fakeEnricher{},
		&fakeRepo{},
		zerolog.Nop(),
	)

	rec := doRequest(t, svc, "/api/recommendations", func(h *Handler) echo.HandlerFunc {
		return h.GetRecommendations
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	// El detalle interno nunca se filtra al cliente.
	assert.NotContains(t, rec.Body.String(), "pq:")
	assert.Contains(t, rec.Body.String(), "Error del servidor")
}

func TestGetUserRecommendations(t *testing.T) {
	bundle := &InteractionBundle{
		Ratings: []RatingInteraction{{CancionID: "s1", Calificacion: 5}},
	}
	svc := newTestService(bundle, nil, &fakeRepo{similar: []RecommendedUser{{CancionesComunes: 1}}})

	rec := doRequest(t, svc, "/api/recommendations/users?limit=5", func(h *Handler) echo.HandlerFunc {
		return h.GetUserRecommendations
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "taste_matching_enhanced", body["algorithm"])
}

func TestGetAnalysis(t *testing.T) {
	bundle := &InteractionBundle{
		Posts: []SongInteraction{{CancionID: "s1", Artista: "X", Interacciones: 1}},
	}
	svc := newTestService(bundle, nil, &fakeRepo{})

	rec := doRequest(t, svc, "/api/recommendations/analysis", func(h *Handler) echo.HandlerFunc {
		return h.GetAnalysis
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var body TasteAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.TotalInteractions)
	assert.Equal(t, 1, body.RecentActivity.Posts)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 10, parseLimit("", 10))
	assert.Equal(t, 10, parseLimit("abc", 10))
	assert.Equal(t, 10, parseLimit("-3", 10))
	assert.Equal(t, 25, parseLimit("25", 10))
	assert.Equal(t, 50, parseLimit("900", 10))
}
