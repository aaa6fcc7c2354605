package moderation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/moderate", r.URL.Path)
		assert.Equal(t, "Bearer clave", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"allowed": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "clave")
	result, err := client.Check(context.Background(), "hola mundo")

	require.NoError(t, err)
	assert.True(t, result.Permitido)
}

func TestCheckRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"allowed": false, "reason": "lenguaje ofensivo"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	result, err := client.Check(context.Background(), "...")

	require.NoError(t, err)
	assert.False(t, result.Permitido)
	assert.Equal(t, "lenguaje ofensivo", result.Motivo)
}

// Sin URL configurada el moderador no bloquea nada.
func TestCheckUnconfigured(t *testing.T) {
	client := NewClient("", "")
	result, err := client.Check(context.Background(), "cualquier cosa")

	require.NoError(t, err)
	assert.True(t, result.Permitido)
}

func TestCheckUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.Check(context.Background(), "texto")

	assert.Error(t, err)
}
