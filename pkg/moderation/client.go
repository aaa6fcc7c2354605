package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Result es el veredicto del moderador de contenido.
type Result struct {
	Permitido bool   `json:"permitido"`
	Motivo    string `json:"motivo,omitempty"`
}

// Client llama al servicio de moderación generativa antes de persistir
// una publicación o comentario.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

type checkRequest struct {
	Text string `json:"text"`
}

type checkResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Check evalúa un texto. Si el servicio no está configurado se permite
// todo; los errores de transporte los decide el llamador.
func (c *Client) Check(ctx context.Context, text string) (*Result, error) {
	if c.baseURL == "" {
		return &Result{Permitido: true}, nil
	}

	payload, err := json.Marshal(checkRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/moderate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("el moderador respondió %d", resp.StatusCode)
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return &Result{Permitido: body.Allowed, Motivo: body.Reason}, nil
}
