package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Track es la vista local de una pista del catálogo externo.
type Track struct {
	ID         string `json:"id"`
	Nombre     string `json:"nombre"`
	Artista    string `json:"artista"`
	Album      string `json:"album"`
	PreviewURL string `json:"preview_url,omitempty"`
	ImagenURL  string `json:"imagen_url,omitempty"`
	Genero     string `json:"genero,omitempty"`
}

type trackResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	PreviewURL string   `json:"preview_url"`
	Genres     []string `json:"genres"`
}

type searchResponse struct {
	Tracks struct {
		Items []trackResponse `json:"items"`
	} `json:"tracks"`
}

// Client consulta el catálogo de música. Cada petición lleva un timeout
// propio y el circuito se abre tras fallos consecutivos para no castigar
// al upstream cuando ya no responde.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
}

func NewClient(baseURL string) *Client {
	settings := gobreaker.Settings{
		Name:    "music-catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		timeout: 3 * time.Second,
	}
}

// GetTrack busca una pista por id. Devuelve error si el catálogo no
// responde dentro del timeout o el circuito está abierto.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var resp trackResponse
		if err := c.getJSON(reqCtx, fmt.Sprintf("%s/track/%s", c.baseURL, url.PathEscape(id)), &resp); err != nil {
			return nil, err
		}
		return toTrack(resp), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Track), nil
}

// SearchTracks consulta el buscador del catálogo.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		endpoint := fmt.Sprintf("%s/search?q=%s&limit=%d", c.baseURL, url.QueryEscape(query), limit)
		var resp searchResponse
		if err := c.getJSON(reqCtx, endpoint, &resp); err != nil {
			return nil, err
		}

		tracks := make([]Track, 0, len(resp.Tracks.Items))
		for _, item := range resp.Tracks.Items {
			tracks = append(tracks, *toTrack(item))
		}
		return tracks, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Track), nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("el catálogo respondió %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func toTrack(resp trackResponse) *Track {
	t := &Track{
		ID:         resp.ID,
		Nombre:     resp.Name,
		Album:      resp.Album.Name,
		PreviewURL: resp.PreviewURL,
	}
	if len(resp.Artists) > 0 {
		t.Artista = resp.Artists[0].Name
	}
	if len(resp.Album.Images) > 0 {
		t.ImagenURL = resp.Album.Images[0].URL
	}
	if len(resp.Genres) > 0 {
		t.Genero = resp.Genres[0]
	}
	return t
}
