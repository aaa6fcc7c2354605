package recommendation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/melodia-social/melodia/pkg/catalog"
)

// Las calificaciones y los comentarios directos pueden referirse a
// canciones que nunca pasaron por la caché local, así que sus metadatos
// se piden al catálogo externo en el momento.
const maxEnrichPerPass = 20

const enrichTimeout = 5 * time.Second

type trackFetcher interface {
	GetTrack(ctx context.Context, id string) (*catalog.Track, error)
}

// Enricher resuelve metadatos de canciones contra el catálogo externo.
// Es mejor-esfuerzo: todas las consultas corren en paralelo, se espera a
// que terminen todas y los fallos individuales solo dejan la canción sin
// atribución de artista para esta pasada.
type Enricher struct {
	catalog trackFetcher
	logger  zerolog.Logger
}

func NewEnricher(catalog trackFetcher, logger zerolog.Logger) *Enricher {
	return &Enricher{
		catalog: catalog,
		logger:  logger.With().Str("component", "enricher").Logger(),
	}
}

func (e *Enricher) Enrich(ctx context.Context, ids []string) map[string]TrackMeta {
	unique := dedupe(ids)
	if len(unique) > maxEnrichPerPass {
		unique = unique[:maxEnrichPerPass]
	}

	enriched := make(map[string]TrackMeta, len(unique))
	if len(unique) == 0 {
		return enriched
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range unique {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
			defer cancel()

			track, err := e.catalog.GetTrack(fetchCtx, id)
			if err != nil {
				e.logger.Warn().Err(err).Str("cancion", id).Msg("enriquecimiento fallido, la canción queda sin atribución")
				return
			}

			mu.Lock()
			enriched[id] = TrackMeta{
				Nombre:  track.Nombre,
				Artista: track.Artista,
				Album:   track.Album,
			}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return enriched
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
