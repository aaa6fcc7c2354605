package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/melodia-social/melodia/pkg/catalog"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	tracks  map[string]*catalog.Track
	failing map[string]bool
	delay   time.Duration
}

func (f *fakeFetcher) GetTrack(ctx context.Context, id string) (*catalog.Track, error) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.failing[id] {
		return nil, errors.New("catálogo caído")
	}
	if track, ok := f.tracks[id]; ok {
		return track, nil
	}
	return nil, errors.New("no encontrada")
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestEnrichCollectsSuccesses(t *testing.T) {
	fetcher := &fakeFetcher{
		tracks: map[string]*catalog.Track{
			"a": {ID: "a", Nombre: "Uno", Artista: "X", Album: "AX"},
			"b": {ID: "b", Nombre: "Dos", Artista: "Y", Album: "AY"},
		},
	}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	enriched := enricher.Enrich(context.Background(), []string{"a", "b"})

	assert.Equal(t, TrackMeta{Nombre: "Uno", Artista: "X", Album: "AX"}, enriched["a"])
	assert.Equal(t, TrackMeta{Nombre: "Dos", Artista: "Y", Album: "AY"}, enriched["b"])
}

// Un fallo individual no corta el resto: se espera a que terminen todas
// las consultas y se devuelven solo los éxitos.
func TestEnrichSwallowsFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		tracks:  map[string]*catalog.Track{"ok": {ID: "ok", Artista: "X"}},
		failing: map[string]bool{"mal": true},
	}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	enriched := enricher.Enrich(context.Background(), []string{"mal", "ok"})

	assert.Len(t, enriched, 1)
	assert.Equal(t, "X", enriched["ok"].Artista)
	assert.Equal(t, 2, fetcher.callCount())
}

func TestEnrichCapsAtTwenty(t *testing.T) {
	fetcher := &fakeFetcher{tracks: map[string]*catalog.Track{}}
	ids := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("s%d", i)
		ids = append(ids, id)
		fetcher.tracks[id] = &catalog.Track{ID: id, Artista: "A"}
	}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	enriched := enricher.Enrich(context.Background(), ids)

	assert.Equal(t, maxEnrichPerPass, fetcher.callCount())
	assert.Len(t, enriched, maxEnrichPerPass)
}

func TestEnrichDeduplicatesIDs(t *testing.T) {
	fetcher := &fakeFetcher{
		tracks: map[string]*catalog.Track{"a": {ID: "a", Artista: "X"}},
	}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	enriched := enricher.Enrich(context.Background(), []string{"a", "a", "", "a"})

	assert.Equal(t, 1, fetcher.callCount())
	assert.Len(t, enriched, 1)
}

func TestEnrichEmptyInput(t *testing.T) {
	fetcher := &fakeFetcher{}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	enriched := enricher.Enrich(context.Background(), nil)

	assert.Empty(t, enriched)
	assert.Equal(t, 0, fetcher.callCount())
}

// Las consultas corren en paralelo: tres consultas con retardo no tardan
// tres retardos.
func TestEnrichRunsConcurrently(t *testing.T) {
	fetcher := &fakeFetcher{
		tracks: map[string]*catalog.Track{
			"a": {ID: "a"}, "b": {ID: "b"}, "c": {ID: "c"},
		},
		delay: 50 * time.Millisecond,
	}
	enricher := NewEnricher(fetcher, zerolog.Nop())

	start := time.Now()
	enriched := enricher.Enrich(context.Background(), []string{"a", "b", "c"})
	elapsed := time.Since(start)

	assert.Len(t, enriched, 3)
	assert.Less(t, elapsed, 140*time.Millisecond)
}
