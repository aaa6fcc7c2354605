package recommendation

import "sort"

// Pesos por categoría de interacción. Publicar pesa más que comentar y
// comentar más que dar like; las calificaciones se escalan por estrellas
// (una de 5 estrellas aporta 10). Ajustar un peso es un cambio de una
// línea aquí.
var interactionWeights = map[string]float64{
	"posts":        5,
	"likes":        3,
	"comments":     4,
	"ratings":      2,
	"songComments": 4,
}

const maxTopArtists = 10

// ComputeProfile reduce un bundle (ya enriquecido) a un perfil de gustos.
// Es una función pura: mismo bundle y mismo mapa enriquecido producen
// exactamente el mismo perfil.
func ComputeProfile(bundle *InteractionBundle, enriched map[string]TrackMeta) *PreferenceProfile {
	profile := &PreferenceProfile{
		ArtistScores:      map[string]float64{},
		SongScores:        map[string]float64{},
		KnownSongIDs:      map[string]struct{}{},
		TotalInteractions: bundle.TotalRows(),
	}

	// El orden de inserción desempata artistas con el mismo puntaje.
	artistOrder := []string{}
	addArtist := func(artista string, score float64) {
		if artista == "" {
			return
		}
		if _, ok := profile.ArtistScores[artista]; !ok {
			artistOrder = append(artistOrder, artista)
		}
		profile.ArtistScores[artista] += score
	}
	addSong := func(cancionID string, score float64) {
		if cancionID == "" {
			return
		}
		profile.SongScores[cancionID] += score
		profile.KnownSongIDs[cancionID] = struct{}{}
	}

	scoreCategory := func(rows []SongInteraction, weight float64) {
		for _, row := range rows {
			interacciones := row.Interacciones
			if interacciones == 0 {
				interacciones = 1
			}
			score := weight * float64(interacciones)

			artista := row.Artista
			if artista == "" {
				if meta, ok := enriched[row.CancionID]; ok {
					artista = meta.Artista
				}
			}
			addArtist(artista, score)
			addSong(row.CancionID, score)
		}
	}

	scoreCategory(bundle.Posts, interactionWeights["posts"])
	scoreCategory(bundle.Likes, interactionWeights["likes"])
	scoreCategory(bundle.Comments, interactionWeights["comments"])

	// Las calificaciones se asumen únicas por (usuario, canción); si
	// llegara una duplicada río arriba, se ignora en vez de contar doble.
	seenRatings := map[string]struct{}{}
	for _, rating := range bundle.Ratings {
		if _, dup := seenRatings[rating.CancionID]; dup {
			continue
		}
		seenRatings[rating.CancionID] = struct{}{}

		score := interactionWeights["ratings"] * float64(rating.Calificacion)
		if meta, ok := enriched[rating.CancionID]; ok {
			addArtist(meta.Artista, score)
		}
		addSong(rating.CancionID, score)
	}

	scoreCategory(bundle.SongComments, interactionWeights["songComments"])

	// Orden estable: puntaje descendente, empates por orden de inserción.
	sort.SliceStable(artistOrder, func(i, j int) bool {
		return profile.ArtistScores[artistOrder[i]] > profile.ArtistScores[artistOrder[j]]
	})
	if len(artistOrder) > maxTopArtists {
		artistOrder = artistOrder[:maxTopArtists]
	}
	profile.TopArtists = artistOrder

	return profile
}
