// Package services implements HTTP clients for the upstream artist data sources.
//
// Three sources contribute to an enriched artist record:
//   - [MusicBrainzService] : identity resolution (MBID, country, tags) via the MusicBrainz WS/2 API
//   - [AudioDBService] : biography, genre, and imagery via TheAudioDB
//   - [YouTubeService] : channel metadata and playlist listings via the YouTube Data API v3
//
// All three implement [Enricher], returning flat-mergeable record maps whose keys
// are distinct per source (artistName/mbid vs strArtist/strBiographyEN vs
// channelId/channelTitle), so merged records never collide across sources.
//
// Every outbound request is admitted through the service's own sliding-window
// rate limiter. Limiters are per-service and independent: a MusicBrainz call
// never consumes YouTube budget.
//
// [APIService] is a raw GET/JSON client kept for debugging against any of the
// three bases without the typed wrappers.
package services
