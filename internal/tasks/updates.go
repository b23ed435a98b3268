package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ResolveArtist Phase = iota
	FetchProfile
	FetchChannel
	FetchPlaylist
	ExtractArtists
	FetchStatus
	ExportRecords
)

func (p Phase) String() string {
	switch p {
	case ResolveArtist:
		return "resolve_artist"
	case FetchProfile:
		return "fetch_profile"
	case FetchChannel:
		return "fetch_channel"
	case FetchPlaylist:
		return "fetch_playlist"
	case ExtractArtists:
		return "extract_artists"
	case FetchStatus:
		return "fetch_status"
	case ExportRecords:
		return "export_records"
	default:
		return ""
	}
}

// sourcePhase maps a source name onto its enrichment phase.
func sourcePhase(source string) Phase {
	switch source {
	case "audiodb":
		return FetchProfile
	case "youtube":
		return FetchChannel
	default:
		return ResolveArtist
	}
}

func enrichingUpdate(source string, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   sourcePhase(source),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, source, name),
	}
}

func cachedUpdate(source string, step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   sourcePhase(source),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s (cached)", step, total, source, name),
	}
}

func sourceFailedUpdate(source string, step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   sourcePhase(source),
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s: %v", step, total, source, name, err),
	}
}

func fetchingPlaylistUpdate(playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", playlistID),
	}
}

func extractedArtistsUpdate(count, videos int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractArtists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Extracted %d artists from %d videos", count, videos),
	}
}

func statusUpdate(name string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchStatus,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Checking %s...", name),
	}
}

func exportingUpdate(kind string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Writing %s export...", step, total, kind),
	}
}

func exportDoneUpdate(kind, path string, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, kind, path),
	}
}

func exportFailedUpdate(kind string, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, kind, err),
	}
}
