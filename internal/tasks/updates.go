package tasks

import (
	"fmt"

	"github.com/desertthunder/djx/internal/models"
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
	SearchCatalog Phase = iota
	FetchFeatures
	ExportFeatures
)

func (p Phase) String() string {
	switch p {
	case SearchCatalog:
		return "search_catalog"
	case FetchFeatures:
		return "fetch_features"
	case ExportFeatures:
		return "export_features"
	default:
		return ""
	}
}

func searchCatalogUpdate(query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Searching catalog for '%s'...", query),
	}
}

func foundTracksUpdate(count int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d tracks for '%s'", count, query),
		Data:    count,
	}
}

func fetchFeaturesUpdate(step, total int, tr *models.Track) ProgressUpdate {
	if tr == nil {
		return ProgressUpdate{
			Phase:   FetchFeatures,
			Step:    step,
			Total:   total,
			Message: "Fetching audio features...",
		}
	}
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
	}
}

func featuresFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}

func exportingFeatureUpdate(step, total int, id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, id),
	}
}

func exportCompletedUpdate(step, total int, id string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, id, filesCount),
	}
}

func exportFailedUpdate(step, total int, id string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFeatures,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, id, err),
	}
}
