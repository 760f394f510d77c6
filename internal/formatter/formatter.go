// package formatter provides functions to export search results and audio analysis to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
)

// SearchToCSV converts a SearchResult to CSV format with columns: ID, Title, Artist, Album, Duration, ISRC, URL
func SearchToCSV(result *models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range result.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
			track.ISRC,
			track.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SearchToMarkdown converts a SearchResult to Markdown format
func SearchToMarkdown(result *models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Search: %s\n\n", result.Query))
	buf.WriteString(fmt.Sprintf("**Results**: %d\n\n", len(result.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range result.Tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// SearchToText converts a SearchResult to plain text format
func SearchToText(result *models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Query: %s\n", result.Query))
	buf.WriteString(fmt.Sprintf("Results: %d\n\n", len(result.Tracks)))

	for i, track := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration)))
		if track.URL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", track.URL))
		}
	}

	return buf.Bytes(), nil
}

// featureRows returns the analysis metrics in display order.
func featureRows(features *models.AudioFeatures) [][2]string {
	return [][2]string{
		{"tempo", fmt.Sprintf("%.1f", features.Tempo)},
		{"danceability", fmt.Sprintf("%.3f", features.Danceability)},
		{"energy", fmt.Sprintf("%.3f", features.Energy)},
		{"valence", fmt.Sprintf("%.3f", features.Valence)},
		{"acousticness", fmt.Sprintf("%.3f", features.Acousticness)},
		{"instrumentalness", fmt.Sprintf("%.3f", features.Instrumentalness)},
		{"liveness", fmt.Sprintf("%.3f", features.Liveness)},
		{"speechiness", fmt.Sprintf("%.3f", features.Speechiness)},
		{"loudness", fmt.Sprintf("%.1f", features.Loudness)},
		{"time_signature", strconv.Itoa(features.TimeSignature)},
	}
}

// FeaturesToCSV converts an audio analysis vector to a two-line CSV (header + values)
func FeaturesToCSV(features *models.AudioFeatures) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := featureRows(features)
	headers := []string{"track_id"}
	values := []string{features.TrackID}

	for _, row := range rows {
		headers = append(headers, row[0])
		values = append(values, row[1])
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	if err := writer.Write(values); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// FeaturesToMarkdown converts an audio analysis vector to a Markdown table
func FeaturesToMarkdown(features *models.AudioFeatures) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Audio Features: %s\n\n", features.TrackID))
	buf.WriteString("| Metric | Value |\n")
	buf.WriteString("| --- | --- |\n")

	for _, row := range featureRows(features) {
		buf.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
	}

	return buf.Bytes(), nil
}

// FeaturesToText converts an audio analysis vector to plain text
func FeaturesToText(features *models.AudioFeatures) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Track: %s\n", features.TrackID))

	for _, row := range featureRows(features) {
		buf.WriteString(fmt.Sprintf("  %-16s %s\n", row[0], row[1]))
	}

	return buf.Bytes(), nil
}

// WriteFeaturesCSV writes an audio analysis vector to a CSV file.
//
// Defaults to {track_id}_features.csv as the filename.
func WriteFeaturesCSV(features *models.AudioFeatures, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_features.csv", features.TrackID)
	}

	data, err := FeaturesToCSV(features)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// WriteFeaturesMarkdown writes an audio analysis vector to a Markdown file.
//
// Defaults to {track_id}_features.md as the filename.
func WriteFeaturesMarkdown(features *models.AudioFeatures, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_features.md", features.TrackID)
	}

	data, err := FeaturesToMarkdown(features)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteFeaturesText writes an audio analysis vector to a plain text file.
//
// Defaults to {track_id}_features.txt as the filename.
func WriteFeaturesText(features *models.AudioFeatures, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_features.txt", features.TrackID)
	}

	data, err := FeaturesToText(features)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteFeaturesJSON writes an audio analysis vector to a JSON file.
//
// Defaults to {track_id}_features.json as the filename.
func WriteFeaturesJSON(features *models.AudioFeatures, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_features.json", features.TrackID)
	}

	data, err := shared.MarshalJSON(features, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// BulkManifestEntry summarizes one exported track for the manifest file.
type BulkManifestEntry struct {
	TrackID string   `json:"track_id"`
	Status  string   `json:"status"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// bulkManifest is the on-disk shape of a bulk export manifest.
type bulkManifest struct {
	GeneratedAt       string              `json:"generated_at"`
	Format            string              `json:"format"`
	OutputDirectory   string              `json:"output_directory"`
	TotalTracks       int                 `json:"total_tracks"`
	SuccessfulExports int                 `json:"successful_exports"`
	FailedExports     int                 `json:"failed_exports"`
	Results           []BulkManifestEntry `json:"results"`
}

// WriteBulkFeaturesManifest writes a JSON manifest summarizing a bulk feature export run.
func WriteBulkFeaturesManifest(format, outputDir string, entries []BulkManifestEntry, filepath string) error {
	manifest := bulkManifest{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Format:          format,
		OutputDirectory: outputDir,
		TotalTracks:     len(entries),
		Results:         entries,
	}

	for _, entry := range entries {
		if entry.Status == "success" {
			manifest.SuccessfulExports++
		} else {
			manifest.FailedExports++
		}
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
