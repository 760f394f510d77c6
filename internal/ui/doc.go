// Package ui implements the interactive terminal interface using the Elm architecture.
//
// # Views
//
// The TUI starts from a search query and moves between two views:
//
//   - [ResultListView] : search results as a navigable bubbles list
//   - [FeatureView] : audio analysis metrics for the selected track
//
// Pressing enter on a result fetches its audio features; esc returns to the
// results. Feature fetch failures surface as a warning line on the result
// list instead of tearing the program down.
//
// # Styling
//
// [Palette] collects the lipgloss styles used across views; the package-level
// stylesheet carries the brand purple for titles with semantic colors for
// ok/error/warning text.
package ui
