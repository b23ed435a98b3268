// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for trimming enriched datasets:
//  1. [FieldListView] : Browse discovered fields and toggle which to keep
//  2. [ConfirmView] : Review the selection before applying
//  3. [ResultView] : Display the projected record count and output path
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Schema analysis runs as a command so large datasets never block the first paint.
//
// Keyboard navigation uses vim-style bindings (j/k, space, a/n, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
