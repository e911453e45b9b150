// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a review workflow for query results:
//  1. [VideoListView] : Browse the videos matched for a game
//  2. [ConfirmView] : Confirm appending the new matches to the sheet
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
