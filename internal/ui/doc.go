// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a queue browser backed by the HTTP client:
//  1. [QueueListView] : Browse the queue in natural order with the playhead marked
//  2. [ConfirmClearView] : Confirm before emptying the queue
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Every mutation round-trips through the server and refetches the queue, so the list always reflects server state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus transport keys (n/p for next/previous,
// s for shuffle, r for repeat, x to remove) with contextual help displayed via charmbracelet/bubbles/help.
package ui
