// Package viz provides terminal-based visualization for particle runs.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: case browser with preset selection
//   - [Live]: single-case live view with stats sidebar and energy chart
//   - [Canvas]: Braille-based pixel canvas for particle rendering
//   - Theme selection with built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild and restart the case
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	+/-   - Speed up / slow down playback
//	?     - Show help overlay
//
// # Recording
//
// The live view can record sessions as GIF animations using the G key.
// Recordings are saved to the current directory.
package viz
