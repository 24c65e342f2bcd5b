// Package viz hosts the particle field in a terminal.
//
// The package implements the terminal host using the Bubble Tea framework:
//
//   - [Model]: Bubble Tea program that drives a frame scheduler from its tick
//   - [Canvas]: Braille-based dot canvas with one composited colour per cell
//   - [Surface]: frame.Surface backed by a Canvas
//   - [Host]: frame.Host fed by window-size and mouse messages
//   - Theme selection with 5 built-in colour schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reseed the field
//	T     - Cycle colour themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// While recording, every third frame is rasterized from the canvas and the
// animation is written as a GIF when recording stops or the program quits.
package viz
