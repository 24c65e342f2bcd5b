// Package frame drives the particle field one display frame at a time.
//
// A [Scheduler] moves through three states:
//
//	Idle -> Running -> Cancelled
//
// Start acquires a [Surface] from the [Host], subscribes to pointer and resize
// notifications and requests the first frame from a [Clock]. Every frame steps
// the field, advances the camera, draws particles and links, then requests the
// next frame. Stop cancels the pending request and drops every subscription; it
// is safe to call from any goroutine and any number of times.
//
// Frame work is single-threaded. Inputs that arrive from other goroutines
// (pointer samples, resizes, tuning changes, reseeds) go through one-slot
// [Mailbox] values and are applied at the start of the next frame.
//
// Two clocks are provided: [LoopClock], fired by an external render loop (or a
// test), and [TickerClock], which fires itself at a fixed rate.
package frame
