// Package viz provides a terminal live view for running continuation traces.
//
// The view is a Bubble Tea model fed by the continuation driver's callback:
// the trace runs in its own goroutine and publishes [PointMsg] values over a
// channel, ending with a [DoneMsg]. The model renders the latest point, a
// ||u|| history graph, and the termination status.
//
// # Key Bindings
//
//	q - quit the view (the trace goroutine keeps feeding until done)
package viz
