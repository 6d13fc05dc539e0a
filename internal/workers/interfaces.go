// Package workers manages the background goroutines of the application.
// It defines the Worker interface and a Workers aggregate that stops all
// registered workers together and waits for them within a deadline.
package workers

// Worker is a running background component.
//
// Stop asks the worker to finish and must be safe to call more than once.
// Done is closed once the worker has fully exited.
//
// Example implementation:
//
//	type MyWorker struct{ quit, done chan struct{} }
//
//	func (w *MyWorker) Stop()                 { close(w.quit) }
//	func (w *MyWorker) Done() <-chan struct{} { return w.done }
type Worker interface {
	Stop()
	Done() <-chan struct{}
}
