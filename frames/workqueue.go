package frames

import "sync"

// WorkQueue marshals work from background goroutines onto the frame
// thread. Post is safe from any goroutine; Drain must be called from the
// frame thread and runs queued funcs in FIFO order. The scheduler drains
// the queue once per step, before the fixed-update phase.
type WorkQueue struct {
	mu    sync.Mutex
	queue []func()
}

// NewWorkQueue creates an empty work queue.
func NewWorkQueue() *WorkQueue {
	return &WorkQueue{}
}

// Post enqueues fn to run on the frame thread. Nil funcs are dropped.
func (w *WorkQueue) Post(fn func()) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	w.queue = append(w.queue, fn)
	w.mu.Unlock()
}

// Drain runs all queued funcs in FIFO order. Work posted while draining
// runs in the next drain, not this one.
func (w *WorkQueue) Drain() {
	w.mu.Lock()
	batch := w.queue
	w.queue = nil
	w.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}

// Len returns the number of queued funcs.
func (w *WorkQueue) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}
