package plugin

import "sync"

// ClientThread queues work that must run on the client's own thread.
// The owner of that thread calls Drain; everyone else calls Invoke.
type ClientThread struct {
	mu    sync.Mutex
	queue []func()
}

// NewClientThread returns an empty queue.
func NewClientThread() *ClientThread {
	return &ClientThread{}
}

// Invoke schedules fn to run on the next Drain.
func (t *ClientThread) Invoke(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.queue = append(t.queue, fn)
	t.mu.Unlock()
}

// Drain runs queued work in FIFO order, including work queued while
// draining, and returns how many functions ran.
func (t *ClientThread) Drain() int {
	ran := 0
	for {
		t.mu.Lock()
		if len(t.queue) == 0 {
			t.mu.Unlock()
			return ran
		}
		fn := t.queue[0]
		t.queue = t.queue[1:]
		t.mu.Unlock()

		fn()
		ran++
	}
}

// Pending returns the number of queued functions.
func (t *ClientThread) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.queue)
}
