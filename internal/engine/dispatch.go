package engine

// Dispatcher queues work from loader goroutines for the render thread, which owns
// the scene and the GL context.
type Dispatcher struct {
	queue chan func()
}

func NewDispatcher(size int) *Dispatcher {
	return &Dispatcher{queue: make(chan func(), size)}
}

// Post queues fn. It blocks only when the queue is full.
func (d *Dispatcher) Post(fn func()) {
	d.queue <- fn
}

// Drain runs everything queued so far and returns how many ran. Work posted by the
// functions it runs waits for the next Drain.
func (d *Dispatcher) Drain() int {
	n := len(d.queue)
	for i := 0; i < n; i++ {
		(<-d.queue)()
	}
	return n
}
