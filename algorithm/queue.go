package algorithm

import "sync"

// commandQueue is an unbounded FIFO of raw command lines between the stream
// reader and the worker. Pushing never blocks: a runaway algorithm grows the
// queue instead of stalling the reader.
type commandQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []string
	closed bool
}

func newCommandQueue() *commandQueue {
	q := &commandQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a line. Lines pushed after close are dropped.
func (q *commandQueue) push(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, line)
	q.cond.Signal()
}

// pop removes and returns the oldest line, blocking while the queue is open
// and empty. It returns false once the queue is closed and drained.
func (q *commandQueue) pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return "", false
	}
	line := q.items[0]
	q.items = q.items[1:]
	return line, true
}

// close stops accepting lines; pending lines remain poppable.
func (q *commandQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// discard closes the queue and drops everything still pending.
func (q *commandQueue) discard() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.closed = true
	q.cond.Broadcast()
}
