package mqtt

import "log/slog"

// bufferedMsg stores a serialized message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// offlineQueue is a bounded FIFO that holds messages while the broker is
// unreachable. When full, the oldest message is dropped.
// Not safe for concurrent use; the publisher holds its lock around it.
type offlineQueue struct {
	msgs     []bufferedMsg
	capacity int
	dropped  int
	warned   bool
}

func newOfflineQueue(capacity int) *offlineQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &offlineQueue{
		msgs:     make([]bufferedMsg, 0, capacity),
		capacity: capacity,
	}
}

func (q *offlineQueue) push(msg bufferedMsg) {
	if len(q.msgs) == q.capacity {
		if !q.warned {
			slog.Warn("mqtt offline queue full, dropping oldest", "capacity", q.capacity)
			q.warned = true
		}
		copy(q.msgs, q.msgs[1:])
		q.msgs = q.msgs[:len(q.msgs)-1]
		q.dropped++
	}
	q.msgs = append(q.msgs, msg)
}

// drain returns queued messages oldest first and empties the queue.
func (q *offlineQueue) drain() []bufferedMsg {
	if len(q.msgs) == 0 {
		return nil
	}
	out := make([]bufferedMsg, len(q.msgs))
	copy(out, q.msgs)
	q.msgs = q.msgs[:0]
	q.warned = false
	return out
}

func (q *offlineQueue) len() int {
	return len(q.msgs)
}
