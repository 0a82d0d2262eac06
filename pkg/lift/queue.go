package lift

// EnqueueResult is the outcome of RequestQueue.Enqueue.
type EnqueueResult int

const (
	Accepted  EnqueueResult = iota // 새 요청 등록
	Duplicate                      // 이미 대기 중 (길이 변화 없음)
	Full                           // 용량 초과로 버려짐
	Invalid                        // 실제 층이 아님
)

func (r EnqueueResult) String() string {
	return [...]string{"Accepted", "Duplicate", "Full", "Invalid"}[r]
}

// Lit reports whether the caller should assert the request indicator.
func (r EnqueueResult) Lit() bool {
	return r == Accepted || r == Duplicate
}

// DefaultQueueCapacity is the number of pending requests the panel buffers.
const DefaultQueueCapacity = 3

// RequestQueue is a fixed-capacity FIFO of pending floors without duplicates.
// RequestQueue는 중복 없는 고정 용량 원형 버퍼입니다.
// read == write holds both when empty and when full; the full flag tells them apart.
type RequestQueue struct {
	slots []Floor
	read  int
	write int
	full  bool
}

// NewRequestQueue creates an empty queue. Capacities below one are raised to one.
func NewRequestQueue(capacity int) *RequestQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &RequestQueue{slots: make([]Floor, capacity)}
}

// Cap returns the capacity.
func (q *RequestQueue) Cap() int { return len(q.slots) }

// Len returns the number of pending floors.
func (q *RequestQueue) Len() int {
	if q.full {
		return len(q.slots)
	}
	return (q.write - q.read + len(q.slots)) % len(q.slots)
}

func (q *RequestQueue) IsEmpty() bool { return !q.full && q.read == q.write }
func (q *RequestQueue) IsFull() bool  { return q.full }

// Contains reports whether floor is pending.
func (q *RequestQueue) Contains(floor Floor) bool {
	n := q.Len()
	for i := 0; i < n; i++ {
		if q.slots[(q.read+i)%len(q.slots)] == floor {
			return true
		}
	}
	return false
}

// Enqueue appends floor unless it is already pending or the queue is full.
// A duplicate keeps its original position.
func (q *RequestQueue) Enqueue(floor Floor) EnqueueResult {
	if !floor.IsDestination() {
		return Invalid
	}
	if q.Contains(floor) {
		return Duplicate
	}
	if q.full {
		return Full
	}
	q.slots[q.write] = floor
	q.write = (q.write + 1) % len(q.slots)
	q.full = q.write == q.read
	return Accepted
}

// Dequeue removes and returns the oldest pending floor.
func (q *RequestQueue) Dequeue() (Floor, bool) {
	if q.IsEmpty() {
		return None, false
	}
	floor := q.slots[q.read]
	q.slots[q.read] = None
	q.read = (q.read + 1) % len(q.slots)
	q.full = false
	return floor, true
}

// Items returns the pending floors, oldest first.
func (q *RequestQueue) Items() []Floor {
	n := q.Len()
	items := make([]Floor, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, q.slots[(q.read+i)%len(q.slots)])
	}
	return items
}
