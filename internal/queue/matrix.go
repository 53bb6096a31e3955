package queue

// Matrix is a P×P array of request queues. Cell (from, to) is populated by
// process from during accumulation and drained by process to once the
// barrier has fired. Concurrent access across the two halves is safe
// because the barrier — not a lock — establishes the happens-before edge;
// Matrix itself never takes a lock.
type Matrix[T any] struct {
	p     int
	cells [][][]T
}

// NewMatrix returns a Matrix sized for p participants.
func NewMatrix[T any](p int) *Matrix[T] {
	m := &Matrix[T]{}
	m.ResetResize(p)
	return m
}

// ResetResize reallocates the matrix for a (possibly new) process count,
// discarding any queued requests. Called once per Begin cycle.
func (m *Matrix[T]) ResetResize(p int) {
	m.p = p
	m.cells = make([][][]T, p)
	for i := range m.cells {
		m.cells[i] = make([][]T, p)
	}
}

// FromMe returns the queue owned by the caller (myPid) headed to to. The
// caller appends to it during accumulation.
func (m *Matrix[T]) FromMe(to, myPid int) *[]T {
	return &m.cells[myPid][to]
}

// ToMe returns the queue headed to the caller (myPid) from from. The
// caller drains it after the barrier.
func (m *Matrix[T]) ToMe(from, myPid int) *[]T {
	return &m.cells[from][myPid]
}
