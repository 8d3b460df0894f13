// Package mem models the physical side of the simulated memory system.
package mem

import "fmt"

// FrameIndexOutOfRangeError reports an access to a frame that does not exist.
// Frame indices always come from the page table or the replacement policy, so
// this error signals a bug in one of them.
type FrameIndexOutOfRangeError struct {
	Frame     uint64
	NumFrames int
}

func (e *FrameIndexOutOfRangeError) Error() string {
	return fmt.Sprintf("frame index %d out of range [0, %d)",
		e.Frame, e.NumFrames)
}

// PhysicalMemory is a fixed pool of page-sized frames.
type PhysicalMemory struct {
	pageSize int
	frames   []byte
}

// NewPhysicalMemory allocates numFrames frames of pageSize bytes each.
func NewPhysicalMemory(numFrames, pageSize int) *PhysicalMemory {
	if numFrames <= 0 || pageSize <= 0 {
		panic("physical memory must have at least one non-empty frame")
	}

	return &PhysicalMemory{
		pageSize: pageSize,
		frames:   make([]byte, numFrames*pageSize),
	}
}

// NumFrames returns the number of frames in the pool.
func (m *PhysicalMemory) NumFrames() int {
	return len(m.frames) / m.pageSize
}

// PageSize returns the size of a frame in bytes.
func (m *PhysicalMemory) PageSize() int {
	return m.pageSize
}

// Frame returns the content of frame n. The returned slice aliases the
// memory and must not be modified by the caller.
func (m *PhysicalMemory) Frame(n uint64) []byte {
	m.frameMustExist(n)

	start := n * uint64(m.pageSize)

	return m.frames[start : start+uint64(m.pageSize)]
}

// Load overwrites frame n with data. Data shorter than a frame leaves the
// tail of the frame zeroed.
func (m *PhysicalMemory) Load(n uint64, data []byte) {
	m.frameMustExist(n)

	if len(data) > m.pageSize {
		panic(fmt.Sprintf("loading %d bytes into a %d-byte frame",
			len(data), m.pageSize))
	}

	frame := m.frames[n*uint64(m.pageSize) : (n+1)*uint64(m.pageSize)]
	copied := copy(frame, data)
	clear(frame[copied:])
}

// Read returns the byte stored at a physical address.
func (m *PhysicalMemory) Read(paddr uint64) byte {
	frame := paddr / uint64(m.pageSize)
	m.frameMustExist(frame)

	return m.frames[paddr]
}

func (m *PhysicalMemory) frameMustExist(n uint64) {
	if n >= uint64(m.NumFrames()) {
		panic(&FrameIndexOutOfRangeError{Frame: n, NumFrames: m.NumFrames()})
	}
}
