// Package replacement decides which physical frame is reclaimed when a page
// fault finds the frame pool exhausted.
package replacement

import (
	"fmt"
	"strings"
)

// A Policy picks victim frames. Policies only see frame numbers; they do not
// know which logical page lives in a frame.
type Policy interface {
	// Name returns the name of the policy.
	Name() string

	// ChooseVictim returns the frame to reclaim next.
	ChooseVictim() int

	// OnAccess is called every time an address resolves to the frame,
	// including the access that faulted the frame in.
	OnAccess(frame int)

	// OnInstall is called when a frame receives a new page.
	OnInstall(frame int)
}

// Kind identifies a replacement policy.
type Kind int

// The available policies. The values match the numeric policy selector of
// the command line.
const (
	FIFO Kind = iota
	LRU
)

func (k Kind) String() string {
	switch k {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "0", "1", "fifo" and "lru", in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "fifo":
		return FIFO, nil
	case "1", "lru":
		return LRU, nil
	default:
		return 0, fmt.Errorf("unknown replacement policy %q", s)
	}
}

// New creates a policy of the given kind over numFrames frames.
func New(kind Kind, numFrames int) Policy {
	switch kind {
	case FIFO:
		return NewFIFO(numFrames)
	case LRU:
		return NewLRU(numFrames)
	default:
		panic(fmt.Sprintf("unknown replacement policy %s", kind))
	}
}

func numFramesMustBePositive(numFrames int) {
	if numFrames <= 0 {
		panic("a replacement policy needs at least one frame")
	}
}

func frameMustBeInRange(frame, numFrames int) {
	if frame < 0 || frame >= numFrames {
		panic(fmt.Sprintf("frame %d out of range [0, %d)", frame, numFrames))
	}
}
