package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many addresses of a run have been translated.
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
	Failed    uint64
}

type progressBarRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Failed    uint64    `json:"failed"`
}

// IncrementFinished adds a certain amount to the finished items.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// IncrementFailed adds a certain amount to the items that could not be
// translated.
func (b *ProgressBar) IncrementFailed(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Failed += amount
}

func (b *ProgressBar) snapshot() progressBarRsp {
	b.Lock()
	defer b.Unlock()

	return progressBarRsp{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
		Failed:    b.Failed,
	}
}
