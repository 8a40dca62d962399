package result

import "sync"

// IDGenerator hands out incrementing frame numbers to pipeline results.  It is
// safe to share between pipelines in a pool so frame numbers stay unique.
type IDGenerator struct {
	id int64
	sync.Mutex
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// GetNext returns the next frame number, starting at 1
func (id *IDGenerator) GetNext() int64 {
	id.Lock()
	defer id.Unlock()
	id.id++
	return id.id
}

// Reset restarts numbering so the next call to GetNext returns 1
func (id *IDGenerator) Reset() {
	id.Lock()
	defer id.Unlock()
	id.id = 0
}
