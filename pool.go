package lanedetect

import (
	"fmt"
	"sync"

	"github.com/PHANTOM0122/Lane-detection/postprocess/result"
	"go.uber.org/zap"
)

// Pool is a simple pipeline pool to process multiple frames in parallel.
// Each pipeline owns its working buffers so a frame is only ever touched by
// the goroutine holding the pipeline.
type Pool struct {
	// pool of pipelines
	pipelines chan *Pipeline
	// size of pool
	size   int
	mu     sync.Mutex
	closed bool
}

// NewPool creates a new pipeline pool, all pipelines share the same config
// and frame numbering
func NewPool(size int, cfg Config) (*Pool, error) {

	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}

	p := &Pool{
		pipelines: make(chan *Pipeline, size),
		size:      size,
	}

	ids := result.NewIDGenerator()

	for i := 0; i < size; i++ {
		pl, err := NewPipeline(cfg)

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, err
		}

		pl.SetIDGenerator(ids)

		// attach to pool
		p.Return(pl)
	}

	return p, nil
}

// Get a pipeline from the pool, blocks until one is free.  Returns nil once
// the pool is closed.
func (p *Pool) Get() *Pipeline {
	return <-p.pipelines
}

// Return a pipeline to the pool.  Pipelines returned after Close or to a full
// pool are freed.
func (p *Pool) Return(pipeline *Pipeline) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = pipeline.Close()
		return
	}

	select {
	case p.pipelines <- pipeline:
	default:
		// pool is full
		_ = pipeline.Close()
	}
}

// Size returns the number of pipelines in the pool
func (p *Pool) Size() int {
	return p.size
}

// SetLogger sets the logger on all pipelines, call before the pool is in use
func (p *Pool) SetLogger(l *zap.Logger) {
	for i := 0; i < p.size; i++ {
		pl := p.Get()
		pl.SetLogger(l)
		defer p.Return(pl)
	}
}

// Close the pool and all pipelines in it
func (p *Pool) Close() {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return
	}

	// close channel
	p.closed = true
	close(p.pipelines)
	p.mu.Unlock()

	// close all pipelines
	for next := range p.pipelines {
		_ = next.Close()
	}
}
