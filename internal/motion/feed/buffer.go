package feed

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/himai-labs/tension.report/internal/motion"
)

// Buffer queues decoded frames between a producer (UDP listener, pcap
// replay) and one streaming analysis. It is a FrameSink on the producer
// side and a frame source on the analyzer side.
type Buffer struct {
	ch chan motion.LandmarkFrame

	mu   sync.Mutex
	done bool
}

// NewBuffer returns a buffer holding up to capacity frames.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{ch: make(chan motion.LandmarkFrame, capacity)}
}

// HandleFrame queues a frame without blocking. A full buffer drops the
// frame and reports an error so the producer can count it; a slow consumer
// must never stall the receive loop.
func (b *Buffer) HandleFrame(f *motion.LandmarkFrame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return fmt.Errorf("frame buffer closed")
	}
	select {
	case b.ch <- *f:
		return nil
	default:
		return fmt.Errorf("frame buffer full (capacity %d)", cap(b.ch))
	}
}

// CloseInput marks the end of the stream. Frames already queued remain
// readable; Next returns io.EOF once they drain. Safe to call twice.
func (b *Buffer) CloseInput() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.done {
		b.done = true
		close(b.ch)
	}
}

// Next returns the next queued frame, blocking until one arrives, the
// input side closes (io.EOF) or ctx is cancelled.
func (b *Buffer) Next(ctx context.Context) (*motion.LandmarkFrame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case f, ok := <-b.ch:
		if !ok {
			return nil, io.EOF
		}
		return &f, nil
	}
}

// Close stops accepting new frames. The analyzer calls this when an
// analysis ends, so a producer still running sees HandleFrame errors
// instead of writing into a dead stream.
func (b *Buffer) Close() error {
	b.CloseInput()
	return nil
}
