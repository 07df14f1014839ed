package feed

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// FeedStats tracks datagram statistics with thread-safe operations.
type FeedStats struct {
	mu            sync.Mutex
	datagramCount int64
	byteCount     int64
	frameCount    int64
	droppedCount  int64
	lastReset     time.Time
}

// NewFeedStats creates a new FeedStats instance.
func NewFeedStats() *FeedStats {
	return &FeedStats{
		lastReset: time.Now(),
	}
}

// AddDatagram increments datagram count and byte count.
func (fs *FeedStats) AddDatagram(bytes int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.datagramCount++
	fs.byteCount += int64(bytes)
}

// AddFrame increments the decoded frame count.
func (fs *FeedStats) AddFrame() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.frameCount++
}

// AddDropped increments the dropped datagram count (undecodable payloads
// and out-of-order frames).
func (fs *FeedStats) AddDropped() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.droppedCount++
}

// GetAndReset returns current stats and resets counters.
func (fs *FeedStats) GetAndReset() (datagrams, bytes, frames, dropped int64, duration time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now()
	duration = now.Sub(fs.lastReset)
	datagrams = fs.datagramCount
	bytes = fs.byteCount
	frames = fs.frameCount
	dropped = fs.droppedCount

	fs.datagramCount = 0
	fs.byteCount = 0
	fs.frameCount = 0
	fs.droppedCount = 0
	fs.lastReset = now

	return
}

// LogStats logs throughput for the interval since the last reset. Quiet
// intervals log nothing.
func (fs *FeedStats) LogStats() {
	datagrams, bytes, frames, dropped, duration := fs.GetAndReset()
	if datagrams == 0 && dropped == 0 {
		return
	}

	datagramsPerSec := float64(datagrams) / duration.Seconds()
	kbPerSec := float64(bytes) / duration.Seconds() / 1024
	framesPerSec := float64(frames) / duration.Seconds()

	logMsg := fmt.Sprintf("Feed stats (/sec): %.1f KB, %.1f datagrams, %.1f frames",
		kbPerSec, datagramsPerSec, framesPerSec)
	if dropped > 0 {
		logMsg += fmt.Sprintf(", %d dropped", dropped)
	}
	log.Print(logMsg)
}
