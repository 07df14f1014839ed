package feed

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/himai-labs/tension.report/internal/motion"
)

// StatsInterface provides datagram statistics management.
type StatsInterface interface {
	AddDatagram(bytes int)
	AddFrame()
	AddDropped()
	LogStats()
}

// FrameSink receives decoded frames in arrival order. The listener calls it
// from a single goroutine.
type FrameSink interface {
	HandleFrame(frame *motion.LandmarkFrame) error
}

// SinkFunc adapts a function to FrameSink.
type SinkFunc func(*motion.LandmarkFrame) error

// HandleFrame calls fn.
func (fn SinkFunc) HandleFrame(f *motion.LandmarkFrame) error { return fn(f) }

// FanOut returns a sink that delivers each frame to every sink in order,
// stopping at the first error.
func FanOut(sinks ...FrameSink) FrameSink {
	return SinkFunc(func(f *motion.LandmarkFrame) error {
		for _, s := range sinks {
			if err := s.HandleFrame(f); err != nil {
				return err
			}
		}
		return nil
	})
}

// UDPListener receives landmark frames as JSON datagrams, one frame per
// datagram, and dispatches them to a sink with configurable statistics and
// ordering enforcement.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	conn        *net.UDPConn
	stats       StatsInterface
	sink        FrameSink
	strictOrder bool
	lastIndex   int
}

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address     string
	RcvBuf      int
	LogInterval time.Duration
	Stats       StatsInterface
	Sink        FrameSink
	// StrictOrder drops frames whose frame_index does not advance past the
	// previous one. UDP may duplicate or reorder datagrams; the analysis
	// pipeline requires a strictly ordered stream.
	StrictOrder bool
}

// NewUDPListener creates a new UDP listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	// Stats calls are unconditional in the datagram path, so a missing
	// collector becomes a no-op one.
	stats := config.Stats
	if stats == nil {
		stats = &noopStats{}
	}

	logInterval := config.LogInterval
	if logInterval == 0 {
		logInterval = time.Minute
	}

	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: logInterval,
		stats:       stats,
		sink:        config.Sink,
		strictOrder: config.StrictOrder,
		lastIndex:   -1,
	}
}

// noopStats is a StatsInterface implementation that does nothing. It is
// used as a safe default when no stats collector is provided.
type noopStats struct{}

func (n *noopStats) AddDatagram(bytes int) {}
func (n *noopStats) AddFrame()             {}
func (n *noopStats) AddDropped()           {}
func (n *noopStats) LogStats()             {}

// Start begins listening for landmark datagrams and dispatching them. It
// blocks until ctx is cancelled or the socket fails.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("resolve udp address %q: %w", l.address, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen udp: %w", err)
	}
	l.conn = conn
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			log.Printf("udp receive buffer %d not applied: %v", l.rcvBuf, err)
		}
	}

	log.Printf("Landmark listener started on %s", conn.LocalAddr())

	go l.startStatsLogging(ctx)

	// One JSON frame per datagram; dense landmark sets stay well under 64KB.
	buffer := make([]byte, 64*1024)

	for {
		select {
		case <-ctx.Done():
			log.Print("Landmark listener stopping")
			return ctx.Err()
		default:
			// Bounded reads, so cancellation is noticed between datagrams.
			conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))

			n, raddr, err := conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("udp read: %v", err)
				continue
			}

			if err := l.handleDatagram(buffer[:n]); err != nil {
				log.Printf("Error handling datagram from %v: %v", raddr, err)
			}
		}
	}
}

// LocalAddr returns the bound socket address, or nil before Start.
func (l *UDPListener) LocalAddr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// startStatsLogging periodically logs feed statistics. An initial report
// fires shortly after startup to avoid a long silence on first run.
func (l *UDPListener) startStatsLogging(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
		l.stats.LogStats()
	}

	ticker := time.NewTicker(l.logInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.stats.LogStats()
		}
	}
}

// handleDatagram processes a single received datagram. Undecodable and
// out-of-order payloads are dropped, not fatal.
func (l *UDPListener) handleDatagram(datagram []byte) error {
	l.stats.AddDatagram(len(datagram))

	frame, err := DecodeFrame(datagram)
	if err != nil {
		l.stats.AddDropped()
		log.Printf("Dropping undecodable datagram (%d bytes): %v", len(datagram), err)
		return nil
	}

	if l.strictOrder && frame.FrameIndex <= l.lastIndex {
		l.stats.AddDropped()
		log.Printf("Dropping out-of-order frame %d (last %d)", frame.FrameIndex, l.lastIndex)
		return nil
	}
	l.lastIndex = frame.FrameIndex
	l.stats.AddFrame()

	if l.sink != nil {
		return l.sink.HandleFrame(frame)
	}
	return nil
}

// Close closes the UDP listener and releases resources.
func (l *UDPListener) Close() error {
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
