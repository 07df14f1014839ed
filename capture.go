package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/motion/feed"
	"github.com/himai-labs/tension.report/internal/session"
)

const defaultStorePath = "tension_sessions.db"

// frameCollector buffers every accepted frame so the whole capture can be
// saved as one session when the listener stops.
type frameCollector struct {
	mu     sync.Mutex
	frames []motion.LandmarkFrame
}

func (c *frameCollector) HandleFrame(f *motion.LandmarkFrame) error {
	c.mu.Lock()
	c.frames = append(c.frames, *f)
	c.mu.Unlock()
	return nil
}

func (c *frameCollector) Frames() []motion.LandmarkFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]motion.LandmarkFrame(nil), c.frames...)
}

func handleListen(args []string) {
	fs := flag.NewFlagSet("listen", flag.ExitOnError)
	addr := fs.String("addr", ":7600", "UDP address to listen on for landmark frames")
	rcvBuf := fs.Int("rcvbuf", 1<<20, "UDP receive buffer size in bytes")
	logInterval := fs.Int("log-interval", 60, "Feed statistics logging interval in seconds")
	storePath := fs.String("store", defaultStorePath, "Path to the session store database")
	name := fs.String("name", "", "Session name (default: capture timestamp)")
	exercise := fs.String("exercise", "", "Exercise being performed (see 'exercises')")
	label := fs.String("label", "", "Free-form session label")
	notes := fs.String("notes", "", "Free-form session notes")
	fps := fs.Float64("fps", 0, "Nominal capture rate, informational only")
	preview := fs.Bool("preview", true, "Run a live preview analysis while capturing")
	strictOrder := fs.Bool("strict-order", true, "Drop frames whose frame_index does not advance")
	lf := addLogFlags(fs)
	fs.Parse(args)
	lf.apply()

	if *exercise != "" {
		if _, ok := motion.Preset(*exercise); !ok {
			log.Fatalf("unknown exercise %q (run 'tension-report exercises' for the list)", *exercise)
		}
	}

	store, err := session.Open(*storePath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	collector := &frameCollector{}
	sinks := []feed.FrameSink{collector}

	var buf *feed.Buffer
	if *preview {
		buf = feed.NewBuffer(256)
		sinks = append(sinks, buf)
	}

	listener := feed.NewUDPListener(feed.UDPListenerConfig{
		Address:     *addr,
		RcvBuf:      *rcvBuf,
		LogInterval: time.Duration(*logInterval) * time.Second,
		Stats:       feed.NewFeedStats(),
		Sink:        feed.FanOut(sinks...),
		StrictOrder: *strictOrder,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if buf != nil {
			// Closing the buffer lets the preview drain and finalize.
			defer buf.CloseInput()
		}
		if err := listener.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("listener error: %v", err)
		}
		log.Info("listener routine terminated")
	}()

	var (
		previewResult *motion.AnalysisResult
		previewErr    error
	)
	if *preview {
		var cfg *motion.Config
		if *exercise != "" {
			cfg = motion.PresetFor(*exercise).Config()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// The buffer signals end of input when the listener stops, so
			// the preview finalizes off its own EOF rather than ctx.
			previewResult, previewErr = motion.NewAnalyzer(cfg).
				AnalyzeStream(context.Background(), buf, printLivePreview)
			log.Info("preview routine terminated")
		}()
	}

	fmt.Printf("Capturing landmark frames on %s (Ctrl-C to stop and save)\n", *addr)
	wg.Wait()

	frames := collector.Frames()
	if len(frames) == 0 {
		log.Warn("no frames captured; nothing to save")
		return
	}

	meta := session.Meta{
		Name:     *name,
		Exercise: *exercise,
		Source:   "udp:" + *addr,
		FPS:      *fps,
		Label:    *label,
		Notes:    *notes,
	}
	if meta.Name == "" {
		meta.Name = "capture " + time.Now().Format("2006-01-02 15:04:05")
	}

	id, err := store.SaveSession(meta, frames)
	if err != nil {
		log.Fatalf("failed to save session: %v", err)
	}

	fmt.Printf("\nSaved session %s (%q, %d frames)\n", id, meta.Name, len(frames))
	fmt.Printf("Replay with: tension-report replay %s\n", id)

	if previewResult != nil {
		fmt.Printf("\nPreview: %s\n", previewResult.Summary)
		if previewErr != nil {
			fmt.Printf("Preview note: %v\n", previewErr)
		}
	}
}

// printLivePreview writes one status line per second of capture (30 frames).
func printLivePreview(p motion.Progress) {
	if p.FrameNumber%30 != 0 {
		return
	}
	fmt.Printf("live: frames=%d reps=%d velocity=%.3f tension=%.1f\n",
		p.FrameNumber, p.RepCount, p.Velocity, p.TensionEstimate)
}
