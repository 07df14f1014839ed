// Command pcap-replay decodes captured UDP landmark traffic from a pcap
// file and runs it through the analyzer, as if it had arrived live. The
// pcap reader itself is only compiled in with -tags=pcap; without it this
// tool explains how to rebuild.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/motion/feed"
)

func main() {
	pcapFile := flag.String("pcap", "", "pcap file containing captured landmark datagrams (required)")
	port := flag.Int("port", 7600, "UDP port the landmark stream was captured on")
	exercise := flag.String("exercise", "", "exercise preset to tune the analysis")
	configPath := flag.String("config", "", "tuning config JSON file (overrides -exercise)")
	progress := flag.Bool("progress", false, "stream progress records to stderr")
	output := flag.String("o", "", "report output path (default: stdout)")
	flag.Parse()

	if *pcapFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	var cfg *motion.Config
	if *configPath != "" {
		var err error
		cfg, err = motion.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	} else if *exercise != "" {
		preset, ok := motion.Preset(*exercise)
		if !ok {
			log.Fatalf("unknown exercise %q (known: %v)", *exercise, motion.PresetNames())
		}
		cfg = preset.Config()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Decode the whole capture first, then analyze: offline replay has no
	// pacing, so streaming through a bounded buffer would only add drops.
	var frames []motion.LandmarkFrame
	sink := feed.SinkFunc(func(f *motion.LandmarkFrame) error {
		frames = append(frames, *f)
		return nil
	})

	stats := feed.NewFeedStats()
	if err := feed.ReplayPCAP(ctx, *pcapFile, *port, sink, stats); err != nil {
		log.Fatalf("pcap replay failed: %v", err)
	}
	if len(frames) == 0 {
		log.Fatalf("no landmark frames decoded from %s (is -port right?)", *pcapFile)
	}
	log.Printf("decoded %d frames from %s", len(frames), *pcapFile)

	var onProgress func(motion.Progress)
	if *progress {
		onProgress = func(p motion.Progress) {
			if p.FrameNumber%30 != 0 {
				return
			}
			log.Printf("progress: frame %d (%.0f%%) reps=%d velocity=%.3f",
				p.FrameNumber, p.Fraction*100, p.RepCount, p.Velocity)
		}
	}

	result, err := motion.NewAnalyzer(cfg).AnalyzeStream(ctx, motion.NewSliceSource(frames), onProgress)
	if err != nil {
		if result == nil {
			log.Fatalf("analysis failed: %v", err)
		}
		log.Printf("analysis note: %v", err)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("failed to encode result: %v", err)
	}
}
