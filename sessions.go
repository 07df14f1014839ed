package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/session"
)

func handleSessions(args []string) {
	fs := flag.NewFlagSet("sessions", flag.ExitOnError)
	storePath := fs.String("store", defaultStorePath, "Path to the session store database")
	jsonOut := fs.Bool("json", false, "Print sessions as JSON")
	fs.Parse(args)

	store, err := session.Open(*storePath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	sessions, err := store.List()
	if err != nil {
		log.Fatalf("failed to list sessions: %v", err)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sessions); err != nil {
			log.Fatalf("failed to encode sessions: %v", err)
		}
		return
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions captured yet (run 'tension-report listen' to capture one)")
		return
	}

	fmt.Println(sessionHeader())
	for _, row := range sessionRows(sessions) {
		fmt.Println(row)
	}
}

const sessionRowFormat = "%-36s  %-19s  %-22s  %-16s  %6d  %5.5s  %s"

func sessionHeader() string {
	return fmt.Sprintf("%-36s  %-19s  %-22s  %-16s  %6s  %5s  %s",
		"ID", "CREATED", "NAME", "EXERCISE", "FRAMES", "FPS", "LABEL")
}

// sessionRows renders one table line per session.
func sessionRows(sessions []session.Session) []string {
	rows := make([]string, len(sessions))
	for i, s := range sessions {
		fps := ""
		if s.FPS > 0 {
			fps = fmt.Sprintf("%g", s.FPS)
		}
		rows[i] = fmt.Sprintf(sessionRowFormat,
			s.ID,
			s.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			s.Name,
			s.Exercise,
			s.FrameCount,
			fps,
			s.Label)
	}
	return rows
}

func handleReplay(args []string) {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	storePath := fs.String("store", defaultStorePath, "Path to the session store database")
	exercise := fs.String("exercise", "", "Override the exercise recorded with the session")
	configPath := fs.String("config", "", "Tuning config JSON file (overrides exercise preset)")
	progress := fs.Bool("progress", false, "Stream progress records while replaying")
	lf := addLogFlags(fs)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tension-report replay [options] <session-id>")
		os.Exit(1)
	}
	lf.apply()
	id := fs.Arg(0)

	store, err := session.Open(*storePath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	sess, err := store.Get(id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			log.Fatalf("session %s not found", id)
		}
		log.Fatalf("failed to load session: %v", err)
	}

	frames, err := store.LoadFrames(id)
	if err != nil {
		log.Fatalf("failed to load session frames: %v", err)
	}

	effective := sess.Exercise
	if *exercise != "" {
		if _, ok := motion.Preset(*exercise); !ok {
			log.Fatalf("unknown exercise %q (run 'tension-report exercises' for the list)", *exercise)
		}
		effective = *exercise
	}

	var cfg *motion.Config
	if *configPath != "" {
		cfg, err = motion.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	} else if effective != "" {
		cfg = motion.PresetFor(effective).Config()
	}

	var onProgress func(motion.Progress)
	if *progress {
		onProgress = printProgress
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep := report{Name: sess.Name, Source: "session:" + sess.ID, Exercise: effective}
	start := time.Now()
	result, err := motion.NewAnalyzer(cfg).AnalyzeStream(ctx, motion.NewSliceSource(frames), onProgress)
	rep.ElapsedS = time.Since(start).Seconds()
	rep.Analysis = result
	if err != nil {
		rep.Error = err.Error()
	}

	if err := writeReports([]report{rep}, ""); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	if rep.hardFailure() {
		os.Exit(1)
	}
}

func handleDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	storePath := fs.String("store", defaultStorePath, "Path to the session store database")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tension-report delete [options] <session-id>")
		os.Exit(1)
	}
	id := fs.Arg(0)

	store, err := session.Open(*storePath)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	if err := store.Delete(id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			log.Fatalf("session %s not found", id)
		}
		log.Fatalf("failed to delete session: %v", err)
	}
	fmt.Printf("Deleted session %s\n", id)
}
