package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/himai-labs/tension.report/internal/analysis"
	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/motion/feed"
	"github.com/himai-labs/tension.report/internal/security"
)

// report is the JSON document emitted for one analyzed recording.
type report struct {
	Name     string                 `json:"name"`
	Source   string                 `json:"source"`
	Exercise string                 `json:"exercise,omitempty"`
	ElapsedS float64                `json:"elapsed_s,omitempty"`
	Analysis *motion.AnalysisResult `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// hardFailure reports whether the recording produced no analysis at all, as
// opposed to an analysis that merely could not be rated.
func (r report) hardFailure() bool {
	return r.Analysis == nil && r.Error != ""
}

func handleAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	exercise := fs.String("exercise", "", "Exercise preset to tune the analysis (see 'exercises')")
	configPath := fs.String("config", "", "Tuning config JSON file (overrides -exercise)")
	workers := fs.Int("workers", 0, "Concurrent analyses (default: one per CPU)")
	timeout := fs.Duration("timeout", 0, "Per-recording timeout (0: none)")
	outDir := fs.String("out", "", "Directory for per-recording report files (default: stdout)")
	progress := fs.Bool("progress", false, "Stream progress records while analyzing (single recording only)")
	lf := addLogFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tension-report analyze [options] <file|dir|glob>...")
		os.Exit(1)
	}
	lf.apply()

	if *exercise != "" {
		if _, ok := motion.Preset(*exercise); !ok {
			log.Fatalf("unknown exercise %q (run 'tension-report exercises' for the list)", *exercise)
		}
	}

	var cfg *motion.Config
	if *configPath != "" {
		var err error
		cfg, err = motion.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	paths, err := collectInputs(fs.Args())
	if err != nil {
		log.Fatalf("failed to collect inputs: %v", err)
	}
	log.Debugf("analyzing %d recording(s)", len(paths))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var reports []report
	if *progress && len(paths) == 1 {
		reports = []report{analyzeStreaming(ctx, paths[0], *exercise, cfg)}
	} else {
		if *progress {
			log.Warnf("-progress applies to a single recording; ignoring for %d inputs", len(paths))
		}
		reports = analyzeBatch(ctx, paths, *exercise, cfg, *workers, *timeout)
	}

	if err := writeReports(reports, *outDir); err != nil {
		log.Fatalf("failed to write reports: %v", err)
	}

	for _, r := range reports {
		if r.hardFailure() {
			os.Exit(1)
		}
	}
}

// analyzeBatch fans the recordings out over the analysis runner.
func analyzeBatch(ctx context.Context, paths []string, exercise string, cfg *motion.Config, workers int, timeout time.Duration) []report {
	reports := make([]report, len(paths))
	var jobs []analysis.Job
	jobFor := make(map[string]int) // job ID -> report slot

	for i, path := range paths {
		name := recordingName(path)
		reports[i] = report{Name: name, Source: path, Exercise: exercise}

		frames, err := feed.ReadFile(path)
		if err != nil {
			reports[i].Error = err.Error()
			continue
		}
		job := analysis.NewJob(name, exercise, frames, cfg)
		jobFor[job.ID] = i
		jobs = append(jobs, job)
	}

	runner := &analysis.Runner{Workers: workers, Timeout: timeout}
	for _, res := range runner.Run(ctx, jobs) {
		i := jobFor[res.JobID]
		reports[i].Analysis = res.Analysis
		reports[i].ElapsedS = res.Elapsed.Seconds()
		if res.Err != nil {
			reports[i].Error = res.Err.Error()
		}
	}
	return reports
}

// analyzeStreaming runs one recording through the incremental analyzer,
// printing progress lines to stderr as frames are consumed.
func analyzeStreaming(ctx context.Context, path, exercise string, cfg *motion.Config) report {
	rep := report{Name: recordingName(path), Source: path, Exercise: exercise}

	frames, err := feed.ReadFile(path)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}

	if cfg == nil && exercise != "" {
		cfg = motion.PresetFor(exercise).Config()
	}

	start := time.Now()
	result, err := motion.NewAnalyzer(cfg).AnalyzeStream(ctx, motion.NewSliceSource(frames), printProgress)
	rep.ElapsedS = time.Since(start).Seconds()
	rep.Analysis = result
	if err != nil {
		rep.Error = err.Error()
	}
	return rep
}

// printProgress writes one status line per second of video (30 frames).
func printProgress(p motion.Progress) {
	if p.FrameNumber%30 != 0 {
		return
	}
	if p.Fraction > 0 {
		fmt.Fprintf(os.Stderr, "progress: frame %d (%.0f%%) reps=%d velocity=%.3f tension=%.1f\n",
			p.FrameNumber, p.Fraction*100, p.RepCount, p.Velocity, p.TensionEstimate)
		return
	}
	fmt.Fprintf(os.Stderr, "progress: frame %d reps=%d velocity=%.3f tension=%.1f\n",
		p.FrameNumber, p.RepCount, p.Velocity, p.TensionEstimate)
}

// inputExtensions are the recording formats analyze accepts.
var inputExtensions = map[string]bool{".json": true, ".ndjson": true}

// collectInputs expands files, directories, and glob patterns into a
// deduplicated list of recording paths, preserving argument order.
func collectInputs(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, err
			}
			found := 0
			for _, entry := range entries {
				if entry.IsDir() || !inputExtensions[filepath.Ext(entry.Name())] {
					continue
				}
				add(filepath.Join(arg, entry.Name()))
				found++
			}
			if found == 0 {
				return nil, fmt.Errorf("no recordings (*.json, *.ndjson) in directory %s", arg)
			}
		case err == nil:
			add(arg)
		default:
			matches, globErr := filepath.Glob(arg)
			if globErr != nil {
				return nil, fmt.Errorf("bad input pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no input matches %q", arg)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}
	return paths, nil
}

// recordingName derives a display name from a recording path.
func recordingName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeReports prints reports to stdout, or to one file per recording when
// outDir is set.
func writeReports(reports []report, outDir string) error {
	if outDir == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(reports) == 1 {
			return enc.Encode(reports[0])
		}
		return enc.Encode(reports)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, r := range reports {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		// Report names can come from session metadata, so they are not
		// guaranteed to be path-safe.
		path := filepath.Join(outDir, security.SanitizeFilename(r.Name)+".report.json")
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return err
		}
		log.Infof("wrote %s", path)
	}
	return nil
}
