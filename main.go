package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/himai-labs/tension.report/internal/logging"
	"github.com/himai-labs/tension.report/internal/motion"
	"github.com/himai-labs/tension.report/internal/version"
)

var showVersion = flag.Bool("version", false, "Print version and exit")

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "analyze":
		handleAnalyze(args)
	case "listen":
		handleListen(args)
	case "sessions":
		handleSessions(args)
	case "replay":
		handleReplay(args)
	case "delete":
		handleDelete(args)
	case "exercises":
		handleExercises(args)
	case "version":
		fmt.Println(version.String())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tension-report - mechanical tension analysis for recorded lifts

Usage: tension-report <command> [options]

Commands:
  analyze    Analyze landmark recordings (files, directories, or globs)
  listen     Capture a live UDP landmark stream into the session store
  sessions   List captured sessions
  replay     Re-run a captured session through the analyzer
  delete     Remove a captured session
  exercises  Show the exercise catalog and per-exercise tuning
  version    Show version information
  help       Show this help

Common Flags (per command):
  -log-level <level>   trace|debug|info|warn|error (default: info)
  -log-file <path>     rotate logs to this file instead of stdout
  -verbose             pipeline diagnostics on stderr
  -trace               per-frame pipeline tracing on stderr (noisy)

Examples:
  # Analyze one recording and stream progress while it runs
  tension-report analyze -progress bench_2026-08-01.json

  # Analyze a directory of recordings as bench press sets, 4 at a time
  tension-report analyze -exercise bench_press -workers 4 -out reports/ ./sets/

  # Capture a phone streaming pose frames over UDP, then replay the capture
  tension-report listen -addr :7600 -exercise squat -name "friday squats"
  tension-report replay <session-id>

  # Inspect the exercise catalog
  tension-report exercises
  tension-report exercises bench_press`)
}

// logFlags carries the logging options shared by every subcommand.
type logFlags struct {
	level   *string
	file    *string
	stdout  *bool
	json    *bool
	verbose *bool
	trace   *bool
}

func addLogFlags(fs *flag.FlagSet) *logFlags {
	return &logFlags{
		level:   fs.String("log-level", "info", "log level [trace|debug|info|warn|error]"),
		file:    fs.String("log-file", "", "log file path (empty: log to stdout)"),
		stdout:  fs.Bool("log-stdout", false, "also log to stdout when -log-file is set"),
		json:    fs.Bool("log-json", false, "log in JSON format"),
		verbose: fs.Bool("verbose", false, "print pipeline diagnostics to stderr"),
		trace:   fs.Bool("trace", false, "print per-frame pipeline tracing to stderr (noisy)"),
	}
}

// apply configures logrus and the motion diagnostic streams.
func (lf *logFlags) apply() {
	logging.Setup(logging.SetupParams{
		LogFileName:   *lf.file,
		LogToStdout:   *lf.stdout,
		LogLevel:      *lf.level,
		LogFormatJSON: *lf.json,
	})

	writers := motion.LogWriters{Ops: os.Stderr}
	if *lf.verbose || *lf.trace {
		writers.Diag = os.Stderr
	}
	if *lf.trace {
		writers.Trace = os.Stderr
	}
	motion.SetLogWriters(writers)
}

func handleExercises(args []string) {
	fs := flag.NewFlagSet("exercises", flag.ExitOnError)
	joints := fs.Bool("joints", false, "List the joints a recording can track")
	fs.Parse(args)

	if *joints {
		fmt.Println("Trackable joints:")
		for _, j := range motion.Joints() {
			fmt.Printf("  %-10s %s\n", j.Name, j.Description)
		}
		return
	}

	if fs.NArg() > 0 {
		printExerciseDetail(fs.Arg(0))
		return
	}

	fmt.Printf("%-24s %-26s %-12s %-12s %s\n", "NAME", "DISPLAY", "CATEGORY", "DIFFICULTY", "TRACK JOINT")
	for _, e := range motion.Catalog() {
		fmt.Printf("%-24s %-26s %-12s %-12s %s\n",
			e.Name, e.DisplayName, e.Category, e.Difficulty, e.RecommendedJoint)
	}
}

func printExerciseDetail(name string) {
	entry, ok := motion.Exercise(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown exercise: %s (run 'tension-report exercises' for the list)\n", name)
		os.Exit(1)
	}

	fmt.Printf("%s (%s)\n", entry.DisplayName, entry.Name)
	if entry.Description != "" {
		fmt.Printf("  %s\n", entry.Description)
	}
	fmt.Printf("  category: %s  difficulty: %s  pattern: %s\n",
		entry.Category, entry.Difficulty, entry.MovementPattern)
	fmt.Printf("  joints: %v (track: %s)\n", entry.PrimaryJoints, entry.RecommendedJoint)

	preset := motion.PresetFor(entry.Name)
	fmt.Printf("  tuning: noise floor %.3f, min rep %.1fs, min rest %.1fs, smoothing window %d\n",
		preset.NoiseFloor, preset.MinRepDurationS, preset.MinRestDurationS, preset.SmoothingWindow)

	if len(entry.Tips) > 0 {
		fmt.Println("  tips:")
		for _, tip := range entry.Tips {
			fmt.Printf("    - %s\n", tip)
		}
	}
	if len(entry.CommonMistakes) > 0 {
		fmt.Println("  common mistakes:")
		for _, m := range entry.CommonMistakes {
			fmt.Printf("    - %s\n", m)
		}
	}
}
