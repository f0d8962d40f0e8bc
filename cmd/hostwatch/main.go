package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hostwatch/internal/agent"
	"hostwatch/internal/config"
	"hostwatch/internal/history"
	"hostwatch/internal/logx"
	"hostwatch/internal/sysinfo"
)

const usage = `hostwatch - one-shot host health reporter

Usage:
  hostwatch run [--config <path>]
  hostwatch validate [--config <path>]
  hostwatch stats [--config <path>] [--history <path>] [--window 24h]

One invocation of "run" performs exactly one report cycle; repetition is
the job of an external timer (cron, systemd timer).

Exit codes for run:
  0  cycle completed
  2  usage error
  3  config missing or invalid
  4  network identity unavailable
  5  network counters unavailable
  6  report transmission failed
`

const defaultConfigPath = "hostwatch.json"

func main() {
	// A .env next to the binary can carry HOSTWATCH_* overrides.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		fmt.Print(usage)
	case "run":
		runCycle(os.Args[2:])
	case "validate":
		validateConfig(os.Args[2:])
	case "stats":
		showStats(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}
}

func runCycle(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config record (JSON or YAML)")
	_ = fs.Parse(args)

	// Pre-read the record only to locate the diagnostic log; the cycle
	// itself owns loading and validation.
	logPath := config.DefaultLogPath
	if rec, err := config.Load(*configPath); err == nil {
		logPath = rec.LogPath
	}

	logger, closer, err := logx.Open(logPath)
	if err != nil {
		logger = logx.Console()
		logger.Warn().Err(err).Str("path", logPath).Msg("diagnostic log unavailable")
	} else {
		defer closer.Close()
	}

	cycle := &agent.Cycle{
		Repo:     config.NewFileRepository(*configPath),
		Provider: sysinfo.NewOSProvider(),
		Log:      logger,
	}

	if err := cycle.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("cycle failed")
		os.Exit(exitCode(err))
	}
}

func validateConfig(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config record (JSON or YAML)")
	_ = fs.Parse(args)

	rec, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	config.ApplyEnv(&rec)
	if err := config.Validate(rec); err != nil {
		fatal(err)
	}
	fmt.Printf("ok: controller=%s:%d target=%s hostname=%s\n",
		rec.ControllerAddress, rec.ControllerPort, rec.TargetURL, rec.Hostname())
}

func showStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config record (JSON or YAML)")
	historyPath := fs.String("history", "", "history CSV path (defaults to history_path from config)")
	window := fs.Duration("window", 24*time.Hour, "summary window")
	_ = fs.Parse(args)

	path := *historyPath
	if path == "" {
		rec, err := config.Load(*configPath)
		if err != nil {
			fatal(err)
		}
		path = rec.HistoryPath
	}
	if path == "" {
		fatal(errors.New("no history path: set --history or history_path in config"))
	}

	items, err := history.ReadCSV(path)
	if err != nil {
		fatal(err)
	}

	summary := history.Summarize(items, time.Now().Add(-*window))
	if summary.Count == 0 {
		fmt.Println("no samples in window")
		return
	}
	fmt.Printf("samples:        %d (%s .. %s)\n", summary.Count,
		summary.From.UTC().Format(time.RFC3339), summary.To.UTC().Format(time.RFC3339))
	fmt.Printf("cpu:            avg %.1f%%  max %.1f%%\n", summary.AvgCPU, summary.MaxCPU)
	fmt.Printf("memory used:    avg %.0f MB\n", summary.AvgMemUsedMB)
	fmt.Printf("counters:       in %d  out %d\n", summary.LastBytesIn, summary.LastBytesOut)
	fmt.Printf("reachable:      %.1f%%\n", summary.ReachablePct)
	fmt.Printf("incidents:      %d\n", summary.Incidents)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, config.ErrNotFound), errors.Is(err, config.ErrInvalid):
		return 3
	case errors.Is(err, sysinfo.ErrNoIdentity):
		return 4
	case errors.Is(err, sysinfo.ErrNoCounters):
		return 5
	case errors.Is(err, agent.ErrTransmit):
		return 6
	default:
		return 1
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
