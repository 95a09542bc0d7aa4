package simload

import (
	"flag"
	"io"
	"runtime"
)

const defaultWorkerMultiplier = 2

const usage = `Universus Load Tool
===================

Registers community players, plays multisport contests concurrently and
checks that official records never change and every stat stays in range.

Usage:
  go run ./cmd/simload [options]

Options:
`

const examples = `
Examples:
  # Run with default settings
  go run ./cmd/simload

  # Heavier run against another host, half of the contests queued as jobs
  go run ./cmd/simload -matches 20000 -workers 32 -jobs 0.5 -url http://localhost:8080

  # Reproducible pairings, keeping the load players afterwards
  go run ./cmd/simload -seed 42 -cleanup=false
`

// ParseFlags reads a Config from args. help reports a -help request; the
// usage text has then been written to out.
func ParseFlags(args []string, out io.Writer) (cfg Config, help bool, err error) {
	fs := flag.NewFlagSet("simload", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	fs.IntVar(&cfg.Players, "players", DefaultPlayers, "Community players to register")
	fs.IntVar(&cfg.Matches, "matches", DefaultMatches, "Multisport contests to play")
	fs.Float64Var(&cfg.JobRatio, "jobs", DefaultJobRatio, "Share of contests submitted as async jobs (0-1)")
	fs.IntVar(&cfg.RosterSize, "roster", DefaultRosterSize, "Names per side")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkerMultiplier, "Concurrent clients")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	fs.DurationVar(&cfg.PollInterval, "poll", DefaultPollInterval, "Job status poll interval")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (0 draws one)")
	fs.BoolVar(&cfg.Cleanup, "cleanup", true, "Delete the load players when done")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every contest")
	fs.BoolVar(&help, "help", false, "Show this help message")
	fs.Usage = func() {
		_, _ = io.WriteString(out, usage)
		fs.PrintDefaults()
		_, _ = io.WriteString(out, examples)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, false, err
	}
	if help {
		fs.Usage()
	}
	return cfg, help, nil
}
