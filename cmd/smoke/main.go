// Command smoke plays a batch of fast matches against a running derby
// server and verifies every report.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/derby/internal/smoketest"
	"github.com/okian/derby/pkg/logger"
)

const defaultTestTimeout = 10 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9080", "Base URL of the service")
		matches  = flag.Int("matches", smoketest.DefaultMatches, "Number of fast matches to play")
		teams    = flag.Int("teams", smoketest.DefaultTeams, "Number of random teams to create")
		workers  = flag.Int("workers", smoketest.DefaultWorkers, "Number of concurrent clients")
		timeout  = flag.Duration("timeout", smoketest.DefaultTimeout, "HTTP request timeout")
		poll     = flag.Duration("poll", smoketest.DefaultPollInterval, "Match status poll interval")
		keep     = flag.Bool("keep", false, "Keep the created teams")
		format   = flag.String("log-format", "text", "Log format: text or json")
		verbose  = flag.Bool("verbose", false, "Log every verified match")
		deadline = flag.Duration("deadline", defaultTestTimeout, "Overall run deadline")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format), logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	os.Exit(run(smoketest.Config{
		BaseURL:      *baseURL,
		Matches:      *matches,
		Teams:        *teams,
		Workers:      *workers,
		Timeout:      *timeout,
		PollInterval: *poll,
		Keep:         *keep,
		Verbose:      *verbose,
	}, *deadline))
}

func run(cfg smoketest.Config, deadline time.Duration) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	if _, err := smoketest.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "smoke test failed", logger.Error(err))
		return 1
	}
	return 0
}
