package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/cukraszda/internal/config"
	"codeberg.org/mutker/cukraszda/internal/errors"
	"codeberg.org/mutker/cukraszda/internal/export"
	"codeberg.org/mutker/cukraszda/internal/logger"
	"codeberg.org/mutker/cukraszda/internal/metrics"
	"codeberg.org/mutker/cukraszda/internal/pid"
	"codeberg.org/mutker/cukraszda/internal/report"
	"codeberg.org/mutker/cukraszda/internal/sensor"
	"codeberg.org/mutker/cukraszda/internal/simulation"
	"codeberg.org/mutker/cukraszda/internal/store"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Str("config_file", cfg.ConfigFile).Msg("Config loaded")

	pidPath := cfg.PIDFile
	if pidPath == "" {
		pidPath = pid.PathFor(cfg.DBPath)
	}
	if err := pid.Write(pidPath); err != nil {
		logger.Error().Err(err).Str("pid_file", pidPath).Msg("failed to acquire run lock")
		return 1
	}
	defer func() {
		if err := pid.Remove(pidPath); err != nil {
			logger.Warn().Err(err).Msg("failed to remove pid file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	driver := newDriver(cfg)

	res, err := driver.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("simulation aborted")
		return 1
	}

	for _, r := range res.Persisted {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.Sink, r.Err)
		}
	}

	return 0
}

func newDriver(cfg *config.Config) *simulation.Driver {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", seed).Msg("Seeding sensor network")

	network := sensor.NewDefaultNetwork(rand.New(rand.NewSource(seed)))

	colored := !cfg.NoColor && isatty.IsTerminal(os.Stdout.Fd())
	reporter := report.New(colorable.NewColorableStdout(), report.WithColor(colored))

	log := logger.Default()
	recorder := metrics.NewService(metrics.Config{Enabled: cfg.Metrics}, log)

	storeCfg := store.DefaultConfig()
	storeCfg.DBPath = cfg.DBPath

	settings := simulation.Settings{
		Cycles:         cfg.Cycles,
		Interval:       cfg.Interval,
		AlertThreshold: cfg.AlertThreshold,
	}
	if !cfg.NoWait && isatty.IsTerminal(os.Stdin.Fd()) {
		settings.Wait = simulation.WaitForEnter(os.Stdin)
	}

	return simulation.New(network, reporter, recorder, log, settings,
		store.NewSink(storeCfg, log),
		export.NewJSONFile(cfg.JSONPath, log),
	)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
	// A second signal takes the default action.
	signal.Stop(sigs)
}
