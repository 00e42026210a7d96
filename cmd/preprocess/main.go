// Package main is the daylapse preprocessing entrypoint.
//
// It scans one or more directories of timestamped images, corrects for an
// undetected DST shift in the camera clock, keeps only daytime frames,
// applies per-day fade-in/fade-out, and writes a sequentially numbered
// frame sequence ready for an external video encoder.
//
// Usage:
//
//	preprocess [flags] OUTPUT_DIR INPUT_DIR [INPUT_DIR...]
//
// Every flag has an environment default (DAYLAPSE_* variables, .env file
// supported); flags win over the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daylapse/internal/config"
	"daylapse/internal/export"
	"daylapse/internal/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "daylapse: %v\n", err)
		return exitCode(err)
	}

	flag.StringVar(&opts.Timezone, "timezone", opts.Timezone, "IANA timezone of the camera")
	flag.Float64Var(&opts.Latitude, "latitude", opts.Latitude, "latitude of the camera in decimal degrees")
	flag.Float64Var(&opts.Longitude, "longitude", opts.Longitude, "longitude of the camera in decimal degrees")
	flag.IntVar(&opts.ResizeWidth, "width", opts.ResizeWidth, "resize frames to this width, 0 keeps the original size")
	flag.IntVar(&opts.FadeSeconds, "fade-seconds", opts.FadeSeconds, "fade zone length at day boundaries, 0 disables fading")
	flag.IntVar(&opts.NightMarginSeconds, "night-margin-seconds", opts.NightMarginSeconds, "twilight allowance before sunrise and after sunset")
	flag.BoolVar(&opts.IgnoreDSTSwitch, "ignore-dst", opts.IgnoreDSTSwitch, "trust the camera clock, skip DST anomaly detection")
	flag.IntVar(&opts.WorkerCount, "workers", opts.WorkerCount, "number of concurrent export workers")
	flag.BoolVar(&opts.OverlayTimestamp, "overlay", opts.OverlayTimestamp, "render the capture date/time onto each frame")
	flag.StringVar(&opts.OverlayFontPath, "overlay-font", opts.OverlayFontPath, "OpenType font for the overlay, built-in bitmap face when empty")
	flag.IntVar(&opts.FrameRate, "frame-rate", opts.FrameRate, "frame rate hint recorded in the manifest")
	flag.StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "debug, info, warn, or error")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		opts.OutputDir = args[0]
		opts.InputDirs = args[1:]
	}

	log := newLogger(opts.LogLevel)

	if err := opts.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return exitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := export.NewRunner(opts, log)
	if err != nil {
		log.Error("setup failed", "error", err)
		return exitCode(err)
	}

	report, err := runner.Run(ctx)
	if err != nil {
		log.Error("run failed", "error", err)
		return exitCode(err)
	}

	log.Info("run complete",
		"run_id", report.RunID,
		"accepted", report.Accepted,
		"rejected_night", report.RejectedNight,
		"written", report.Written,
		"failed", report.Failed,
		"elapsed", report.Elapsed.Round(10*time.Millisecond),
	)
	if len(report.FailedSeqs) > 0 {
		log.Warn("some frames failed during export", "failed_seqs", report.FailedSeqs)
	}
	return 0
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// exitCode maps an error to the process exit code via the error
// taxonomy; unknown errors exit 1.
func exitCode(err error) int {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr.Code.ExitCode()
	}
	return 1
}
