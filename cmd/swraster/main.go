// Command swraster renders a YAML scene to a PNG image.
//
// Usage:
//
//	swraster -scene scene.yaml -out out.png [-config swraster.toml]
//	         [-strategy direct|mask] [-scale 1] [-thumb thumb.png]
//	         [-watch] [-log-level info] [-log-file swraster.log]
//
// Flags given on the command line override the configuration file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/swraster"
	"github.com/gogpu/swraster/internal/config"
	"github.com/gogpu/swraster/internal/logging"
	"github.com/gogpu/swraster/internal/watch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	scene, out, thumb, config string
	thumbWidth                int
	watch                     bool

	// Overrides of the configuration file, applied when set.
	strategy  string
	scale     float64
	logLevel  string
	logFile   string
	logFormat string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, map[string]bool, error) {
	var f cliFlags
	fs := flag.NewFlagSet("swraster", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.scene, "scene", "", "scene file (YAML)")
	fs.StringVar(&f.out, "out", "out.png", "output PNG file")
	fs.StringVar(&f.thumb, "thumb", "", "optional thumbnail PNG file")
	fs.IntVar(&f.thumbWidth, "thumb-width", 128, "thumbnail width in pixels")
	fs.StringVar(&f.config, "config", "", "configuration file (TOML)")
	fs.BoolVar(&f.watch, "watch", false, "re-render when the scene file changes")
	fs.StringVar(&f.strategy, "strategy", "direct", "coverage strategy: direct or mask")
	fs.Float64Var(&f.scale, "scale", 1, "output scale factor")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.StringVar(&f.logFile, "log-file", "", "rotated JSON log file")
	fs.StringVar(&f.logFormat, "log-format", "text", "console log format: text or json")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	if f.scene == "" {
		fs.Usage()
		return f, nil, errors.New("missing -scene")
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// settings merges the configuration file with explicitly set flags.
func settings(f cliFlags, set map[string]bool) (config.Config, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return cfg, err
	}
	if set["strategy"] {
		cfg.Strategy = f.strategy
	}
	if set["scale"] {
		cfg.Scale = f.scale
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
	if set["log-file"] {
		cfg.Log.File = f.logFile
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) int {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "swraster:", err)
		return 2
	}
	cfg, err := settings(f, set)
	if err != nil {
		fmt.Fprintln(stderr, "swraster:", err)
		return 2
	}

	log, closer := logging.New(stderr, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer closer.Close()
	swraster.SetLogger(log)
	defer swraster.SetLogger(nil)

	r := newRenderer(f, cfg, log, stdout)
	if err := r.render(); err != nil {
		log.Error("render failed", "scene", f.scene, "error", err)
		if !f.watch {
			return 1
		}
	}
	if !f.watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := watchScene(ctx, f.scene, cfg, r, log); err != nil {
		log.Error("watch failed", "error", err)
		return 1
	}
	return 0
}

// watchScene re-renders on every change of the scene file until ctx ends.
func watchScene(ctx context.Context, path string, cfg config.Config, r *renderer, log *slog.Logger) error {
	w, err := watch.New(path, cfg.Watch.Debounce(), r.render, func(err error) {
		log.Error("render failed", "scene", path, "error", err)
	})
	if err != nil {
		return err
	}
	log.Info("watching scene", "scene", path)
	w.Start()
	<-ctx.Done()
	w.Stop()
	return nil
}
