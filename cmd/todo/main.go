package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"todolist/internal/config"
	"todolist/internal/logging"
	"todolist/internal/storage"
	"todolist/internal/tasks"
	"todolist/internal/ui"
	"todolist/internal/web"
)

// Version is set via ldflags at build time.
var Version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "todo: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", config.ResolveConfigPath(), "path to config.toml")
	serve := fs.Bool("serve", false, "serve the list over HTTP instead of the terminal UI")
	addr := fs.String("addr", "", "listen address for -serve (default from config)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println("todo", Version)
		return nil
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal UI owns the screen, so it only logs when log_path is set.
	var fallback io.Writer
	if *serve {
		fallback = os.Stderr
	}
	logger, closeLog, err := logging.New(cfg, fallback)
	if err != nil {
		return err
	}
	defer closeLog()

	kv, closeStore, err := storage.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore()

	store := tasks.NewStore(kv, cfg.StorageKey, logger)

	if *serve {
		listen := cfg.ListenAddr
		if *addr != "" {
			listen = *addr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return web.New(store, logger).ListenAndServe(ctx, listen)
	}

	if err := ui.Run(store, cfg, logger); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
