// Taskd is a personal project dashboard daemon over markdown checklist
// files.
//
// It serves an HTTP API for listing projects, mutating tasks, reading the
// activity log, and deriving due-date notifications. Project state lives in
// plain markdown documents under the configured base directory; the daemon
// is a thin server over that store.
//
// Usage:
//
//	# Start server with defaults (~/dev/projects, port 8787)
//	taskd
//
//	# Configure via file or environment
//	taskd -config ~/.config/taskd/config.yaml
//	TASKD_SERVER_PORT=9000 TASKD_STORE_BASE_DIR=/srv/projects taskd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/config"
	httpserver "github.com/fyrsmithlabs/taskd/internal/http"
	"github.com/fyrsmithlabs/taskd/internal/logging"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/template"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath = flag.String("config", "", "path to config file (default ~/.config/taskd/config.yaml)")

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  taskd           Start the taskd daemon\n")
			fmt.Fprintf(os.Stderr, "  taskd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("taskd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the taskd server and blocks until the context is cancelled.
func run(ctx context.Context) error {
	cfg, err := config.LoadWithFile(*configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are harmless

	logger.Info("starting taskd",
		zap.String("version", version),
		zap.String("base_dir", cfg.Store.BaseDir),
	)

	st, err := store.New(&store.Config{BaseDir: cfg.Store.BaseDir}, logger.Named("store"))
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	actLog, err := activity.New(&activity.Config{
		Path:         cfg.Activity.Path,
		RetentionCap: cfg.Activity.RetentionCap,
	}, logger.Named("activity"))
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	catalog := template.Builtin()
	if cfg.Templates.Path != "" {
		catalog, err = template.LoadFile(cfg.Templates.Path)
		if err != nil {
			return fmt.Errorf("failed to load template catalog: %w", err)
		}
	}

	watcher, err := st.Watch(func(ev store.Event) {
		logger.Debug("document changed",
			zap.String("slug", ev.Slug),
			zap.String("op", ev.Op),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to start document watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	server, err := httpserver.NewServer(st, actLog, catalog, logger.Named("http"), &httpserver.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
