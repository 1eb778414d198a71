// Taskctl is the command-line companion to taskd. It operates on the same
// markdown project store directly, without going through the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/activity"
	"github.com/fyrsmithlabs/taskd/internal/config"
	"github.com/fyrsmithlabs/taskd/internal/store"
	"github.com/fyrsmithlabs/taskd/internal/template"
)

var (
	flagConfig string
	flagJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "taskctl",
	Short: "Manage markdown-backed projects and tasks",
	Long: `taskctl manages projects and tasks stored as markdown checklist files.

It reads the same configuration as the taskd daemon (config file plus
TASKD_* environment variables) and mutates the document store directly.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (default ~/.config/taskd/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output results as JSON")
}

// deps bundles everything a subcommand needs.
type deps struct {
	store    *store.Store
	activity *activity.Log
	catalog  *template.Catalog
}

// buildDeps assembles the store, activity log, and template catalog from
// configuration. The CLI logs nothing itself; store internals get a no-op
// logger.
func buildDeps() (*deps, error) {
	cfg, err := config.LoadWithFile(flagConfig)
	if err != nil {
		return nil, err
	}
	st, err := store.New(&store.Config{BaseDir: cfg.Store.BaseDir}, zap.NewNop())
	if err != nil {
		return nil, err
	}
	actLog, err := activity.New(&activity.Config{
		Path:         cfg.Activity.Path,
		RetentionCap: cfg.Activity.RetentionCap,
	}, zap.NewNop())
	if err != nil {
		return nil, err
	}
	catalog := template.Builtin()
	if cfg.Templates.Path != "" {
		catalog, err = template.LoadFile(cfg.Templates.Path)
		if err != nil {
			return nil, err
		}
	}
	return &deps{store: st, activity: actLog, catalog: catalog}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
