package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryanthedev/reactor/internal/config"
	"github.com/ryanthedev/reactor/internal/events"
	"github.com/ryanthedev/reactor/internal/layout/bsp"
	"github.com/ryanthedev/reactor/internal/layout/scroll"
	"github.com/ryanthedev/reactor/internal/layout/traditional"
	"github.com/ryanthedev/reactor/internal/layoutengine"
	"github.com/ryanthedev/reactor/internal/logging"
	"github.com/ryanthedev/reactor/internal/output"
	"github.com/ryanthedev/reactor/internal/persistence"
	"github.com/ryanthedev/reactor/internal/reactor"
	"github.com/ryanthedev/reactor/internal/workspace"
)

var (
	configPath string
	statePath  string
)

var rootCmd = &cobra.Command{
	Use:     "reactor",
	Short:   "Reactor - a tiling window manager's event-driven core",
	Version: "0.1.0",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reactor loop in the foreground",
	Long: `Starts the reactor goroutine and blocks until interrupted. Window-server,
accessibility, and input-tap event sources are out of this process's scope;
run hosts the reactor and its config watcher and persists state on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		defer logging.Close()

		r, watcher, err := buildReactor()
		if err != nil {
			return err
		}
		if watcher != nil {
			defer watcher.Close()
		}

		go r.Run()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigs:
			r.Events <- reactor.Envelope{Event: events.Event{Kind: events.KindSaveAndExit}}
		case <-r.Done():
			return nil
		}

		<-r.Done()
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the persisted workspace and floating state",
	Long:  `Loads the state file from disk and renders it as tables, without starting the reactor.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := statePath
		if path == "" {
			path = persistence.GetStatePath()
		}
		snap, err := persistence.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}

		wsManager := workspace.New()
		if err := wsManager.Restore(snap.Workspaces); err != nil {
			return fmt.Errorf("failed to restore workspaces: %w", err)
		}

		for _, d := range snap.Workspaces {
			active, _ := wsManager.ActiveWorkspace(d.Display)
			fmt.Printf("Display %d:\n", d.Display)
			output.PrintWorkspacesTable(d.Display, wsManager.WorkspacesFor(d.Display), active)
		}
		for _, f := range snap.Floating {
			fmt.Printf("Space %d floating windows: %d\n", f.Space, len(f.Windows))
		}
		return nil
	},
}

var saveAndExitCmd = &cobra.Command{
	Use:   "save-and-exit",
	Short: "Trigger the reactor's graceful shutdown path once",
	Long: `Builds a reactor, immediately folds a SaveAndExit event into it, and
waits for the persisted state to be written. Useful for exercising the
shutdown path outside of a long-running run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(); err != nil {
			return fmt.Errorf("failed to init logging: %w", err)
		}
		defer logging.Close()

		r, watcher, err := buildReactor()
		if err != nil {
			return err
		}
		if watcher != nil {
			defer watcher.Close()
		}

		go r.Run()
		r.Events <- reactor.Envelope{Event: events.Event{Kind: events.KindSaveAndExit}}

		select {
		case <-r.Done():
		case <-time.After(5 * time.Second):
			return fmt.Errorf("timed out waiting for save-and-exit to complete")
		}
		fmt.Println("state saved")
		return nil
	},
}

// buildReactor wires the layout engine and reactor the way every verb
// needs them, and starts the config file watcher so a live edit is
// folded in as a ConfigUpdated event.
func buildReactor() (*reactor.Reactor, *config.Watcher, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	trad := traditional.New(cfg.Stack.MinimumShare, cfg.Stack.ResizeAmount, cfg.Gaps.OuterLeft, cfg.Gaps.InnerHorizontal)
	b := bsp.New(cfg.Stack.MinimumShare, cfg.Stack.ResizeAmount, cfg.Gaps.InnerHorizontal)
	s := scroll.New(cfg.Scroll.DefaultWidthUnits, cfg.Scroll.SnapThreshold, cfg.Scroll.CenterBias, cfg.Scroll.Reverse, cfg.Gaps.InnerHorizontal, cfg.Gaps.OuterLeft)
	engine := layoutengine.NewEngine(cfg, trad, b, s)

	opts := []reactor.Option{}
	if statePath != "" {
		opts = append(opts, reactor.WithStatePath(statePath))
	}
	r := reactor.New(cfg, engine, 64, opts...)

	watcher, err := config.WatchConfig(path)
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("config watcher unavailable, live reload disabled")
		return r, nil, nil
	}
	go func() {
		for newCfg := range watcher.Updates {
			r.Events <- reactor.Envelope{Event: events.Event{Kind: events.KindConfigUpdated, Config: newCfg}}
		}
	}()
	return r, watcher, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (defaults to ~/.config/reactor/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "path to the persisted state file (defaults to ~/.local/state/reactor/state.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(saveAndExitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
