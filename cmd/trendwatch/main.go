// Command trendwatch is the keyword trend leaderboard TUI.
//
// Usage:
//
//	trendwatch              Run the TUI
//	trendwatch add <kw>...  Start tracking one or more keywords
//	trendwatch list         Show tracked keywords
//	trendwatch stats        Store statistics
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/config"
	"github.com/hypertrend/trendwatch/internal/coord"
	"github.com/hypertrend/trendwatch/internal/logging"
	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/provider"
	"github.com/hypertrend/trendwatch/internal/refresh"
	"github.com/hypertrend/trendwatch/internal/store"
	"github.com/hypertrend/trendwatch/internal/toast"
	"github.com/hypertrend/trendwatch/internal/ui"
)

const usage = `trendwatch — keyword trend leaderboard

Usage:
  trendwatch [command]

Commands:
  (none)      Run the TUI
  add <kw>    Start tracking one or more keywords
  list        Show tracked keywords
  stats       Store statistics

Config lives at ~/.trendwatch/config.json.
`

func main() {
	if len(os.Args) < 2 {
		runTUI()
		return
	}

	switch os.Args[1] {
	case "add":
		runAdd(os.Args[2:])
	case "list":
		runList()
	case "stats":
		runStats()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "trendwatch: unknown command %q\n\n", os.Args[1])
		fmt.Print(usage)
		os.Exit(1)
	}
}

// openStore loads config and opens the database, creating the data
// directory if needed.
func openStore() (*config.Config, *store.Store) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPath := cfg.DBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return cfg, st
}

func runTUI() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, st := openStore()
	defer st.Close()

	if err := logging.Init(cfg.Provider.Region, cfg.Provider.BaseURL); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.Close()

	b := board.New()
	if _, err := refresh.Seed(ctx, st, b, cfg.Provider.Region); err != nil {
		log.Fatalf("Failed to seed leaderboard: %v", err)
	}

	activity := monitor.NewLog(monitor.DefaultCapacity)
	toasts := toast.NewQueue(cfg.ToastTTL())
	defer toasts.Close()

	client := provider.NewClient(cfg.Provider.BaseURL, cfg.HTTPTimeout())
	orch := refresh.New(client, b, activity, toasts, st, cfg.Provider.Region, cfg.RefreshDelay())
	scheduler := coord.NewScheduler(orch, cfg.LiveInterval())

	app := ui.NewApp(
		func() tea.Cmd {
			return func() tea.Msg {
				return ui.BatchFinished{Ran: orch.RefreshAll(ctx)}
			}
		},
		func(id string) tea.Cmd {
			return func() tea.Msg {
				orch.RefreshOne(ctx, id)
				return nil
			}
		},
		func(on bool) tea.Cmd {
			return func() tea.Msg {
				if on {
					scheduler.Start(ctx)
				} else {
					scheduler.Stop()
				}
				return ui.LiveToggled{On: on}
			}
		},
		cfg.UI.SparklineWidth,
	)

	program := tea.NewProgram(app, tea.WithAltScreen())

	// Forward engine state changes into the UI.
	boardCh := b.Subscribe()
	logCh := activity.Subscribe()
	toastCh := toasts.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entries, ok := <-boardCh:
				if !ok {
					return
				}
				program.Send(ui.BoardUpdated{Entries: entries})
				program.Send(ui.CycleProgress{State: orch.Cycle()})
			case entries, ok := <-logCh:
				if !ok {
					return
				}
				program.Send(ui.LogUpdated{Entries: entries})
			case visible, ok := <-toastCh:
				if !ok {
					return
				}
				program.Send(ui.ToastsUpdated{Toasts: visible})
			}
		}
	}()

	// Push the seeded board before the first engine event arrives.
	program.Send(ui.BoardUpdated{Entries: b.Snapshot()})

	// Run UI (blocks until quit)
	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
	}

	// Graceful shutdown: stop the ticker, let any batch finish.
	cancel()
	scheduler.Stop()
	scheduler.Wait()
}
