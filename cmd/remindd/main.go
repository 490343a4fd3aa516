package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"remindd/internal/config"
	"remindd/internal/history"
	"remindd/internal/maintenance"
	"remindd/internal/scheduler"
	"remindd/internal/storage"
	"remindd/internal/update"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the yaml config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "remindd failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	diag, closeDiag, err := openDiagLogger(cfg.Log.Path)
	if err != nil {
		return err
	}
	defer closeDiag()

	if dir := filepath.Dir(cfg.Database.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}
	repo, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return err
	}

	ledger := history.NewLedger(repo, diag)
	reconciler := history.NewReconciler(ledger, repo, diag)
	cleaner := history.NewCleaner(repo, diag)
	engine := scheduler.NewEngine(cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()

	runner := maintenance.NewRunner(repo, reconciler, cleaner, engine, diag, cfg.History.BackfillDays, cfg.History.RetentionDays)
	summary, err := runner.Run(context.Background(), time.Now())
	if err != nil {
		return err
	}
	diag.Printf("maintenance: flags=%d moved=%d backfilled=%d pruned=%d",
		summary.FlagsReset, summary.OccurrencesMoved, summary.Backfilled, summary.Pruned)

	program := tea.NewProgram(update.NewModel(update.Deps{
		Repo:   repo,
		Ledger: ledger,
		Engine: engine,
		Diag:   diag,
	}))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

// openDiagLogger routes diagnostics to the configured file; the TUI owns the
// terminal, so an empty path discards them.
func openDiagLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "remindd ", log.LstdFlags), func() { _ = f.Close() }, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".remindd", "config.yaml")
}
