package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/mmcdole/vrsettings/internal/adapter"
	"github.com/mmcdole/vrsettings/internal/service"
	"github.com/mmcdole/vrsettings/internal/store"
	"github.com/mmcdole/vrsettings/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, initConfig bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&initConfig, "init-config", false, "write the default config file and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("vrsettings %s\n", Version)
		return
	}

	if initConfig {
		if err := writeDefaultConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeDefaultConfig() error {
	if err := adapter.SaveConfig(adapter.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", adapter.ConfigFilePath())
	return nil
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("vrsettings needs an interactive terminal")
	}

	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting vrsettings", "version", Version)

	settings, err := store.NewSettingsStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open settings store: %w", err)
	}
	defer func() {
		if err := settings.Close(); err != nil {
			logger.Error("failed to close settings store", "error", err)
		}
	}()

	clock := clockwork.NewRealClock()
	backend := adapter.NewLocalBackend(cfg.Account, clock, logger)
	accounts := service.NewAccountService(backend, settings, clock, logger)

	model := tui.NewModel(accounts, logger, cfg.UI.SpinnerInterval)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
