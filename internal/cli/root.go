package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/api"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/cache"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/config"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/logger"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/session"
	"github.com/SaitejaKommi/FaceSense-Dashboard/internal/tui"
)

var (
	serverURL  string
	logLevel   string
	logFile    string
	logConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "facesense",
	Short: "FaceSense - attendance console for the FaceSense server",
	Long: `FaceSense is a terminal console for the FaceSense attendance system.

Run 'facesense' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		configChanged := false
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = serverURL
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		loadedCfg = cfg

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("FaceSense started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedCfg
		store, err := session.NewDefaultStore()
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		client := api.NewClient(cfg.ServerURL, store)

		snap, err := cache.OpenDefault()
		if err != nil {
			logger.Warn("Offline cache unavailable", logger.F("error", err))
			snap = nil
		}
		if snap != nil {
			defer func() {
				_ = snap.Close()
			}()
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(cfg, store, client, snap)
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("FaceSense exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// loadedCfg is populated by PersistentPreRunE for the subcommands
var loadedCfg *config.Config

// newClient wires config + session store into an API client for subcommands
func newClient() (*api.Client, *session.Store, error) {
	cfg := loadedCfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store, err := session.NewDefaultStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return api.NewClient(cfg.ServerURL, store), store, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "FaceSense server URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(attendanceCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
}
