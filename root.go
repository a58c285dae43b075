package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/ledgerflow-go/internal/config"
	"github.com/ledgerflow/ledgerflow-go/internal/credstore"
	"github.com/ledgerflow/ledgerflow-go/internal/ledger"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagFolder     string
	flagJSON       bool
	flagVerbose    bool
	flagQuiet      bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Resolved

// httpClientTimeout is the default timeout for HTTP requests.
// Prevents hung connections from blocking CLI commands indefinitely.
const httpClientTimeout = 30 * time.Second

// defaultHTTPClient returns an HTTP client with a sensible timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ledgerflow-go",
		Short:   "LedgerFlow accounting API client",
		Long:    "A CLI client for the LedgerFlow accounting API: authenticate, select a folder, and read folder-scoped objects.",
		Version: version,
		// Silence Cobra's default error/usage printing — we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagFolder, "folder", "", "folder to scope data operations to")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output compact JSON")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress informational output")

	// Register subcommands.
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newFolderCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newGetCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the override chain
// and stores the result in resolvedCfg for use by subcommands.
func loadConfig() error {
	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
		Folder:     flagFolder,
	}

	resolved, err := config.Resolve(config.ReadEnvOverrides(), cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config and
// CLI flags. Config-file log level provides the baseline; --verbose and
// --quiet override it because CLI flags always win.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	// CLI flags override config (highest priority).
	if flagVerbose {
		level = slog.LevelDebug
	}

	if flagQuiet {
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSession builds a Session from the resolved config and any stored
// credentials, wiring refreshed tokens back into the credential store.
func newSession(logger *slog.Logger) (*ledger.Session, *credstore.Store, error) {
	store := credstore.NewStore(config.DefaultDataDir())

	sess := ledger.NewSession(resolvedCfg.BaseURL, defaultHTTPClient(), logger)

	creds, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading credentials: %w", err)
	}

	if creds != nil {
		sess.WithTokens(creds.Email, ledger.TokenPair{
			AccessToken:  creds.AccessToken,
			RefreshToken: creds.RefreshToken,
		})

		email := creds.Email
		sess.OnTokenChange(func(pair ledger.TokenPair) {
			saveErr := store.Save(&credstore.Credentials{
				Email:        email,
				AccessToken:  pair.AccessToken,
				RefreshToken: pair.RefreshToken,
			})
			if saveErr != nil {
				logger.Warn("failed to persist refreshed credentials",
					slog.String("error", saveErr.Error()),
				)
			}
		})
	}

	if resolvedCfg.Folder != "" {
		sess.SetFolder(resolvedCfg.Folder)
	}

	return sess, store, nil
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
