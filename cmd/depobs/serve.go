package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/depobs/internal/config"
	"github.com/nao1215/depobs/internal/database"
	"github.com/nao1215/depobs/internal/devserver"
)

// shutdownTimeout bounds graceful shutdown of the development service.
const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local development report service",
		Long: `Serve runs a small report service that speaks the same HTTP interface as
the dependency observatory, backed by a local SQLite database.

It answers report lookups, queues scans, and shows scan status pages, so
"depobs report" can be tried without a full deployment.

Examples:
  # Listen on the default address
  depobs serve

  # Seed reports so lookups find them
  depobs serve --seed left-pad@1.3.0 --seed @babel/core@7.0.0

  # Keep the database somewhere else
  depobs serve --db-dir ./data --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServeAddr,
		"Listen address")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")
	cmd.Flags().Int("scored-after-days", config.DefaultScoredAfterDays,
		"Only reports scored within this many days are found (0 disables the window)")
	cmd.Flags().StringArray("seed", nil,
		"Store a report for name@version before serving (repeatable)")
	cmd.Flags().Bool("no-banner", false,
		"Do not print the start banner")
	addConfigFlag(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	seeds, err := cmd.Flags().GetStringArray("seed")
	if err != nil {
		return err
	}
	noBanner, err := cmd.Flags().GetBool("no-banner")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "path", db.Path())

	if err := seedReports(ctx, db, seeds); err != nil {
		return err
	}

	srv := devserver.New(db,
		devserver.WithLogger(logger),
		devserver.WithScoredAfterDays(cfg.ScoredAfterDays),
	).HTTPServer(cfg.ServeAddr)

	if !noBanner {
		printBanner(cmd.OutOrStdout(), cfg.ServeAddr)
	}

	return serve(ctx, srv, logger)
}

// buildServeConfig loads the configuration file and applies changed flags.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		if cfg.ServeAddr, err = flags.GetString("addr"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("scored-after-days") {
		if cfg.ScoredAfterDays, err = flags.GetInt("scored-after-days"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// parsePackageSpec splits name@version. The leading @ of a scoped package
// name is not a separator.
func parsePackageSpec(spec string) (name, version string, err error) {
	i := strings.LastIndex(spec, "@")
	if i <= 0 || i == len(spec)-1 {
		return "", "", fmt.Errorf("invalid package %q (expected name@version)", spec)
	}
	return spec[:i], spec[i+1:], nil
}

// seedReports stores a fresh report for every name@version in seeds.
func seedReports(ctx context.Context, db *database.ReportDB, seeds []string) error {
	for _, spec := range seeds {
		name, version, err := parsePackageSpec(spec)
		if err != nil {
			return err
		}
		if _, err := db.SaveReport(ctx, &database.PackageReport{Package: name, Version: version}); err != nil {
			return fmt.Errorf("failed to seed %s: %w", spec, err)
		}
	}
	return nil
}

// printBanner prints the start banner and the listen address.
func printBanner(w io.Writer, addr string) {
	fmt.Fprint(w, figure.NewFigure("depobs", "doom", true).String())
	green := color.New(color.FgGreen)
	_, _ = green.Fprintf(w, "development report service listening on http://%s\n", addr)
}

// serve runs srv until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("development report service failed: %w", err)
	case <-ctx.Done():
		logger.Info("received shutdown signal, stopping...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down development report service: %w", err)
	}
	return nil
}
