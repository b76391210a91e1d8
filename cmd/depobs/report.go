package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/depobs/internal/config"
	"github.com/nao1215/depobs/internal/controller"
	"github.com/nao1215/depobs/internal/model"
	"github.com/nao1215/depobs/internal/presenter"
	"github.com/nao1215/depobs/internal/service"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <package> [version]",
		Short: "Find or request the dependency report of an npm package",
		Long: `Report looks up the dependency-risk report for an npm package.

With a version, depobs first checks whether a recent report exists and prints
its URL. When no report exists it queues a scan and prints the URL of the
scan's log page. Without a version, or with --force-rescan, a scan is queued
right away.

Examples:
  # Find the report for a specific version
  depobs report left-pad 1.3.0

  # Scan the latest version
  depobs report left-pad

  # Scan again even if a report exists
  depobs report --force-rescan left-pad

  # Use another report service
  depobs report -u https://depobs.example.com left-pad 1.3.0`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runReportCmd,
	}

	cmd.Flags().BoolP("force-rescan", "f", false,
		"Queue a new scan of the latest version without checking for a report")
	cmd.Flags().StringP("base-url", "u", config.DefaultBaseURL,
		"Root URL of the report service")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request to the report service")
	cmd.Flags().StringP("proxy", "p", "",
		"SOCKS5 proxy address (host:port)")
	cmd.Flags().StringArrayP("header", "H", nil,
		`Extra request header in "Name: value" form (repeatable)`)
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the result as Markdown")
	cmd.Flags().Bool("no-color", false,
		"Disable coloured output")
	addConfigFlag(cmd)

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildReportConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	values, err := submissionValues(cmd, args)
	if err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = runReport(ctx, cmd, cfg, values, logger)
	return err
}

// buildReportConfig loads the configuration file and applies changed flags.
func buildReportConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("markdown") {
		if cfg.Markdown, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
	}
	if cfg.NoColor, err = flags.GetBool("no-color"); err != nil {
		return nil, err
	}

	headers, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q (expected \"Name: value\")", h)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	return cfg, nil
}

// submissionValues turns the positional arguments and --force-rescan into
// form values.
func submissionValues(cmd *cobra.Command, args []string) (url.Values, error) {
	forceRescan, err := cmd.Flags().GetBool("force-rescan")
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set(model.FieldPackageName, args[0])
	if len(args) > 1 {
		values.Set(model.FieldPackageVersion, args[1])
	}
	if forceRescan {
		values.Set(model.FieldForceRescan, "on")
	}
	return values, nil
}

// runReport submits values once through the controller and writes the
// result to the command's output.
func runReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, values url.Values, logger *slog.Logger) (model.Outcome, error) {
	clientOpts := []service.Option{
		service.WithTimeout(cfg.Timeout),
		service.WithUserAgent(cfg.UserAgent),
		service.WithHeaders(cfg.Headers),
		service.WithLogger(logger),
	}
	if cfg.ProxyAddress != "" {
		clientOpts = append(clientOpts, service.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	client, err := service.NewClient(cfg.BaseURL, clientOpts...)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("failed to create report service client: %w", err)
	}

	var renderer presenter.Renderer = presenter.NewTextRenderer(cfg.NoColor)
	if cfg.Markdown {
		renderer = presenter.NewMarkdownRenderer()
	}
	p := presenter.New(
		presenter.WithOutput(cmd.OutOrStdout()),
		presenter.WithRenderer(renderer),
		presenter.WithBaseURL(client.BaseURL()),
		presenter.WithIssueTrackerURL(cfg.IssueTrackerURL),
		presenter.WithLogger(logger),
	)

	if err := p.Form().Fill(values); err != nil {
		return model.Outcome{}, err
	}
	fields := p.Form().Snapshot()
	if err := fields.Validate(); err != nil {
		return model.Outcome{}, err
	}

	logger.Debug("submitting package report request",
		"package", fields.PackageName,
		"version", fields.PackageVersion,
		"force_rescan", fields.ForceRescan,
	)

	ctrl := controller.New(client, client, p, controller.WithLogger(logger))
	outcome, err := ctrl.OnSubmit(ctx, fields)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return outcome, fmt.Errorf("request canceled: %w", err)
		}
		return outcome, fmt.Errorf("package report request failed: %w", err)
	}
	return outcome, nil
}
