package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"hnassist/internal/components/restyutil"
	"hnassist/internal/components/telemetry"
	"hnassist/internal/scrapers/hackernews"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	dumpDir    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "The config file to read.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level.")
	rootCmd.PersistentFlags().StringVar(&dumpDir, "dump", "", "Write every http exchange to a file in this directory.")
}

type appKey struct{}

type app struct {
	config Config
	api    hackernews.Api
	otel   telemetry.Telemetry
}

func getApp(ctx context.Context) *app {
	return ctx.Value(appKey{}).(*app)
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	otel, err := telemetry.SetupFromEnv(ctx, "hnassist")
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no telemetry.json5 found, telemetry will not be exported")
	} else if err != nil {
		return nil, fmt.Errorf("setup telemetry: %w", err)
	}

	var dump restyutil.InstrumentOutput
	if dumpDir != "" {
		out, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return nil, fmt.Errorf("dump dir: %w", err)
		}
		dump = out
	}

	api, err := hackernews.NewApi(cfg.Hackernews, telemetry.SlogAPI{}, dump)
	if err != nil {
		return nil, err
	}
	return &app{config: cfg, api: api, otel: otel}, nil
}

var rootCmd = &cobra.Command{
	Use:           "hnassist",
	Short:         "hnassist reads items from hacker news and votes or comments on them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		shutdown = a.otel.Shutdown
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
}

// errActionFailed is returned by commands whose action reported false. The reason has
// already been logged by then.
var errActionFailed = errors.New("action failed")

// shutdown flushes the telemetry providers installed for the running command.
var shutdown = func(context.Context) error { return nil }

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if shutdownErr := shutdown(context.Background()); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}
	if err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
