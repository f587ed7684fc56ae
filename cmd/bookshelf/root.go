package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AntonStoeckl/bookshelf-store-go/app/presentation/terminal"
	"github.com/AntonStoeckl/bookshelf-store-go/app/shell/config"
	"github.com/AntonStoeckl/bookshelf-store-go/app/shell/logging"
	"github.com/AntonStoeckl/bookshelf-store-go/preferences"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore"
	"github.com/AntonStoeckl/bookshelf-store-go/recordstore/oteladapters"
	"github.com/AntonStoeckl/bookshelf-store-go/shelf"
)

const instrumentationName = "github.com/AntonStoeckl/bookshelf-store-go"

// application holds everything a command needs. It is built before every command runs.
type application struct {
	cfg         config.Config
	zapLogger   *zap.Logger
	logger      *logging.ZapLogger
	storage     *config.Storage
	providers   *config.ObservabilityProviders
	store       *recordstore.Store
	prefs       *preferences.Preferences
	renderer    *terminal.Renderer
	coordinator *shelf.Coordinator
}

// newRootCmd builds the command tree. The caller closes app after Execute, whatever the outcome.
func newRootCmd(app *application) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "Keep track of the books you want to read and the ones you have read",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd, configPath, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newSearchCmd(app),
		newMoveCmd(app),
		newDeleteCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newThemeCmd(app),
		newDebugCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}

func (a *application) open(cmd *cobra.Command, configPath string, verbose bool) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zapLogger, level, err := logging.NewZapLoggerWithLevel(cfg.LogLevel, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.zapLogger = zapLogger
	a.logger = logging.NewLogger(zapLogger)

	storage, err := config.OpenStorage(ctx, cfg, a.logger)
	if err != nil {
		return err
	}
	a.storage = storage

	prefs, err := preferences.New(storage, preferences.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.prefs = prefs

	if prefs.DebugEnabled(ctx) {
		level.SetLevel(zapcore.DebugLevel)
	}

	storeOptions := []recordstore.Option{
		recordstore.WithLogger(a.logger),
		recordstore.WithContextualLogger(a.logger),
	}

	if cfg.OTLPEndpoint != "" {
		providers, providerErr := config.NewObservabilityProviders(ctx, cfg, version)
		if providerErr != nil {
			return providerErr
		}
		a.providers = providers

		storeOptions = append(storeOptions,
			recordstore.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))),
			recordstore.WithTracing(oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))),
		)
	}

	store, err := recordstore.NewStore(storage, storeOptions...)
	if err != nil {
		return err
	}
	a.store = store

	a.renderer = terminal.NewRenderer(cmd.OutOrStdout(), prefs.Theme(ctx), false)

	coordinator, err := shelf.New(store, a.renderer,
		shelf.WithValidationGuard(),
		shelf.WithPreferences(prefs),
		shelf.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.coordinator = coordinator

	return nil
}

func (a *application) close() error {
	var err error

	if a.providers != nil {
		err = errors.Join(err, a.providers.Shutdown())
	}

	if a.storage != nil {
		err = errors.Join(err, a.storage.Close())
	}

	if a.zapLogger != nil {
		_ = a.zapLogger.Sync()
	}

	return err
}
