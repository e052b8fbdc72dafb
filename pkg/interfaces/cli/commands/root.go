package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/application/services"
	"github.com/vsinha/cpq/pkg/infrastructure/config"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
	"github.com/vsinha/cpq/pkg/infrastructure/logging"
	"github.com/vsinha/cpq/pkg/infrastructure/repositories/sqlite"
)

// App holds the collaborators shared by every command. It is populated in
// the root command's PersistentPreRunE.
type App struct {
	configPath string

	Config  *config.Config
	Logger  *zap.Logger
	DB      *sql.DB
	Catalog *sqlite.CatalogRepository
	Quotes  *services.QuoteService
	Events  *events.InMemoryEventStore
}

// NewRootCommand builds the cpq command tree
func NewRootCommand(version string) *cobra.Command {
	app := &App{}

	root := &cobra.Command{
		Use:     "cpq",
		Short:   "Configure monitoring chassis and build quotes",
		Version: version,
		Long: `cpq places cards into monitoring chassis, assembles the resulting
part number and prices configurations onto customer quotes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	root.PersistentFlags().StringVar(&app.configPath, "config", "", "Path to config file (default ./"+config.DefaultConfigFile+")")

	root.AddCommand(catalogCmd(app))
	root.AddCommand(configureCmd(app))
	root.AddCommand(quoteCmd(app))
	return root
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

func (a *App) open() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.Config = cfg

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPath:  cfg.Logging.OutputPath,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	a.Logger = logger

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	a.DB = db
	a.Catalog = sqlite.NewCatalogRepository(db)
	a.Events = events.NewInMemoryEventStore(logger)
	a.Quotes = services.NewQuoteService(sqlite.NewQuoteRepository(db), a.Events, logger)

	logger.Debug("opened database", zap.String("path", cfg.Database.Path))
	return nil
}

func (a *App) close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
