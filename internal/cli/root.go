// Package cli implements inventoryctl, the operator tool for location
// tokens and tenant tables.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-pricing-service/config"
	colRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/column/repository"
	colUCPkg "github.com/fekuna/omnipos-pricing-service/internal/column/usecase"
	invRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-pricing-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pricing-service/internal/location"
	locRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/location/repository"
	locUCPkg "github.com/fekuna/omnipos-pricing-service/internal/location/usecase"
	optRepoPkg "github.com/fekuna/omnipos-pricing-service/internal/options/repository"
	optUCPkg "github.com/fekuna/omnipos-pricing-service/internal/options/usecase"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands. Defaults come from the
// service configuration so the tool sees the same salt and database.
type RootOptions struct {
	Verbose    bool
	Salt       string
	MinLength  int
	Driver     string
	SQLitePath string

	cfg *config.Config
}

// NewRootCommand creates the root command for inventoryctl.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "inventoryctl",
		Short: "Operate on location tokens and tenant tables",
		Long: `inventoryctl encodes and decodes location tokens and maintains the
per-location inventory tables of the pricing service database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Salt, "salt", cfg.HashID.Salt, "token salt")
	cmd.PersistentFlags().IntVar(&opts.MinLength, "min-length", cfg.HashID.MinLength, "minimum token length")
	cmd.PersistentFlags().StringVar(&opts.Driver, "db-driver", cfg.Database.Driver, "database driver (mysql|postgres|sqlite3)")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", cfg.Database.SQLitePath, "database file for the sqlite3 driver")

	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewRenameTableCommand(opts))
	cmd.AddCommand(NewMigrateTableNamesCommand(opts))
	cmd.AddCommand(NewDropCommand(opts))

	return cmd
}

func (o *RootOptions) codec() (*hashid.Codec, error) {
	return hashid.New(hashid.Config{Salt: o.Salt, MinLength: o.MinLength})
}

func (o *RootOptions) logger() logger.ZapLogger {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     true,
		Encoding:          "console",
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
	})
}

// locations opens the configured database and assembles the location use
// case. The returned func closes the pool.
func (o *RootOptions) locations(ctx context.Context) (location.UseCase, func() error, error) {
	db, err := o.open()
	if err != nil {
		return nil, nil, err
	}

	log := o.logger()
	codec, err := o.codec()
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	locRepo := locRepoPkg.NewSQLRepository(db)
	colRepo := colRepoPkg.NewSQLRepository(db)
	optRepo := optRepoPkg.NewSQLRepository(db)
	invRepo := invRepoPkg.NewSQLRepository(db)

	for _, initialize := range []func(context.Context) error{locRepo.Initialize, colRepo.Initialize, optRepo.Initialize} {
		if err := initialize(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	colUC := colUCPkg.NewColumnUseCase(colRepo, invRepo, nil, 0, log)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, colUC, log)
	optUC := optUCPkg.NewOptionsUseCase(optRepo, log)

	return locUCPkg.NewLocationUseCase(locRepo, colUC, optUC, invUC, codec, log), db.Close, nil
}

func (o *RootOptions) open() (*sqlx.DB, error) {
	d := o.cfg.Database
	db, err := database.NewDB(&database.Config{
		Driver:          o.Driver,
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		DBName:          d.DBName,
		SSLMode:         d.SSLMode,
		SQLitePath:      o.SQLitePath,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Duration(d.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(d.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", o.Driver, err)
	}
	return db, nil
}
