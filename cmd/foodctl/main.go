// Command foodctl manages the food-server database: schema creation and
// restaurant seeding.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"food-server/internal/config"
	"food-server/internal/repository/sqlite"
	"food-server/internal/seed"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newRootCmd(logger *logrus.Logger) *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "foodctl",
		Short:         "Administer the food-server database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath != "" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dbPath = cfg.Database.Path
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite database path (defaults to FOOD_DATABASE_PATH)")

	openStore := func(ctx context.Context) (*sqlite.Store, func(), error) {
		db, err := sqlite.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		store := sqlite.NewStore(db)
		if err := store.Init(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, closeDB, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			logger.Infof("schema ready at %s", dbPath)
			return nil
		},
	})

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load restaurants and menus from a yaml/json/toml file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := seed.Load(seedFile)
			if err != nil {
				return err
			}
			store, closeDB, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			res, err := seed.Apply(cmd.Context(), store.Restaurants, store.Menus, file)
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"restaurants": res.Restaurants,
				"menu_items":  res.MenuItems,
			}).Info("seed applied")
			return nil
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "seed file path")
	_ = seedCmd.MarkFlagRequired("file")
	root.AddCommand(seedCmd)

	return root
}
