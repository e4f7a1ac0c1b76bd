package cmd

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/drillbot/internal/config"
	"github.com/example/drillbot/internal/database"
	"github.com/example/drillbot/internal/universe"
)

var (
	envFile   string
	learnerID int64
)

var rootCmd = &cobra.Command{
	Use:   "drillbot",
	Short: "A spaced repetition drill for Chinese characters, arithmetic and English words",
	Long: `Drillbot shows one question at a time and schedules each item again on an
Ebbinghaus interval ladder. Run it as a Telegram bot or practice in the terminal.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "optional file with environment variables")
}

// addLearnerFlag registers --learner on commands that work on one learner's records
func addLearnerFlag(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "learner ID (Telegram chat ID, 0 for the terminal)")
}

// app bundles the configuration and storage every command needs
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	records  *database.RecordRepository
	items    *database.ItemRepository
	learners *database.LearnerRepository
	domains  *universe.Registry
}

func openApp() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.DatabaseConfig())
	if err != nil {
		return nil, err
	}
	items := database.NewItemRepository(db)
	return &app{
		cfg:      cfg,
		db:       db,
		records:  database.NewRecordRepository(db),
		items:    items,
		learners: database.NewLearnerRepository(db),
		domains:  universe.DefaultRegistry(items),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// domainArg validates a domain key given on the command line
func domainArg(a *app, key string) (universe.Domain, error) {
	d, err := a.domains.Get(key)
	if err != nil {
		return universe.Domain{}, errors.Wrapf(err, "choose one of %v", a.domains.Keys())
	}
	return d, nil
}
