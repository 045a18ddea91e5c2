package cmd

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		db, err := openDB(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("schema is up to date")
		return nil
	},
}
