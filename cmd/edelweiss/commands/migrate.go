package commands

import (
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/edelweiss/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the resolution history migrations to PostgreSQL.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		db, err := database.Connect(cmd.Context(), a.databaseConfig(), a.logger)
		if err != nil {
			return err
		}
		defer db.Close()

		return migrateDatabase(a, db)
	},
}

func migrateDatabase(a *app, db *database.DatabaseInstance) error {
	migrations := database.NewMigrationService(a.logger, &database.MigrationConfig{
		MigrationFolderPath: a.cfg.DatabaseMigrationFolderPath,
		Version:             uint(max(a.cfg.DatabaseMigrationVersion, 0)),
		Force:               a.cfg.DatabaseMigrationForce,
		AutoRollback:        a.cfg.DatabaseMigrationAutoRollback,
	})
	return migrations.MigratePostgres(db.DB.DB, a.cfg.DatabaseName)
}
