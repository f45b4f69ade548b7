package main

import (
	"github.com/spf13/cobra"

	"github.com/trezcool/ielts/storage/database"
)

var runMigrationsFunc = database.RunMigrations // mockable

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS]",
		Short: "Run the goose migrations of the postgres storage",
		Long: "Run the goose migrations of the postgres storage.\n" +
			"Commands: up, up-by-one, up-to VERSION, down, down-to VERSION, redo, reset, status, version, fix.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.migrate(cmd, args)
		},
	}
}

func (cli *commandLine) migrate(cmd *cobra.Command, args []string) error {
	db, err := cli.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	return runMigrationsFunc(db, args[0], args[1:]...)
}
