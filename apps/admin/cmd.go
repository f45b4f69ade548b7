package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/storage"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer

	// openDB and openStorage connect lazily: most commands only need one of them
	openDB      func(ctx context.Context) (*sql.DB, error)
	openStorage func(ctx context.Context) (storage.Storage, error)
}

func (cli *commandLine) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Administration of the IELTS reading platform",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(cli.out)

	root.AddCommand(cli.migrateCmd())
	root.AddCommand(cli.hashPasswordCmd())
	root.AddCommand(cli.exportCmd())
	return root
}

// run executes the command line; args[0] is the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.command()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpassword",
		Short: "Hash the teacher password, to be set as TEACHER_PASSWORDHASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Print("Enter password:")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			cmd.Println()
			if err != nil {
				return err
			}
			if len(pwd) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.hashPassword(string(pwd))
		},
	}
}
