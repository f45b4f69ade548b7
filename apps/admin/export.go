package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/progress"
)

func (cli *commandLine) exportCmd() *cobra.Command {
	var format, group, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the exercise results of the students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.export(cmd, format, group, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", progress.FormatJSON, "json or csv")
	cmd.Flags().StringVarP(&group, "group", "g", progress.AllGroups, "only export the students of this group")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func (cli *commandLine) export(cmd *cobra.Command, format, group, out string) error {
	ctx := cmd.Context()
	st, err := cli.openStorage(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog := content.Load(os.DirFS(cli.conf.Content.Dir), cli.logger)
	tracker := progress.NewService(st.Repo, catalog)

	var w io.Writer = cli.out
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "creating output file")
		}
		defer f.Close()
		w = f
	}
	return tracker.Export(ctx, progress.Filter{Group: group}, format, w)
}
