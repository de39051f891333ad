package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db          *sqlx.DB
	conf        *core.Config
	levelSvc    *level.Service
	progressSvc *progress.Service
	childSvc    *child.Service
	out         io.Writer
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Anees administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	root.SetOut(cli.out)
	root.SetErr(cli.out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.addLevelCmd(),
		cli.setGamesCmd(),
		cli.levelsCmd(),
		cli.addChildCmd(),
		cli.childrenCmd(),
		cli.tokenCmd(),
	)
	return root
}

// run executes the command line args, program name included.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cli.out, string(data))
	return err
}
