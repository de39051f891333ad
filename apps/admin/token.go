package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	echoapi "github.com/bassiony1/public-ANEES/apps/api/echo"
	"github.com/bassiony1/public-ANEES/core/child"
)

// tokenCmd issues API tokens for local use; production tokens come from the identity provider.
func (cli *commandLine) tokenCmd() *cobra.Command {
	var id, username string
	var isStaff bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c child.Child
			if isStaff {
				c = child.Child{ID: id, Username: username}
			} else {
				var err error
				if c, err = cli.childSvc.Get(context.Background(), id); err != nil {
					return err
				}
			}

			token, err := echoapi.GenerateToken(echoapi.NewClaims(c, isStaff, cli.conf), cli.conf)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cli.out, token)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&id, "id", "", "the token's subject: a child's ID, or any staff identifier with --staff")
	flags.StringVar(&username, "username", "", "the staff member's username (with --staff)")
	flags.BoolVar(&isStaff, "staff", false, "issue a staff token")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
