package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core/child"
)

const dateLayout = "2006-01-02"

func (cli *commandLine) addChildCmd() *cobra.Command {
	var nc child.NewChild
	var dob string

	cmd := &cobra.Command{
		Use:   "addchild",
		Short: "Add a child; level 1 is opened for them if it exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dob != "" {
				t, err := time.Parse(dateLayout, dob)
				if err != nil {
					return errors.Wrap(err, "parsing date of birth")
				}
				nc.DateOfBirth = null.TimeFrom(t)
			}
			c, err := cli.childSvc.Create(context.Background(), nc)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cli.out, "child %s created with ID %s\n", c.Username, c.ID)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&nc.ID, "id", "", "the child's ID (a UUID), generated when empty")
	flags.StringVar(&nc.Username, "username", "", "the child's username")
	flags.StringVar(&nc.Email, "email", "", "the child's email")
	flags.StringVar(&nc.FirstName, "first-name", "", "the child's first name")
	flags.StringVar(&nc.LastName, "last-name", "", "the child's last name")
	flags.StringVar(&nc.Gender, "gender", "", "M or F")
	flags.StringVar(&dob, "dob", "", "the child's date of birth (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func (cli *commandLine) childrenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "children",
		Short: "List the children",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			children, err := cli.childSvc.QueryAll(context.Background())
			if err != nil {
				return err
			}
			return cli.printJSON(children)
		},
	}
}
