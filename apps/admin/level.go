package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bassiony1/public-ANEES/core/level"
)

// readGames reads a JSON document of the form {"receptive": {...}, "expressive": {...}, "social": {...}}.
func readGames(path string) (level.Games, error) {
	var games level.Games
	if path == "" {
		return games, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return games, errors.Wrap(err, "reading games file")
	}
	if err = json.Unmarshal(data, &games); err != nil {
		return games, errors.Wrap(err, "decoding games file")
	}
	return games, nil
}

func (cli *commandLine) addLevelCmd() *cobra.Command {
	var num int
	var file string

	cmd := &cobra.Command{
		Use:   "addlevel",
		Short: "Add a level and open it for the children entitled to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := readGames(file)
			if err != nil {
				return err
			}
			lvl, backfilled, err := cli.progressSvc.AddLevel(context.Background(), level.NewLevel{Num: num, Games: games})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cli.out, "level %d created, opened for %d children\n", lvl.Num, backfilled)
			return err
		},
	}
	cmd.Flags().IntVar(&num, "num", 0, "the level number")
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON file holding the level's games")
	_ = cmd.MarkFlagRequired("num")
	return cmd
}

func (cli *commandLine) setGamesCmd() *cobra.Command {
	var num int
	var file string

	cmd := &cobra.Command{
		Use:   "setgames",
		Short: "Replace the games of a level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := readGames(file)
			if err != nil {
				return err
			}
			lvl, err := cli.levelSvc.SetGames(context.Background(), num, level.UpdateGames{Games: games})
			if err != nil {
				return err
			}
			return cli.printJSON(lvl)
		},
	}
	cmd.Flags().IntVar(&num, "num", 0, "the level number")
	cmd.Flags().StringVar(&file, "file", "", "path to a JSON file holding the level's games")
	_ = cmd.MarkFlagRequired("num")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (cli *commandLine) levelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, err := cli.levelSvc.QueryAll(context.Background())
			if err != nil {
				return err
			}
			return cli.printJSON(levels)
		},
	}
}
