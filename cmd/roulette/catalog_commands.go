package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"roulette/internal/config"
	"roulette/internal/selector"
	"roulette/internal/store"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List genres present in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				genres := selector.New(st, ctx.logger(cfg)).Genres(cmd.Context())
				if ctx.JSONMode() {
					return writeJSON(cmd, genres)
				}
				out := cmd.OutOrStdout()
				for _, g := range genres {
					fmt.Fprintln(out, genreLabel(g))
				}
				return nil
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show record count, average rating, and the newest records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := st.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, stats)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderKeyValues([][2]string{
					{"Store", st.Driver() + " " + st.Location()},
					{"Records", strconv.Itoa(stats.Total)},
					{"Average rating", formatRating(stats.AverageRating)},
				}))
				if len(stats.Recent) == 0 {
					return nil
				}
				recent, err := st.Recent(cmd.Context(), len(stats.Recent))
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(recent))
				for _, rec := range recent {
					rows = append(rows, []string{
						strconv.FormatInt(rec.ID, 10),
						rec.Title,
						formatRating(rec.Rating),
						formatAge(rec.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]column{right("ID"), left("Title"), right("Rating"), left("Added")},
					rows,
				))
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete all records without --force")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				removed, err := st.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]int64{"removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s)\n", removed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm deletion")
	return cmd
}
