package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roulette/internal/config"
	"roulette/internal/movies"
	"roulette/internal/selector"
	"roulette/internal/services"
	"roulette/internal/store"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	var filter movies.Filter

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a random movie matching optional filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				sel := selector.New(st, ctx.logger(cfg), selector.WithNoMatchPolicy(cfg.Selector.NoMatch))
				result, err := sel.Pick(cmd.Context(), filter)
				if errors.Is(err, services.ErrNoMatch) {
					return errors.New("no movies match the given filters")
				}
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, result)
				}
				printMovie(cmd, result)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&filter.Genres, "genre", "g", nil, "Genre to match (repeatable; any may match)")
	cmd.Flags().IntVar(&filter.YearFrom, "year-from", 0, "Earliest release year")
	cmd.Flags().IntVar(&filter.YearTo, "year-to", 0, "Latest release year")
	cmd.Flags().Float64Var(&filter.RatingMin, "rating-min", 0, "Minimum rating (0-10)")
	return cmd
}

func printMovie(cmd *cobra.Command, result selector.Result) {
	out := cmd.OutOrStdout()
	rec := result.Record

	title := rec.Title
	if rec.Year > 0 {
		title += " (" + strconv.Itoa(rec.Year) + ")"
	}
	fmt.Fprintln(out, bold(out, title))
	if result.Fallback {
		fmt.Fprintln(out, "No movie matched the filters; picked from the whole catalog.")
	}

	pairs := [][2]string{
		{"Rating", formatRating(rec.Rating)},
		{"Genres", genreLabels(rec.Genres)},
		{"Runtime", formatRuntime(rec.Runtime)},
	}
	if rec.Director != "" {
		pairs = append(pairs, [2]string{"Director", rec.Director})
	}
	if len(rec.Cast) > 0 {
		pairs = append(pairs, [2]string{"Cast", strings.Join(rec.Cast, ", ")})
	}
	if rec.Country != "" {
		pairs = append(pairs, [2]string{"Country", rec.Country})
	}
	if rec.PosterURL != "" {
		pairs = append(pairs, [2]string{"Poster", rec.PosterURL})
	}
	fmt.Fprintln(out, renderKeyValues(pairs))
	if rec.Overview != "" {
		fmt.Fprintln(out, rec.Overview)
	}
}
