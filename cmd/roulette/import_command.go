package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"roulette/internal/config"
	"roulette/internal/daemon"
	"roulette/internal/importer"
	"roulette/internal/jobs"
	"roulette/internal/store"
)

// reportRecorder keeps the last report produced through the job runner so the
// CLI can print per-item outcomes.
type reportRecorder struct {
	inner  jobs.Importer
	report importer.Report
}

func (r *reportRecorder) Import(ctx context.Context, maxPages, maxNewRecords int) importer.Report {
	r.report = r.inner.Import(ctx, maxPages, maxNewRecords)
	return r.report
}

func (r *reportRecorder) Refresh(ctx context.Context, maxAgeDays, maxRecords int) importer.Report {
	r.report = r.inner.Refresh(ctx, maxAgeDays, maxRecords)
	return r.report
}

type jobFlags struct {
	fixture    string
	pages      int
	maxRecords int
	maxAgeDays int
	verbose    bool
}

// runJob executes one import or refresh in the foreground under the shared
// import lock and returns the detailed report.
func (c *commandContext) runJob(cmd *cobra.Command, kind jobs.Kind, flags jobFlags) (importer.Report, error) {
	var report importer.Report
	err := c.withStore(func(cfg *config.Config, st *store.Store) error {
		logger := c.logger(cfg)
		source, sourceName, err := daemon.SelectSource(cfg, flags.fixture, logger)
		if err != nil {
			return err
		}
		if !c.JSONMode() && sourceName != daemon.SourceTMDB {
			fmt.Fprintf(cmd.ErrOrStderr(), "Using %s catalog\n", sourceName)
		}

		limits := daemon.LimitsFromConfig(cfg)
		if flags.pages > 0 {
			limits.MaxPages = flags.pages
		}
		if flags.maxRecords > 0 {
			limits.MaxNewRecords = flags.maxRecords
			limits.MaxRecords = flags.maxRecords
		}
		if flags.maxAgeDays >= 0 {
			limits.MaxAgeDays = flags.maxAgeDays
		}

		recorder := &reportRecorder{inner: daemon.NewImporter(cfg, st, source, logger)}
		runner := jobs.New(cmd.Context(), recorder, cfg.ImportLockPath(), limits, logger)

		var runErr error
		if kind == jobs.KindRefresh {
			_, runErr = runner.RunRefresh(cmd.Context())
		} else {
			_, runErr = runner.RunImport(cmd.Context())
		}
		if errors.Is(runErr, jobs.ErrBusy) {
			return fmt.Errorf("another import or refresh is running against %s", cfg.Paths.DataDir)
		}
		if runErr != nil {
			return runErr
		}
		report = recorder.report
		return nil
	})
	return report, err
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	flags := jobFlags{maxAgeDays: -1}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import popular movies into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := ctx.runJob(cmd, jobs.KindImport, flags)
			if err != nil {
				return err
			}
			return printReport(cmd, ctx, report, flags.verbose)
		},
	}

	cmd.Flags().StringVar(&flags.fixture, "fixture", "", "Import from a YAML catalog instead of TMDB")
	cmd.Flags().IntVar(&flags.pages, "pages", 0, "Maximum pages to fetch (defaults to importer.max_pages)")
	cmd.Flags().IntVar(&flags.maxRecords, "max", 0, "Maximum new records (defaults to importer.max_new_records)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "List every item outcome")
	return cmd
}

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	flags := jobFlags{maxAgeDays: -1}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh ratings of records not updated recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := ctx.runJob(cmd, jobs.KindRefresh, flags)
			if err != nil {
				return err
			}
			return printReport(cmd, ctx, report, flags.verbose)
		},
	}

	cmd.Flags().StringVar(&flags.fixture, "fixture", "", "Refresh from a YAML catalog instead of TMDB")
	cmd.Flags().IntVar(&flags.maxAgeDays, "max-age-days", -1, "Refresh records older than this many days (defaults to refresh.max_age_days)")
	cmd.Flags().IntVar(&flags.maxRecords, "max", 0, "Maximum records to refresh (defaults to refresh.max_records)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "List every item outcome")
	return cmd
}

func printReport(cmd *cobra.Command, ctx *commandContext, report importer.Report, verbose bool) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, report)
	}
	out := cmd.OutOrStdout()

	pairs := [][2]string{
		{"Job", report.Kind},
		{"Duration", report.Duration().Round(time.Millisecond).String()},
	}
	if report.Kind == string(jobs.KindImport) {
		pairs = append(pairs,
			[2]string{"Pages fetched", strconv.Itoa(report.PagesFetched)},
			[2]string{"Page failures", strconv.Itoa(report.PageFailures)},
			[2]string{"Added", strconv.Itoa(report.Added)},
			[2]string{"Skipped (no poster)", strconv.Itoa(report.Count(importer.OutcomeSkippedNoPoster))},
			[2]string{"Skipped (duplicate)", strconv.Itoa(report.Count(importer.OutcomeSkippedDuplicate))},
		)
	} else {
		pairs = append(pairs, [2]string{"Updated", strconv.Itoa(report.Updated)})
	}
	pairs = append(pairs, [2]string{"Failed", strconv.Itoa(report.Count(importer.OutcomeFailed))})
	fmt.Fprintln(out, renderKeyValues(pairs))

	if !verbose || len(report.Items) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		rows = append(rows, []string{
			strconv.Itoa(item.Page),
			strconv.FormatInt(item.TMDBID, 10),
			item.Title,
			string(item.Outcome),
			item.Reason,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{right("Page"), right("TMDB ID"), left("Title"), left("Outcome"), left("Reason")},
		rows,
	))
	return nil
}
