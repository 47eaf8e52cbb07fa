package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"coderefine/internal/analyzer"
	"coderefine/internal/history"
	"coderefine/internal/models"
)

var (
	historyLimit int
	historyKind  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports",
	Args:  cobra.NoArgs,
	RunE: withHistory(func(cmd *cobra.Command, a *app, _ []string) error {
		recs, err := a.store.List(cmd.Context(), history.ListOptions{
			UserID: a.cfg.History.User,
			Kind:   history.Kind(historyKind),
			Limit:  historyLimit,
		})
		if err != nil {
			return err
		}
		if formatFlag == "json" {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reports yet.")
			return nil
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(cmd.OutOrStdout())
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"ID", "Type", "Score", "Saved", "Title"})
		for _, rec := range recs {
			score := "-"
			if rec.Score != nil {
				score = fmt.Sprint(*rec.Score)
			}
			tbl.AppendRow(table.Row{rec.ID, rec.Kind, score, humanize.Time(rec.CreatedAt), rec.Title})
		}
		tbl.AppendFooter(table.Row{"", "", "", "Total", len(recs)})
		tbl.Render()
		return nil
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, a *app, args []string) error {
		rec, err := a.store.Get(cmd.Context(), a.cfg.History.User, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if formatFlag == "json" {
			_, err := out.Write(append(rec.Report, '\n'))
			return err
		}

		fmt.Fprintf(out, "%s\n%s, saved %s\n\n", rec.Title, rec.Kind, humanize.Time(rec.CreatedAt))
		if rec.Kind == history.KindReview && len(rec.Report) > 0 {
			var res models.AnalysisResult
			if err := json.Unmarshal(rec.Report, &res); err == nil {
				res.ReportID = rec.ID
				fmt.Fprint(out, analyzer.NewReportGeneratorWithConfig(a.cfg).Generate([]*models.AnalysisResult{&res}))
				return nil
			}
		}
		fmt.Fprintln(out, rec.Output)
		return nil
	}),
}

var historyRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Change the title of a stored report",
	Args:  cobra.ExactArgs(2),
	RunE: withHistory(func(cmd *cobra.Command, a *app, args []string) error {
		return a.store.Rename(cmd.Context(), a.cfg.History.User, args[0], args[1])
	}),
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, a *app, args []string) error {
		return a.store.Delete(cmd.Context(), a.cfg.History.User, args[0])
	}),
}

// withHistory opens the history store around a subcommand.
func withHistory(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(appOptions{history: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", history.DefaultLimit, "Maximum number of reports")
	historyListCmd.Flags().StringVar(&historyKind, "type", "", "Only list reports of this type (review, comparison, ...)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyRenameCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}
