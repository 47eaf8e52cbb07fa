package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"coderefine/internal/analyzer"
	"coderefine/internal/compare"
)

var compareCmd = &cobra.Command{
	Use:   "compare <left> <right>",
	Short: "Analyze two files and show their diff, scores and complexity",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language: python, c or auto")
	compareCmd.Flags().BoolVar(&saveFlag, "save", false, "Save the comparison to history")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{history: saveFlag})
	if err != nil {
		return err
	}
	defer a.Close()

	left, err := readInput(args[0])
	if err != nil {
		return err
	}
	right, err := readInput(args[1])
	if err != nil {
		return err
	}

	var opts []compare.Option
	if a.store != nil {
		opts = append(opts, compare.WithHistory(a.store, a.cfg.History.User))
	}
	res, err := compare.New(a.analyzer(), opts...).Compare(cmd.Context(),
		analyzer.Request{Source: left, Language: languageFlag, Filename: args[0]},
		analyzer.Request{Source: right, Language: languageFlag, Filename: args[1]},
	)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printComparison(out, args[0], args[1], res)
	return nil
}

func printComparison(out io.Writer, leftName, rightName string, res *compare.Result) {
	color.New(color.FgCyan).Fprintf(out, "--- %s\n+++ %s\n", leftName, rightName)
	for _, line := range res.Diff {
		switch line.Op {
		case compare.OpInsert:
			color.New(color.FgGreen).Fprintf(out, "+ %s\n", line.Text)
		case compare.OpDelete:
			color.New(color.FgRed).Fprintf(out, "- %s\n", line.Text)
		default:
			fmt.Fprintf(out, "  %s\n", line.Text)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Score:  %d -> %d (%+d)\n", res.Left.Score.Value, res.Right.Score.Value, res.ScoreDelta)
	fmt.Fprintf(out, "Time:   %s -> %s\n", res.Left.EstimatedTimeComplexity, res.Right.EstimatedTimeComplexity)
	fmt.Fprintf(out, "Space:  %s -> %s\n", res.Left.EstimatedSpaceComplexity, res.Right.EstimatedSpaceComplexity)
	fmt.Fprintln(out, res.Summary)
	if res.ReportID != "" {
		fmt.Fprintf(out, "Saved as %s\n", res.ReportID)
	}
}
