package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"coderefine/internal/language"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Print the detected language of a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		src, err := readInput(path)
		if err != nil {
			return err
		}

		lang := language.Detect(src)
		if formatFlag == "json" {
			scores := language.Score(src)
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"language": lang,
				"python":   scores.Python,
				"c":        scores.C,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), lang)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
