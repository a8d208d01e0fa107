package main

import (
	"github.com/spf13/cobra"

	"github.com/mxchen-dev/paperproof/internal/record"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <metadata.json>...",
	Short: "Verify one or more metadata documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		var outcomes []record.Outcome
		for _, path := range args {
			ref, err := record.Load(path)
			if err != nil {
				a.logger.Error("verify.load_failed", "path", path, "error", err)
				outcomes = append(outcomes, record.Outcome{
					Reference: record.Reference{SourcePath: path},
					Errors:    []string{err.Error()},
				})
				continue
			}
			outcomes = append(outcomes, a.paper.Verify(cmd.Context(), ref))
		}

		return a.writeOutcomes(outcomes)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
