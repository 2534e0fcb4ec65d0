package main

import (
	"fmt"
	"os"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a workflow document for consistency",
	Long: `Reads a workflow document from a file (or stdin) and reports errors and
warnings: dangling transition targets, unreachable states, dead ends.
Exits non-zero when the document is invalid.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")

		text, err := readDocument(args)
		if err != nil {
			fmt.Printf("Error reading document: %v\n", err)
			os.Exit(1)
		}

		res := canopy.Validate(text)

		if quiet {
			fmt.Println(tui.StatusLine(res))
		} else {
			render := tui.NewRenderer()
			out, rerr := render(tui.ValidationReport(res))
			if rerr != nil {
				// Fall back to raw markdown when the terminal renderer fails.
				out = tui.ValidationReport(res)
			}
			fmt.Print(out)
		}

		if !res.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolP("quiet", "q", false, "Print a one-line verdict instead of the full report")
}
