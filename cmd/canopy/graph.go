package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/canopy"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the stored workflow as a graph",
	Long:  `Compiles the workflow document stored in the studio repository and outputs a Mermaid diagram (graph TD) or JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		repoPath, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			repoPath = args[0]
		}
		format, _ := cmd.Flags().GetString("format")

		studio, err := canopy.New(repoPath)
		if err != nil {
			fmt.Printf("Error initializing canopy: %v\n", err)
			os.Exit(1)
		}

		g, err := studio.Graph(cmd.Context())
		if err != nil {
			fmt.Printf("Error compiling graph: %v\n", err)
			os.Exit(1)
		}

		switch format {
		case "mermaid":
			fmt.Print(canopy.Mermaid(g))
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(g); err != nil {
				fmt.Printf("Error encoding graph: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Unknown format: %s. Supported: mermaid, json\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: 'mermaid' or 'json'")
}
