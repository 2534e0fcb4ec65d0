package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/canopy"
	"github.com/spf13/cobra"
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a workflow document into a positioned graph",
	Long: `Reads a workflow document from a file (or stdin) and prints the compiled
graph as JSON. Documents that cannot produce any nodes yield the built-in
example graph, so the output is always a drawable graph.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := readDocument(args)
		if err != nil {
			fmt.Printf("Error reading document: %v\n", err)
			os.Exit(1)
		}

		graph := canopy.Compile(text)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(graph); err != nil {
			fmt.Printf("Error encoding graph: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
