package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "natalis",
	Short: "Natalis - natal chart analysis service",
	Long: `Natalis computes natal chart reports: placements, aspects, patterns,
fixed-star conjunctions, dignities and a chart profile.

Available commands:
  serve    - Run the HTTP/WebSocket API and the Kafka chart worker
  analyze  - Analyze positions from a JSON file and print the report

Examples:
  natalis serve --config config/config.yaml
  natalis analyze --input positions.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "config/config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
