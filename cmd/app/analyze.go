package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"Natalis/internal/di"
	"Natalis/internal/domain/models"
	internalrepo "Natalis/internal/repository"
	"Natalis/internal/usecase"
	"Natalis/pkg/config"
	xhttp "Natalis/pkg/http"
	applogger "Natalis/pkg/logger"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze caller-supplied positions and print the report as JSON",
	Long: `Reads an analyze request (bodies, houses and optional stage toggles) from
--input, or from stdin when --input is "-", runs the chart engine and prints
the report. No ephemeris provider is contacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg := config.Default()
		if _, err := os.Stat(path); err == nil {
			if cfg, err = config.LoadWithEnv(path); err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
		}

		input, _ := cmd.Flags().GetString("input")
		pretty, _ := cmd.Flags().GetBool("pretty")
		return runAnalyze(cmd, cfg, input, pretty)
	},
}

func init() {
	analyzeCmd.Flags().StringP("input", "i", "-", `request file, "-" for stdin`)
	analyzeCmd.Flags().Bool("pretty", true, "indent the JSON output")
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config, input string, pretty bool) error {
	var r io.Reader = cmd.InOrStdin()
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	ctx := usecase.WithCall(cmd.Context(), usecase.Call{Source: models.SourceCLI})
	if err := xhttp.ValidateStruct(ctx, &req); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	log, err := applogger.New(&applogger.Config{Level: cfg.Logger.Level, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	charts := usecase.NewChartService(nil, di.ProvideEngine(cfg), internalrepo.NoopChartPublisher{}, nil, log, cfg.Analysis.FixedStarOrb)

	resp, err := charts.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}
