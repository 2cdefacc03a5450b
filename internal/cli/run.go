package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bytesize-app/bytesize/internal/config"
	"github.com/bytesize-app/bytesize/internal/logging"
	"github.com/bytesize-app/bytesize/internal/pipeline"
)

var haltMessages = map[string]string{
	"peaks":      "no loudness peaks detected in the audio track",
	"transcript": "transcription produced no segments",
	"fusion":     "no segment is both near a loudness peak and long enough",
	"rerank":     "ranking produced no usable segments",
	"render":     "no reels could be rendered",
}

func run(cmd *cobra.Command, input string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, absIn, cfg, log)
	if err != nil {
		return err
	}
	if res.Halted != "" {
		msg, ok := haltMessages[res.Halted]
		if !ok {
			msg = "pipeline stopped early"
		}
		fmt.Fprintf(os.Stdout, "No reels produced: %s.\n", msg)
		return nil
	}

	printSummary(res)
	return nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("out"); v != "" {
		cfg.Pipeline.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("reels"); v > 0 {
		cfg.Pipeline.Reels = v
	}
	if v, _ := cmd.Flags().GetInt("peaks"); v > 0 {
		cfg.Pipeline.TopKPeaks = v
	}
	if v, _ := cmd.Flags().GetFloat64("window"); v > 0 {
		cfg.Pipeline.PeakWindowSec = v
	}
	if v, _ := cmd.Flags().GetInt("min-words"); v > 0 {
		cfg.Pipeline.MinWords = v
	}
	if v, _ := cmd.Flags().GetBool("continue-on-error"); v {
		cfg.Render.ContinueOnError = true
	}
}

func printSummary(res pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Start", "End", "Duration", "Captioned reel"})
	for _, r := range res.Manifest.Reels {
		t.AppendRow(table.Row{
			r.ID,
			fmt.Sprintf("%.2fs", r.StartSec),
			fmt.Sprintf("%.2fs", r.EndSec),
			fmt.Sprintf("%.0fs", r.EndSec-r.StartSec),
			r.Captioned,
		})
	}
	t.Render()
	fmt.Fprintf(os.Stdout, "Manifest: %s\n", res.ManifestPath)
}
