package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "bytesize <input>",
		Short:        "Generate short vertical reels from a long-form video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("config", "bytesize.toml", "Config file path")
	root.Flags().String("out", "", "Output directory (overrides config)")
	root.Flags().Int("reels", 0, "Number of reels (overrides config)")
	root.Flags().Bool("continue-on-error", false, "Keep rendering remaining reels after one fails")

	// Tuning flags, hidden: the config file is the supported surface.
	root.Flags().Int("peaks", 0, "Top-K loudness peaks")
	root.Flags().Float64("window", 0, "Peak fusion window seconds")
	root.Flags().Int("min-words", 0, "Minimum words per candidate segment")
	_ = root.Flags().MarkHidden("peaks")
	_ = root.Flags().MarkHidden("window")
	_ = root.Flags().MarkHidden("min-words")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
