package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"atlasmeta/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var skipLLM bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, files and the inference service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			settings := [][]string{
				{"Model", cfg.LLM.Model},
				{"Base URL", cfg.LLM.BaseURL},
				{"API key set", yesNo(cfg.LLM.APIKey != "")},
				{"yt-dlp binary", cfg.YouTube.Binary},
				{"Transcripts", yesNo(cfg.YouTube.IncludeTranscript)},
				{"Channel source", cfg.Channel.Source},
				{"Batch poll interval", cfg.PollInterval().String()},
			}
			for _, line := range renderSectionHeader("Settings", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settings, nil))
			fmt.Fprintln(out)

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{
				OutputPath: strings.TrimSpace(outputPath),
				SkipLLM:    skipLLM,
			})
			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range checkLines(results, colorize) {
				fmt.Fprintln(out, line)
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, result := range failed {
					names = append(names, result.Name)
				}
				return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(names, ", "))
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Also check that this output file can be written")
	cmd.Flags().BoolVar(&skipLLM, "skip-llm", false, "Skip the inference service round trip")
	return cmd
}
