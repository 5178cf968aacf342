package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"atlasmeta/internal/logging"
	"atlasmeta/internal/output"
	"atlasmeta/internal/pipeline"
	"atlasmeta/internal/preflight"
)

type extractOptions struct {
	file         string
	output       string
	model        string
	appendMode   bool
	batch        bool
	noTranscript bool
}

func (o *extractOptions) validate(args []string) error {
	switch {
	case len(args) > 1:
		return errors.New("provide a single URL argument")
	case len(args) == 0 && strings.TrimSpace(o.file) == "":
		return errors.New("provide either a URL argument or --file with a file of URLs")
	case len(args) == 1 && strings.TrimSpace(o.file) != "":
		return errors.New("provide either a URL argument or --file, not both")
	case o.appendMode && strings.TrimSpace(o.output) == "":
		return errors.New("--append requires --output")
	case o.batch && strings.TrimSpace(o.file) == "":
		return errors.New("--batch requires --file")
	}
	return nil
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract structured metadata from YouTube videos",
		Long: "Extract structured metadata from one YouTube URL or a file of URLs.\n\n" +
			"Results are written as a JSON array to --output, or to stdout when no\n" +
			"output file is given. With --batch the URLs are submitted as a single\n" +
			"message batch, which is slower but cheaper.",
		Args: func(cmd *cobra.Command, args []string) error {
			return opts.validate(args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Text file with one YouTube URL per line")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file for JSON results (default: stdout)")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model to use (default: llm.model)")
	cmd.Flags().BoolVarP(&opts.appendMode, "append", "a", false, "Append to the existing output file instead of overwriting")
	cmd.Flags().BoolVarP(&opts.batch, "batch", "b", false, "Submit all URLs as one message batch (requires --file)")
	cmd.Flags().BoolVar(&opts.noTranscript, "no-transcript", false, "Skip transcript fetch (faster, less accurate)")
	return cmd
}

func runExtract(cmd *cobra.Command, ctx *commandContext, opts *extractOptions, args []string) error {
	urls, err := collectURLs(opts.file, args)
	if err != nil {
		return err
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if model := strings.TrimSpace(opts.model); model != "" {
		cfg.LLM.Model = model
	}
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	if opts.output != "" {
		if check := preflight.CheckOutputPath("Output file", opts.output); !check.Passed {
			return fmt.Errorf("output: %s", check.Detail)
		}
	}
	if opts.appendMode {
		// Reject a malformed destination before spending any API calls on it.
		if _, err := output.Load(opts.output); err != nil {
			return err
		}
	}

	logger := ctx.loggerValue()
	runnerOpts := append([]pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithTranscripts(cfg.YouTube.IncludeTranscript && !opts.noTranscript),
		pipeline.WithPollInterval(cfg.PollInterval()),
	}, ctx.factory.runnerOptions...)
	runner := pipeline.NewRunner(ctx.factory.source(cfg, logger), ctx.factory.service(cfg), runnerOpts...)

	logger.Info("extraction started",
		logging.Int("url_count", len(urls)),
		logging.String("mode", extractMode(opts.batch)),
		logging.String("model", cfg.LLM.Model),
	)

	var outcome pipeline.Outcome
	if opts.batch {
		outcome, err = runner.RunBatch(cmd.Context(), urls)
	} else {
		outcome, err = runner.RunSequential(cmd.Context(), urls)
	}
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if opts.output != "" {
		result, err := output.Write(cmd.Context(), opts.output, outcome.Records, opts.appendMode)
		if err != nil {
			return err
		}
		if opts.appendMode {
			fmt.Fprintf(stderr, "Loaded %d existing entries from %s.\n", result.Existing, opts.output)
		}
		fmt.Fprintf(stderr, "Wrote %d entries to %s.\n", result.Total(), opts.output)
	} else if err := output.Encode(cmd.OutOrStdout(), outcome.Records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}

	writeExtractSummary(stderr, outcome)

	if code := pipeline.ExitCode(len(outcome.Records), len(outcome.Errors)); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// collectURLs returns the URL argument or the non-comment lines of file.
func collectURLs(file string, args []string) ([]string, error) {
	var urls []string
	if len(args) == 1 {
		if url := strings.TrimSpace(args[0]); url != "" {
			urls = append(urls, url)
		}
	} else {
		f, err := os.Open(file)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("file not found: %s", file)
			}
			return nil, fmt.Errorf("open url file: %w", err)
		}
		defer f.Close()
		urls, err = readURLList(f)
		if err != nil {
			return nil, fmt.Errorf("read url file %s: %w", file, err)
		}
	}
	if len(urls) == 0 {
		return nil, errors.New("no URLs to process")
	}
	return urls, nil
}

func readURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func writeExtractSummary(w io.Writer, outcome pipeline.Outcome) {
	if len(outcome.Errors) == 0 {
		fmt.Fprintf(w, "Successfully processed %d URL(s).\n", len(outcome.Records))
		return
	}

	rows := make([][]string, 0, len(outcome.Errors))
	for i, itemErr := range outcome.Errors {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(itemErr.Kind),
			itemErr.URL,
			truncateCell(itemErr.Error(), 96),
		})
	}
	fmt.Fprintf(w, "Completed with %d error(s) and %d new record(s):\n", len(outcome.Errors), len(outcome.Records))
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Kind", "URL", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
}

func extractMode(batch bool) string {
	if batch {
		return "batch"
	}
	return "sequential"
}

func truncateCell(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}
