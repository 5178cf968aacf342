package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"atlasmeta/internal/fileutil"
	"atlasmeta/internal/logging"
	"atlasmeta/internal/youtube"
)

const previewRows = 10

func newListChannelCommand(ctx *commandContext) *cobra.Command {
	var (
		opts        youtube.ListOptions
		outputPath  string
		source      string
		minDuration int
		showPreview bool
	)

	cmd := &cobra.Command{
		Use:   "list-channel <channel>",
		Short: "List video URLs from a YouTube channel",
		Long: "List video URLs from a channel URL, @handle or UC channel id.\n\n" +
			"The output is one URL per line with # comment headers, ready for\n" +
			"extract --file.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			opts.MinDuration = minDuration
			return opts.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-duration") {
				opts.MinDuration = cfg.Channel.MinDurationSeconds
			}
			if !cmd.Flags().Changed("source") {
				source = cfg.Channel.Source
			}

			channelURL, err := youtube.NormalizeChannelURL(args[0])
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()
			lister, err := ctx.factory.lister(cfg, source, logger)
			if err != nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			fmt.Fprintf(stderr, "Fetching videos from: %s\n", channelURL)
			videos, err := lister.ListChannel(cmd.Context(), channelURL, opts)
			if err != nil {
				return err
			}
			logger.Info("channel listed",
				logging.String("channel_url", channelURL),
				logging.String("source", source),
				logging.Int("video_count", len(videos)),
			)
			if len(videos) == 0 {
				fmt.Fprintln(stderr, "No videos found matching the criteria.")
				return nil
			}

			listing := youtube.FormatURLList(videos, args[0], time.Now())
			if outputPath != "" {
				if err := fileutil.WriteFileAtomic(outputPath, []byte(listing), 0o644); err != nil {
					return fmt.Errorf("write url list: %w", err)
				}
				fmt.Fprintf(stderr, "Wrote %d URLs to %s\n", len(videos), outputPath)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), listing)
			}
			if showPreview {
				fmt.Fprintln(stderr, renderChannelPreview(videos))
			}
			fmt.Fprintf(stderr, "Found %d videos.\n", len(videos))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.MaxResults, "max-results", "n", 0, "Maximum number of videos to return (0 = no limit)")
	cmd.Flags().StringVar(&opts.After, "after", "", "Only include videos published on/after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Before, "before", "", "Only include videos published on/before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&minDuration, "min-duration", youtube.DefaultMinDuration, "Minimum video duration in seconds (filters Shorts)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&source, "source", "", "Listing source: ytdlp or feed (default: channel.source)")
	cmd.Flags().BoolVar(&showPreview, "preview", false, "Print a table of the listed videos to stderr")
	return cmd
}

func renderChannelPreview(videos []youtube.ChannelVideo) string {
	limit := min(len(videos), previewRows)
	rows := make([][]string, 0, limit+1)
	for i, video := range videos[:limit] {
		duration := "-"
		if video.DurationSeconds > 0 {
			duration = (time.Duration(video.DurationSeconds) * time.Second).String()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			displayUploadDate(video.UploadDate),
			duration,
			truncateCell(video.Title, 60),
		})
	}
	if extra := len(videos) - limit; extra > 0 {
		rows = append(rows, []string{"", "", "", fmt.Sprintf("+ %d more", extra)})
	}
	return renderTable(
		[]string{"#", "Published", "Duration", "Title"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}

// displayUploadDate renders yt-dlp's YYYYMMDD as YYYY-MM-DD.
func displayUploadDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		if value == "" {
			return "-"
		}
		return value
	}
	return value[:4] + "-" + value[4:6] + "-" + value[6:]
}
