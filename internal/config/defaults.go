package config

const (
	defaultConfigPath            = "~/.config/atlasmeta/config.toml"
	projectConfigName            = "atlasmeta.toml"
	defaultLLMBaseURL            = "https://api.anthropic.com"
	defaultLLMModel              = "claude-haiku-4-5-20251001"
	defaultLLMAPIVersion         = "2023-06-01"
	defaultLLMMaxTokens          = 4096
	defaultLLMTimeoutSeconds     = 120
	defaultLLMRetryAttempts      = 5
	defaultBatchPollSeconds      = 60
	defaultYTDLPBinary           = "yt-dlp"
	defaultSubtitleLanguage      = "en"
	defaultCaptionTimeoutSeconds = 15
	defaultMinDurationSeconds    = 61
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// ChannelSourceYTDLP lists channels through yt-dlp.
	ChannelSourceYTDLP = "ytdlp"
	// ChannelSourceFeed lists channels through the public RSS feed.
	ChannelSourceFeed = "feed"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			APIVersion:     defaultLLMAPIVersion,
			MaxTokens:      defaultLLMMaxTokens,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Batch: Batch{
			PollIntervalSeconds: defaultBatchPollSeconds,
		},
		YouTube: YouTube{
			Binary:                defaultYTDLPBinary,
			SubtitleLanguage:      defaultSubtitleLanguage,
			CaptionTimeoutSeconds: defaultCaptionTimeoutSeconds,
			IncludeTranscript:     true,
		},
		Channel: Channel{
			MinDurationSeconds: defaultMinDurationSeconds,
			Source:             ChannelSourceYTDLP,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
