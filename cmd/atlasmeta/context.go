package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"atlasmeta/internal/config"
	"atlasmeta/internal/logging"
	"atlasmeta/internal/pipeline"
	"atlasmeta/internal/services/llm"
	"atlasmeta/internal/youtube"
)

// serviceFactory builds the collaborators a command talks to. Tests replace
// it to avoid yt-dlp and network access.
type serviceFactory struct {
	source  func(cfg *config.Config, logger *slog.Logger) pipeline.Source
	service func(cfg *config.Config) pipeline.Service
	lister  func(cfg *config.Config, source string, logger *slog.Logger) (youtube.Lister, error)

	runnerOptions []pipeline.Option
}

func defaultServiceFactory() serviceFactory {
	return serviceFactory{
		source:  newVideoSource,
		service: newInferenceService,
		lister:  newChannelLister,
	}
}

type commandContext struct {
	configFlag    string
	logLevelFlag  string
	logFormatFlag string

	factory serviceFactory
	runID   string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *slog.Logger
}

func newCommandContext() *commandContext {
	return &commandContext{
		factory: defaultServiceFactory(),
		runID:   uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := config.LoadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// attachLogger builds the run logger on the command's stderr and tags the
// command context with the run id.
func (c *commandContext) attachLogger(cmd *cobra.Command) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger
	cmd.SetContext(logging.WithRunID(cmd.Context(), c.runID))
	logger.Debug("command started", logging.String("command", cmd.CommandPath()))
	return nil
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func newVideoSource(cfg *config.Config, logger *slog.Logger) pipeline.Source {
	return newYouTubeClient(cfg, logger)
}

func newYouTubeClient(cfg *config.Config, logger *slog.Logger) *youtube.Client {
	return youtube.NewClient(youtube.Config{
		Binary:           cfg.YouTube.Binary,
		SubtitleLanguage: cfg.YouTube.SubtitleLanguage,
		CaptionTimeout:   cfg.CaptionTimeout(),
		CookiesPath:      cfg.YouTube.CookiesPath,
	}, youtube.WithLogger(logger))
}

func newInferenceService(cfg *config.Config) pipeline.Service {
	return llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		APIVersion:     cfg.LLM.APIVersion,
		MaxTokens:      cfg.LLM.MaxTokens,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(cfg.LLM.RetryAttempts))
}

func newChannelLister(cfg *config.Config, source string, logger *slog.Logger) (youtube.Lister, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case config.ChannelSourceYTDLP:
		return newYouTubeClient(cfg, logger), nil
	case config.ChannelSourceFeed:
		return youtube.NewFeedLister(youtube.WithFeedLogger(logger)), nil
	default:
		return nil, fmt.Errorf("--source must be %q or %q, got %q", config.ChannelSourceYTDLP, config.ChannelSourceFeed, source)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
