package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Credentials are checked
// separately by ValidateLLM so commands that never call the inference
// service work without them.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if c.Batch.PollIntervalSeconds <= 0 {
		return errors.New("batch.poll_interval_seconds must be positive")
	}
	if c.YouTube.CaptionTimeoutSeconds <= 0 {
		return errors.New("youtube.caption_timeout_seconds must be positive")
	}
	if err := c.validateChannel(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLLM() error {
	parsed, err := url.Parse(c.LLM.BaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("llm.base_url must be an http(s) URL, got %q", c.LLM.BaseURL)
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.max_tokens must be positive")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.RetryAttempts < 1 {
		return errors.New("llm.retry_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateChannel() error {
	if c.Channel.MinDurationSeconds < 0 {
		return errors.New("channel.min_duration_seconds must not be negative")
	}
	switch c.Channel.Source {
	case ChannelSourceYTDLP, ChannelSourceFeed:
		return nil
	default:
		return fmt.Errorf("channel.source must be %q or %q, got %q", ChannelSourceYTDLP, ChannelSourceFeed, c.Channel.Source)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// ValidateLLM reports whether the inference service can be called.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("llm.api_key is required. Set ANTHROPIC_API_KEY (environment or .env) or edit %s (create with 'atlasmeta config init')", defaultPath)
}
