package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeLLM()
	if err := c.normalizeYouTube(); err != nil {
		return err
	}
	c.Channel.Source = strings.ToLower(strings.TrimSpace(c.Channel.Source))
	if c.Channel.Source == "" {
		c.Channel.Source = ChannelSourceYTDLP
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("ANTHROPIC_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if value, ok := os.LookupEnv("ANTHROPIC_BASE_URL"); ok && c.LLM.BaseURL == defaultLLMBaseURL {
		if trimmed := strings.TrimRight(strings.TrimSpace(value), "/"); trimmed != "" {
			c.LLM.BaseURL = trimmed
		}
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.APIVersion = strings.TrimSpace(c.LLM.APIVersion)
	if c.LLM.APIVersion == "" {
		c.LLM.APIVersion = defaultLLMAPIVersion
	}
}

func (c *Config) normalizeYouTube() error {
	c.YouTube.Binary = strings.TrimSpace(c.YouTube.Binary)
	if c.YouTube.Binary == "" {
		c.YouTube.Binary = defaultYTDLPBinary
	}
	c.YouTube.SubtitleLanguage = strings.TrimSpace(c.YouTube.SubtitleLanguage)
	if c.YouTube.SubtitleLanguage == "" {
		c.YouTube.SubtitleLanguage = defaultSubtitleLanguage
	}
	if strings.TrimSpace(c.YouTube.CookiesPath) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.YouTube.CookiesPath))
		if err != nil {
			return fmt.Errorf("youtube.cookies_path: %w", err)
		}
		c.YouTube.CookiesPath = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Logging.File))
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
