// Package config loads, normalizes, and validates atlasmeta configuration.
//
// It supplies defaults, reads TOML from --config, the user config directory
// or ./atlasmeta.toml, and honours environment fallbacks such as
// ANTHROPIC_API_KEY, optionally populated from a .env file by LoadDotEnv.
// Credentials are checked on demand through ValidateLLM so listing channels
// or editing config never requires an API key.
package config
