package preflight

import (
	"context"
	"fmt"

	"atlasmeta/internal/config"
	"atlasmeta/internal/services/llm"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// Options selects the optional checks RunAll performs.
type Options struct {
	// OutputPath is checked for writability when set.
	OutputPath string
	// SkipLLM leaves out the inference service round trip.
	SkipLLM bool
	// LLMOptions are passed to the health-check client.
	LLMOptions []llm.Option
}

// RunAll executes every applicable preflight check for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Path
			if status.Version != "" {
				result.Detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
			}
		}
		results = append(results, result)
	}

	if cfg.YouTube.CookiesPath != "" {
		results = append(results, CheckFileReadable("Cookies file", cfg.YouTube.CookiesPath))
	}
	if opts.OutputPath != "" {
		results = append(results, CheckOutputPath("Output file", opts.OutputPath))
	}
	if !opts.SkipLLM {
		results = append(results, CheckLLM(ctx, "Inference service", cfg.LLM, opts.LLMOptions...))
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}
