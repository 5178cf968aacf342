// Package llm provides the inference-service client used for metadata
// extraction: the Anthropic Messages API for single requests and the Message
// Batches API for job submission.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a Prompt, receive the response text.
// Client.CreateBatch / RetrieveBatch / BatchResults: submit a job, poll its
// status, and stream the per-request outcomes once it has ended.
// Client.HealthCheck: verify API key and model availability.
//
// A Prompt may carry a separate instruction block. It is sent as the system
// prompt and, when CacheInstructions is set, marked with an ephemeral cache
// control so identical instructions across a batch are billed once.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx (including 529 overloaded),
// network timeouts and empty responses with exponential backoff (base 1s,
// max 10s, up to 5 attempts by default). Retry-After is honoured. Context
// cancellation aborts retries immediately.
package llm
