// Package prompt composes the extraction request text sent to the inference
// service.
//
// Two shapes share the same instructional substance. Single produces one
// self-contained message: role, per-video data, task list, classification
// rules and the seven-step reasoning protocol. For batch jobs the rules live
// in Instructions, a block with no per-video data that is sent as a cacheable
// system prompt, while Item renders only the video data and a short directive.
//
// Every composed message is held to MaxMessageLength characters by Truncate.
package prompt
