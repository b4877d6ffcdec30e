// Package draft generates candidate HTML email drafts from a natural
// language intent using an OpenRouter-compatible chat-completion service.
//
// The pipeline is built to never return fewer than three candidates:
// model output is parsed defensively (JSON array first, brace-delimited
// object extraction second), each recovered object is normalized with
// per-field fallbacks, every body passes through an HTML sanitizer, and
// missing candidates are padded with placeholders built from the original
// intent. Only a failed service call or a response with no recoverable
// objects fails the invocation.
package draft
