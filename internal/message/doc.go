// Package message assembles email drafts into the RFC 2822 wire form the
// Gmail API accepts.
//
// The HTML body and optional plain-text fallback are composed as
// multipart/alternative, wrapped in multipart/mixed when attachments are
// present. The serialized message is also base64url-encoded into the
// submission envelope, so callers hand the provider exactly one value.
package message
