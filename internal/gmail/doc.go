// Package gmail delivers assembled messages through the Gmail API.
//
// The client supports two delivery paths, immediate send and draft
// creation, plus post-send label mutation. Label mutation after a send is
// best-effort: the message cannot be unsent, so a label failure is logged
// and swallowed rather than failing the delivery.
package gmail
