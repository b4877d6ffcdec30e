// Package cmd implements the command-line interface for mailsmith.
//
// This package provides the following commands:
//   - compose: Generate three AI-written drafts and deliver the chosen one
//   - labels: List Gmail labels and their IDs for use with --add-label
//   - version: Display version information
//
// The compose command is the default command when no subcommand is specified.
package cmd
