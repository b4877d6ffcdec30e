package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailsmith application
var rootCmd = &cobra.Command{
	Use:   "mailsmith",
	Short: "Generates AI-written HTML emails and sends them through Gmail",
	Long: `mailsmith turns a natural-language request into three candidate HTML
email drafts using an OpenRouter-compatible model, lets you pick one, and
delivers it through the Gmail API as a sent message or draft.

Authorization is scope-aware: only the Gmail permissions the invocation
actually needs (send, compose, modify) are requested.`,
	SilenceUsage: true,
}

var verbose bool

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailsmith version %s\n" .Version}}`)

	// If no subcommand is provided, run the compose command by default
	if len(os.Args) > 1 && !isKnownCommand(os.Args[1]) {
		os.Args = append([]string{os.Args[0], "compose"}, os.Args[1:]...)
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func isKnownCommand(name string) bool {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	switch name {
	case "help", "completion", "--help", "-h", "--version":
		return true
	}
	return false
}

// newLogger builds the process logger. Verbose runs log at debug level.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newLabelsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
