package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	gmail_v1 "google.golang.org/api/gmail/v1"

	"github.com/mailsmith/mailsmith/internal/config"
	"github.com/mailsmith/mailsmith/internal/gmail"
	"github.com/mailsmith/mailsmith/internal/google"
	"github.com/mailsmith/mailsmith/internal/instrumentation"
)

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List Gmail labels and their IDs",
		Long: `List the labels in the authorized mailbox. Use the printed IDs with
compose --add-label to tag sent messages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels(cmd.Context())
		},
	}
}

func runLabels(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := newLogger()

	manager := google.NewManager(cfg.CredentialsFile, cfg.TokenFile, cfg.ConsoleAuth, logger)
	grant, err := manager.Resolve(ctx, []string{gmail_v1.GmailLabelsScope})
	if err != nil {
		return err
	}

	client, err := gmail.NewClient(ctx, grant, logger, &instrumentation.Metrics{})
	if err != nil {
		return err
	}

	labels, err := client.ListLabels(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE")
	for _, l := range labels {
		fmt.Fprintf(w, "%s\t%s\t%s\n", l.ID, l.Name, l.Type)
	}
	return w.Flush()
}
