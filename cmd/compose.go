package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mailsmith/mailsmith/internal/config"
	"github.com/mailsmith/mailsmith/internal/draft"
	"github.com/mailsmith/mailsmith/internal/gmail"
	"github.com/mailsmith/mailsmith/internal/google"
	"github.com/mailsmith/mailsmith/internal/instrumentation"
	"github.com/mailsmith/mailsmith/internal/logging"
	"github.com/mailsmith/mailsmith/internal/message"
	"github.com/mailsmith/mailsmith/internal/output"
)

type composeOptions struct {
	area         string
	style        string
	template     string
	cc           []string
	bcc          []string
	attach       []string
	draftMode    bool
	addLabels    []string
	autoSend     bool
	pick         int
	savePreviews bool
	saveEML      bool
}

func newComposeCmd() *cobra.Command {
	opts := &composeOptions{}

	cmd := &cobra.Command{
		Use:   "compose <request> <recipient>",
		Short: "Generate three email drafts from a request and deliver one",
		Long: `Generate three candidate HTML drafts for the given request, select one
interactively (or automatically with --auto-send), and deliver it to the
recipient as a sent message or, with --draft, as a Gmail draft.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&opts.area, "area", "", "Professional area (one of: "+strings.Join(draft.Areas, ", ")+")")
	cmd.Flags().StringVar(&opts.style, "style", "", "Custom style/tone (e.g. \"warm, motivational\")")
	cmd.Flags().StringVar(&opts.template, "template", "", "Template hint: recruitment_announcement, partnership_pitch, appreciation_note")
	cmd.Flags().StringSliceVar(&opts.cc, "cc", nil, "CC addresses")
	cmd.Flags().StringSliceVar(&opts.bcc, "bcc", nil, "BCC addresses")
	cmd.Flags().StringSliceVar(&opts.attach, "attach", nil, "File paths to attach")
	cmd.Flags().BoolVar(&opts.draftMode, "draft", false, "Create a Gmail draft instead of sending")
	cmd.Flags().StringSliceVar(&opts.addLabels, "add-label", nil, "Label IDs to add after send (requires modify scope)")
	cmd.Flags().BoolVar(&opts.autoSend, "auto-send", false, "Skip prompts and deliver the draft selected by --pick")
	cmd.Flags().IntVar(&opts.pick, "pick", 1, "Draft number to deliver (1-3) when --auto-send is set")
	cmd.Flags().BoolVar(&opts.savePreviews, "save-previews", false, "Save the 3 previews as HTML files")
	cmd.Flags().BoolVar(&opts.saveEML, "save-eml", false, "Save the final MIME message as .eml")

	return cmd
}

func runCompose(ctx context.Context, userIntent, recipient string, opts *composeOptions) error {
	if opts.area != "" && !draft.ValidArea(opts.area) {
		return fmt.Errorf("unknown area %q, valid areas: %s", opts.area, strings.Join(draft.Areas, ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := newLogger()

	instConfig := instrumentation.DefaultConfig()
	instConfig.ServiceVersion = version
	if err := instConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}
	provider, err := instrumentation.NewProvider(ctx, instConfig)
	if err != nil {
		return fmt.Errorf("initialize instrumentation: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	// Resolve an authorization grant covering exactly what this run needs.
	scopes := google.RequiredScopes(opts.draftMode, len(opts.addLabels) > 0)
	manager := google.NewManager(cfg.CredentialsFile, cfg.TokenFile, cfg.ConsoleAuth, logger)
	grant, err := manager.Resolve(ctx, scopes)
	if err != nil {
		metrics.RecordOAuthResolution(ctx, "failure")
		return err
	}
	metrics.RecordOAuthResolution(ctx, "resolved")

	logger.Debug("grant resolved",
		logging.Operation("resolve_grant"),
		logging.Recipient(recipient),
		slog.Int("scopes", len(scopes)))

	stdin := bufio.NewReader(os.Stdin)

	area, style, template := opts.area, opts.style, opts.template
	if !opts.autoSend {
		area, style, template = interactiveContext(stdin, os.Stdout, area, style, template)
	}

	// Generate exactly three candidates.
	pipeline := draft.NewPipeline(draft.NewClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel), cfg.Sender, logger)
	genStart := time.Now()
	candidates, err := pipeline.Generate(ctx, userIntent, area, style, template)
	if err != nil {
		metrics.RecordGeneration(ctx, instrumentation.StatusError, time.Since(genStart))
		return err
	}
	metrics.RecordGeneration(ctx, instrumentation.StatusSuccess, time.Since(genStart))

	printPreviews(os.Stdout, candidates)

	writer := output.NewWriter(cfg.OutDir, logger)
	if opts.savePreviews {
		if err := writer.SavePreviews(candidates); err != nil {
			return err
		}
	}

	idx, err := selectCandidate(stdin, os.Stdout, opts)
	if err != nil {
		return err
	}
	chosen := candidates[idx-1]

	assembler := message.NewAssembler(logger)
	assembled, err := assembler.Assemble(message.Message{
		From:            "me",
		To:              recipient,
		Subject:         chosen.Subject,
		BodyHTML:        chosen.BodyHTML,
		CC:              opts.cc,
		BCC:             opts.bcc,
		AttachmentPaths: opts.attach,
	})
	if err != nil {
		return fmt.Errorf("assemble message: %w", err)
	}

	client, err := gmail.NewClient(ctx, grant, logger, metrics)
	if err != nil {
		return err
	}

	mode := gmail.ModeSend
	if opts.draftMode {
		mode = gmail.ModeDraft
	}
	id, err := client.Deliver(ctx, assembled, mode, opts.addLabels)
	if err != nil {
		return err
	}

	if opts.draftMode {
		fmt.Printf("Draft created. Draft ID: %s\n", id)
	} else {
		fmt.Printf("Email sent! Message ID: %s\n", id)
	}

	if opts.saveEML {
		name := fmt.Sprintf("sent_%s.eml", id)
		if opts.draftMode {
			name = fmt.Sprintf("draft_%s.eml", id)
		}
		if _, err := writer.SaveEML(name, assembled.Raw); err != nil {
			return err
		}
	}

	return nil
}

// interactiveContext optionally asks the operator for area, style and
// template hints. Values already provided via flags are kept.
func interactiveContext(in *bufio.Reader, out io.Writer, area, style, template string) (string, string, string) {
	fmt.Fprintln(out, "\nDo you want a quick interactive context setup? (y/n)")
	if !readYes(in, out) {
		return area, style, template
	}

	if area == "" {
		fmt.Fprintln(out, "\nSelect a professional area for better context? (y/n)")
		if readYes(in, out) {
			fmt.Fprintln(out, "\nChoose one:")
			for i, a := range draft.Areas {
				fmt.Fprintf(out, "%d. %s\n", i+1, a)
			}
			fmt.Fprint(out, "\nEnter number (or Enter to skip): ")
			if n, err := strconv.Atoi(readLine(in)); err == nil && n >= 1 && n <= len(draft.Areas) {
				area = draft.Areas[n-1]
			}
		}
	}

	if style == "" {
		fmt.Fprintln(out, "\nAdd a custom style/tone? (y/n)")
		if readYes(in, out) {
			fmt.Fprint(out, "Enter custom style/tone (e.g., warm, motivational): ")
			style = readLine(in)
		}
	}

	if template == "" {
		fmt.Fprintln(out, "\nTemplate hint (Enter to skip). Examples: recruitment_announcement, partnership_pitch, appreciation_note")
		fmt.Fprint(out, "> ")
		template = readLine(in)
	}

	return area, style, template
}

// selectCandidate determines which draft to deliver. In auto-send mode the
// requested pick is clamped to the valid range; otherwise an invalid
// interactive selection aborts the run.
func selectCandidate(in *bufio.Reader, out io.Writer, opts *composeOptions) (int, error) {
	if opts.autoSend {
		return clamp(opts.pick, 1, 3), nil
	}

	fmt.Fprint(out, "\nEnter preview number to proceed (1/2/3): ")
	sel := readLine(in)
	n, err := strconv.Atoi(sel)
	if err != nil || n < 1 || n > 3 {
		return 0, fmt.Errorf("invalid selection %q", sel)
	}
	return n, nil
}

func printPreviews(out io.Writer, candidates []draft.Candidate) {
	fmt.Fprintln(out, "\n--- AI Generated Previews ---")
	for i, c := range candidates {
		fmt.Fprintf(out, "\nPreview %d:\n", i+1)
		fmt.Fprintf(out, "Subject: %s\n", c.Subject)
		fmt.Fprintln(out, "Body (HTML):")
		fmt.Fprintln(out, c.BodyHTML)
	}
}

func readYes(in *bufio.Reader, out io.Writer) bool {
	fmt.Fprint(out, "> ")
	return strings.EqualFold(readLine(in), "y")
}

func readLine(in *bufio.Reader) string {
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
