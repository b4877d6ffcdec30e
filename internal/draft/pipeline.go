package draft

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mailsmith/mailsmith/internal/config"
	"github.com/mailsmith/mailsmith/internal/instrumentation"
	"github.com/mailsmith/mailsmith/internal/logging"
)

// completer is the generation service surface the pipeline depends on.
type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Pipeline turns a user intent into exactly three validated draft
// candidates.
type Pipeline struct {
	client completer
	sender config.Sender
	policy *bluemonday.Policy
	logger *slog.Logger
}

// NewPipeline creates a generation pipeline backed by the given client.
func NewPipeline(client completer, sender config.Sender, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client: client,
		sender: sender,
		policy: newPolicy(),
		logger: logging.WithComponent(logger, "draft"),
	}
}

// Generate produces exactly three candidates for the given intent.
//
// It fails only when the service call itself fails or no object at all can
// be recovered from the response. Malformed individual objects degrade to
// placeholder content instead of failing the invocation.
func (p *Pipeline) Generate(ctx context.Context, userIntent, area, style, templateHint string) ([]Candidate, error) {
	ctx, span := instrumentation.StartSpan(ctx, "draft.generate")
	defer span.End()

	if area == "" {
		area = defaultArea
	}
	if style == "" {
		style = defaultStyle
	}
	if templateHint == "" {
		templateHint = defaultTemplate
	}

	prompt := buildPrompt(userIntent, area, style, templateHint, p.sender)
	content, err := p.client.Complete(ctx, prompt)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	objs, err := parseObjects(content)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	p.logger.Debug("parsed draft objects",
		logging.Operation("generate"),
		slog.Int("objects", len(objs)))

	return p.validate(objs, userIntent), nil
}

// validate normalizes parsed objects into exactly three candidates, padding
// with placeholder drafts built from the original intent when the model
// returned fewer than three usable objects.
func (p *Pipeline) validate(objs []rawObject, fallback string) []Candidate {
	if len(objs) > 3 {
		objs = objs[:3]
	}

	candidates := make([]Candidate, 0, 3)
	for _, obj := range objs {
		subject := strings.TrimSpace(stringField(obj, "subject"))
		if subject == "" {
			subject = "No Subject"
		}

		body := stringField(obj, "body_html")
		if body == "" {
			if legacy, ok := obj["body"]; ok {
				body = "<pre>" + escapeText(coerceString(legacy)) + "</pre>"
			}
		}
		if body == "" {
			body = "<p>" + escapeText(fallback) + "</p>"
		}

		candidates = append(candidates, Candidate{
			Subject:  subject,
			BodyHTML: sanitizeHTML(p.policy, body),
		})
	}

	for len(candidates) < 3 {
		candidates = append(candidates, Candidate{
			Subject:  "Draft",
			BodyHTML: sanitizeHTML(p.policy, "<p>"+escapeText(fallback)+"</p>"),
		})
	}
	return candidates
}

func stringField(obj rawObject, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// escapeText neutralizes markup-significant characters before wrapping
// plain text in an HTML tag.
func escapeText(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
