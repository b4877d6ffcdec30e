package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mailsmith/mailsmith/internal/google"
	"github.com/mailsmith/mailsmith/internal/instrumentation"
	"github.com/mailsmith/mailsmith/internal/logging"
	"github.com/mailsmith/mailsmith/internal/message"
)

// Client wraps the Gmail API for delivery operations. All calls act on the
// authorized user's own mailbox ("me").
type Client struct {
	svc     *gmail.Service
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewClient creates a Gmail client from a resolved authorization grant.
func NewClient(ctx context.Context, grant *google.Grant, logger *slog.Logger, metrics *instrumentation.Metrics) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(grant.Client(ctx)))
	if err != nil {
		return nil, &DeliveryError{Op: "create_service", Err: err}
	}
	return &Client{
		svc:     svc,
		logger:  logging.WithComponent(logger, "gmail"),
		metrics: metrics,
	}, nil
}

// Deliver submits the assembled message and returns the provider ID of the
// sent message or created draft.
//
// In send mode, requested label IDs are applied after the send as a best
// effort: a label failure is logged and swallowed because the message is
// already irrevocably out the door. Labels are ignored in draft mode.
func (c *Client) Deliver(ctx context.Context, assembled *message.Assembled, mode Mode, addLabelIDs []string) (string, error) {
	ctx, span := instrumentation.StartClientSpan(ctx, "gmail.deliver",
		attribute.String(instrumentation.SpanAttrMode, string(mode)))
	defer span.End()

	start := time.Now()

	var id string
	var err error
	switch mode {
	case ModeDraft:
		id, err = c.createDraft(ctx, assembled)
	case ModeSend:
		id, err = c.send(ctx, assembled)
	default:
		err = &DeliveryError{Op: "deliver", Err: fmt.Errorf("unknown mode %q", mode)}
	}

	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordDelivery(ctx, string(mode), instrumentation.StatusError, time.Since(start))
		return "", err
	}
	c.metrics.RecordDelivery(ctx, string(mode), instrumentation.StatusSuccess, time.Since(start))

	if mode == ModeSend && len(addLabelIDs) > 0 {
		if labelErr := c.AddLabels(ctx, id, addLabelIDs); labelErr != nil {
			c.logger.Warn("failed to apply labels after send",
				logging.Operation("add_labels"),
				slog.String("message_id", id),
				logging.Err(labelErr))
		}
	}

	instrumentation.SetSpanSuccess(span)
	return id, nil
}

func (c *Client) send(ctx context.Context, assembled *message.Assembled) (string, error) {
	res, err := c.svc.Users.Messages.Send("me", &gmail.Message{Raw: assembled.Envelope}).Context(ctx).Do()
	if err != nil {
		return "", &DeliveryError{Op: "send", Err: err}
	}
	c.logger.Info("message sent",
		logging.Operation("send"),
		logging.Status(logging.StatusSuccess),
		slog.String("message_id", res.Id))
	return res.Id, nil
}

func (c *Client) createDraft(ctx context.Context, assembled *message.Assembled) (string, error) {
	draft := &gmail.Draft{Message: &gmail.Message{Raw: assembled.Envelope}}
	res, err := c.svc.Users.Drafts.Create("me", draft).Context(ctx).Do()
	if err != nil {
		return "", &DeliveryError{Op: "create_draft", Err: err}
	}
	c.logger.Info("draft created",
		logging.Operation("create_draft"),
		logging.Status(logging.StatusSuccess),
		slog.String("draft_id", res.Id))
	return res.Id, nil
}

// AddLabels applies label IDs to a sent message.
func (c *Client) AddLabels(ctx context.Context, messageID string, labelIDs []string) error {
	if len(labelIDs) == 0 {
		return nil
	}
	req := &gmail.ModifyMessageRequest{AddLabelIds: labelIDs}
	if _, err := c.svc.Users.Messages.Modify("me", messageID, req).Context(ctx).Do(); err != nil {
		return &DeliveryError{Op: "modify_labels", Err: err}
	}
	return nil
}

// ListLabels returns the labels available in the authorized mailbox, for
// resolving human-readable names to the IDs the modify call needs.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	res, err := c.svc.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, &DeliveryError{Op: "list_labels", Err: err}
	}
	labels := make([]Label, 0, len(res.Labels))
	for _, l := range res.Labels {
		labels = append(labels, Label{ID: l.Id, Name: l.Name, Type: l.Type})
	}
	return labels, nil
}
