package message

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailsmith/mailsmith/internal/logging"
)

// Message describes one email to assemble.
type Message struct {
	From     string
	To       string
	Subject  string
	BodyHTML string
	// BodyText is an optional plain-text alternative.
	BodyText string
	CC       []string
	BCC      []string
	// AttachmentPaths are local files to attach. Missing files are skipped
	// with a warning rather than failing the whole message.
	AttachmentPaths []string
}

// Assembled is the wire form of a message.
type Assembled struct {
	// Raw is the canonical RFC 2822 serialization.
	Raw []byte
	// Envelope is the base64url-encoded form the provider API accepts.
	Envelope string
}

// Assembler builds provider-ready messages.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates a message assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logging.WithComponent(logger, "message")}
}

// Assemble serializes the message into its wire form.
//
// The HTML body and optional plain-text fallback always live in a
// multipart/alternative container. With attachments that container is
// nested inside a multipart/mixed envelope together with one base64
// binary part per file; without attachments the alternative container is
// the top-level message itself.
func (a *Assembler) Assemble(msg Message) (*Assembled, error) {
	var buf bytes.Buffer

	attachments := a.existingAttachments(msg.AttachmentPaths)
	if len(attachments) > 0 {
		if err := a.writeMixed(&buf, msg, attachments); err != nil {
			return nil, err
		}
	} else {
		writer := multipart.NewWriter(&buf)
		writeTopHeaders(&buf, msg, "multipart/alternative", writer.Boundary())
		if err := writeAlternativeParts(writer, msg); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("finalize message: %w", err)
		}
	}

	raw := buf.Bytes()
	return &Assembled{
		Raw:      raw,
		Envelope: base64.URLEncoding.EncodeToString(raw),
	}, nil
}

// writeMixed writes a multipart/mixed message whose first part is the
// alternative body container, followed by one part per attachment.
func (a *Assembler) writeMixed(buf *bytes.Buffer, msg Message, attachments []string) error {
	mixed := multipart.NewWriter(buf)
	writeTopHeaders(buf, msg, "multipart/mixed", mixed.Boundary())

	// Render the alternative container first so its boundary is known when
	// declaring the enclosing part's Content-Type.
	var altBuf bytes.Buffer
	alt := multipart.NewWriter(&altBuf)
	if err := writeAlternativeParts(alt, msg); err != nil {
		return err
	}
	if err := alt.Close(); err != nil {
		return fmt.Errorf("finalize body container: %w", err)
	}

	altHeader := make(textproto.MIMEHeader)
	altHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", alt.Boundary()))
	altPart, err := mixed.CreatePart(altHeader)
	if err != nil {
		return fmt.Errorf("create body container: %w", err)
	}
	if _, err := altPart.Write(altBuf.Bytes()); err != nil {
		return fmt.Errorf("write body container: %w", err)
	}

	for _, path := range attachments {
		if err := a.writeAttachment(mixed, path); err != nil {
			return err
		}
	}
	if err := mixed.Close(); err != nil {
		return fmt.Errorf("finalize message: %w", err)
	}
	return nil
}

// existingAttachments filters the requested paths down to files that exist,
// logging a warning for each one skipped.
func (a *Assembler) existingAttachments(paths []string) []string {
	var existing []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			a.logger.Warn("attachment not found, skipping",
				logging.Operation("assemble"),
				slog.String("path", path))
			continue
		}
		existing = append(existing, path)
	}
	return existing
}

func (a *Assembler) writeAttachment(writer *multipart.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read attachment %s: %w", path, err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "application/octet-stream")
	header.Set("Content-Transfer-Encoding", "base64")
	header.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	// RFC 2045 line length limit for encoded content.
	for len(encoded) > 76 {
		if _, err := part.Write([]byte(encoded[:76] + "\r\n")); err != nil {
			return fmt.Errorf("write attachment: %w", err)
		}
		encoded = encoded[76:]
	}
	if _, err := part.Write([]byte(encoded + "\r\n")); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	return nil
}

// writeAlternativeParts writes the plain-text fallback (when present) then
// the HTML body, least-preferred first per multipart/alternative rules.
func writeAlternativeParts(writer *multipart.Writer, msg Message) error {
	if msg.BodyText != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Type", "text/plain; charset=UTF-8")
		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("create text part: %w", err)
		}
		if _, err := part.Write([]byte(msg.BodyText)); err != nil {
			return fmt.Errorf("write text part: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", "text/html; charset=UTF-8")
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create html part: %w", err)
	}
	if _, err := part.Write([]byte(msg.BodyHTML)); err != nil {
		return fmt.Errorf("write html part: %w", err)
	}
	return nil
}

// writeTopHeaders writes the RFC 2822 headers of the top-level entity.
func writeTopHeaders(buf *bytes.Buffer, msg Message, contentType, boundary string) {
	fmt.Fprintf(buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(buf, "To: %s\r\n", msg.To)
	if len(msg.CC) > 0 {
		fmt.Fprintf(buf, "Cc: %s\r\n", strings.Join(msg.CC, ", "))
	}
	if len(msg.BCC) > 0 {
		fmt.Fprintf(buf, "Bcc: %s\r\n", strings.Join(msg.BCC, ", "))
	}
	fmt.Fprintf(buf, "Subject: %s\r\n", encodeRFC2047(msg.Subject))
	fmt.Fprintf(buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(buf, "Content-Type: %s; boundary=%s\r\n\r\n", contentType, boundary)
}

// encodeRFC2047 encodes a header value for non-ASCII content.
func encodeRFC2047(s string) string {
	return mime.BEncoding.Encode("UTF-8", s)
}
