package output

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mailsmith/mailsmith/internal/draft"
	"github.com/mailsmith/mailsmith/internal/logging"
)

// Writer persists generation and delivery artifacts under a local directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates an artifact writer rooted at dir. The directory is
// created on first write.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logging.WithComponent(logger, "output")}
}

// SavePreviews writes each candidate body as preview_N.html, 1-based to
// match the selection numbers shown to the operator.
func (w *Writer) SavePreviews(candidates []draft.Candidate) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	for i, c := range candidates {
		path := filepath.Join(w.dir, fmt.Sprintf("preview_%d.html", i+1))
		if err := os.WriteFile(path, []byte(c.BodyHTML), 0644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	w.logger.Info("saved previews",
		logging.Operation("save_previews"),
		slog.String("dir", w.dir),
		slog.Int("count", len(candidates)))
	return nil
}

// SaveEML writes the raw message bytes under the given file name and
// returns the full path.
func (w *Writer) SaveEML(name string, raw []byte) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("write eml: %w", err)
	}
	w.logger.Info("saved eml",
		logging.Operation("save_eml"),
		slog.String("path", path))
	return path, nil
}

func (w *Writer) ensureDir() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", w.dir, err)
	}
	return nil
}
