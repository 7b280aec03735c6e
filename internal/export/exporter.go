package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/proofbound/textkeep/internal/bus"
	"github.com/proofbound/textkeep/internal/lock"
	"github.com/proofbound/textkeep/internal/paths"
	"github.com/proofbound/textkeep/internal/store"
)

// ErrExportInProgress is returned when another export holds the destination
// directory lock. Concurrent exports to one destination would collide on
// attachment ordinals, so they are rejected rather than serialized.
var ErrExportInProgress = errors.New("another export is running for this destination")

// Exporter runs the full export pipeline: load messages, copy attachments,
// render Markdown, write the document atomically.
type Exporter struct {
	repo     *store.Repository
	bus      *bus.Bus
	logger   *zap.Logger
	now      func() time.Time
	inFlight atomic.Bool
}

// NewExporter creates an exporter. b and logger may be nil.
func NewExporter(repo *store.Repository, b *bus.Bus, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{repo: repo, bus: b, logger: logger, now: time.Now}
}

// InFlight reports whether an export is currently running.
func (e *Exporter) InFlight() bool {
	return e.inFlight.Load()
}

// Export writes the conversation's messages in [start, end] (zero times are
// unbounded) to destPath, with attachments copied into a sibling
// "attachments" directory. Returns the number of exported messages.
func (e *Exporter) Export(ctx context.Context, conv store.Conversation, start, end time.Time, destPath string) (int, error) {
	destPath = paths.ExpandHome(destPath)
	destDir := filepath.Dir(destPath)

	l, err := lock.Acquire(destDir)
	if err != nil {
		var held *lock.HeldError
		if errors.As(err, &held) {
			return 0, fmt.Errorf("%w: %s", ErrExportInProgress, held.Error())
		}
		return 0, err
	}
	defer func() { _ = l.Release() }()

	e.inFlight.Store(true)
	defer e.inFlight.Store(false)

	jobID := uuid.NewString()
	e.publish(bus.KindExportStarted, bus.ExportStatus{
		JobID:        jobID,
		Conversation: conv.ID(),
		Destination:  destPath,
	})

	msgs, err := e.repo.Messages(ctx, conv, start, end)
	if err != nil {
		return 0, e.fail(jobID, conv, destPath, fmt.Errorf("load messages: %w", err))
	}

	mapping := CopyAttachments(msgs, filepath.Join(destDir, "attachments"), e.logger)
	doc := RenderMarkdown(conv, msgs, start, end, mapping, e.now())

	if err := writeAtomic(destPath, []byte(doc)); err != nil {
		return 0, e.fail(jobID, conv, destPath, fmt.Errorf("write export: %w", err))
	}

	e.logger.Info("export completed",
		zap.String("job", jobID),
		zap.String("conversation", conv.ID()),
		zap.String("destination", destPath),
		zap.Int("messages", len(msgs)),
		zap.Int("attachments", mapping.Entries()))
	e.publish(bus.KindExportCompleted, bus.ExportStatus{
		JobID:        jobID,
		Conversation: conv.ID(),
		Destination:  destPath,
		Messages:     len(msgs),
	})
	return len(msgs), nil
}

func (e *Exporter) fail(jobID string, conv store.Conversation, destPath string, err error) error {
	e.logger.Error("export failed",
		zap.String("job", jobID),
		zap.String("conversation", conv.ID()),
		zap.Error(err))
	e.publish(bus.KindExportFailed, bus.ExportStatus{
		JobID:        jobID,
		Conversation: conv.ID(),
		Destination:  destPath,
		Err:          err.Error(),
	})
	return err
}

func (e *Exporter) publish(kind string, status bus.ExportStatus) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(bus.Event{Kind: kind, Timestamp: e.now(), Payload: status})
}

// writeAtomic writes data via a temp file in the destination directory and
// renames it into place, so a failed export never leaves a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.md")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}
