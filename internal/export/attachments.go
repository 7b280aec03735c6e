package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/proofbound/textkeep/internal/paths"
	"github.com/proofbound/textkeep/internal/store"
)

// FileKind classifies an attachment by extension for rendering.
type FileKind int

const (
	FileGeneric FileKind = iota
	FileImage
	FileVideo
	FileAudio
)

var (
	imageExts = extSet("jpg", "jpeg", "png", "gif", "heic", "heif", "webp", "tiff", "bmp")
	videoExts = extSet("mp4", "mov", "m4v", "avi", "mkv")
	audioExts = extSet("mp3", "m4a", "wav", "aac", "caf", "aiff")
)

func extSet(exts ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		s[e] = struct{}{}
	}
	return s
}

// Classify returns the rendering kind for an attachment path, by
// lower-cased extension.
func Classify(path string) FileKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch {
	case contains(imageExts, ext):
		return FileImage
	case contains(videoExts, ext):
		return FileVideo
	case contains(audioExts, ext):
		return FileAudio
	default:
		return FileGeneric
	}
}

func contains(set map[string]struct{}, ext string) bool {
	_, ok := set[ext]
	return ok
}

// Mapping records where each attachment was copied, keyed by the original
// store path. A path referenced more than once keeps every copy in
// occurrence order.
type Mapping map[string][]string

func (m Mapping) add(original, rel string) {
	m[original] = append(m[original], rel)
}

// Resolve returns the first relative export path copied for original.
func (m Mapping) Resolve(original string) (string, bool) {
	rels := m[original]
	if len(rels) == 0 {
		return "", false
	}
	return rels[0], true
}

// Entries returns the total number of copies recorded.
func (m Mapping) Entries() int {
	n := 0
	for _, rels := range m {
		n += len(rels)
	}
	return n
}

// CopyAttachments copies every attachment referenced by msgs into destDir,
// prefixing each destination name with its 1-based ordinal to avoid
// collisions. Missing sources are skipped silently; copy failures are
// logged and omitted.
func CopyAttachments(msgs []store.Message, destDir string, logger *zap.Logger) Mapping {
	if logger == nil {
		logger = zap.NewNop()
	}
	mapping := make(Mapping)

	var all []string
	for _, m := range msgs {
		all = append(all, m.Attachments...)
	}
	if len(all) == 0 {
		return mapping
	}

	if err := os.MkdirAll(destDir, 0700); err != nil {
		logger.Warn("create attachments dir", zap.String("dir", destDir), zap.Error(err))
		return mapping
	}

	for i, original := range all {
		src := paths.ExpandHome(original)
		if _, err := os.Stat(src); err != nil {
			continue
		}

		name := fmt.Sprintf("%d_%s", i+1, filepath.Base(src))
		if err := copyFile(src, filepath.Join(destDir, name)); err != nil {
			logger.Warn("copy attachment", zap.String("source", src), zap.Error(err))
			continue
		}
		mapping.add(original, "attachments/"+name)
	}
	return mapping
}

// copyFile copies src to dst, truncating any existing destination.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
