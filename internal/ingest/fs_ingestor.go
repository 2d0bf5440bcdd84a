package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/papers-tracker/internal/common"
)

// DefaultMaxBytes bounds the size of a single paper read into memory.
const DefaultMaxBytes = 50 << 20

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	MaxBytes int64
	logger   *slog.Logger
}

func NewFSIngestor(logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{MaxBytes: DefaultMaxBytes, logger: logger}
}

// IngestPath reads one PDF and hashes its content.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	out := IngestionResult{SourcePath: path, Name: filepath.Base(path)}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	ext := filepath.Ext(path)
	if !AllowedExt(ext) {
		i.logger.Warn("unsupported or missing extension", "path", path, "ext", ext)
		return out, common.NewAppError("UNSUPPORTED_FILE", fmt.Sprintf("unsupported extension %q", ext), common.ErrInvalidInput)
	}

	f, err := os.Open(path)
	if err != nil {
		i.logger.Error("open error", "path", path, "error", err)
		return out, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			i.logger.Warn("close file error", "path", path, "error", err)
		}
	}()

	st, err := f.Stat()
	if err != nil {
		return out, err
	}
	if i.MaxBytes > 0 && st.Size() > i.MaxBytes {
		return out, common.NewAppError("FILE_TOO_LARGE",
			fmt.Sprintf("%s is %d bytes, limit %d", out.Name, st.Size(), i.MaxBytes), common.ErrInvalidInput)
	}

	h := sha256.New()
	data, err := io.ReadAll(io.TeeReader(f, h))
	if err != nil {
		i.logger.Error("read error", "path", path, "error", err)
		return out, err
	}

	out.Data = data
	out.Size = int64(len(data))
	out.HashHex = hex.EncodeToString(h.Sum(nil))
	out.ModifiedAt = st.ModTime().UTC()
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and reads
// every PDF. Files whose content was already seen in this walk are marked
// Deduplicated. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []IngestionResult
	var stats DirStats
	seen := map[string]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Name: d.Name(), Err: err.Error()})
			stats.Failed++
			return nil
		}
		if first, dup := seen[r.HashHex]; dup {
			i.logger.Info("duplicate paper skipped", "path", path, "same_as", first)
			r.Deduplicated = true
			r.Data = nil
			stats.Deduplicated++
		} else {
			seen[r.HashHex] = path
		}

		results = append(results, r)
		stats.Succeeded++
		return nil
	})

	if err != nil {
		return results, stats, common.WrapError(err, "walk")
	}
	i.logger.Info("directory ingested",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
