// Package uploader pushes local pipeline artifacts into blob storage in
// batch: glob expansion, per-file integrity metadata, optional gzip
// companions for JSONL files, and a manifest blob listing everything
// uploaded. Per-file failures are logged and tallied, never fatal.
package uploader

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexgo-ia/lexgo/pkg/formatting"
	"github.com/lexgo-ia/lexgo/pkg/storage"
)

// manifestZone stamps manifest names in the jurisdiction's local time.
const manifestZone = "America/Argentina/Buenos_Aires"

// Tally summarizes an upload batch.
type Tally struct {
	Uploaded int
	Skipped  int
}

// Entry is one uploaded artifact recorded in the manifest.
type Entry struct {
	Local       string `json:"local"`
	URI         string `json:"uri"`
	ContentType string `json:"content_type"`
	SHA256      string `json:"sha256"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Manifest describes a completed upload batch.
type Manifest struct {
	ID          string  `json:"id"`
	Prefix      string  `json:"prefix"`
	GeneratedAt string  `json:"generated_at"`
	Entries     []Entry `json:"entries"`
}

// Uploader pushes local files under a storage key prefix.
type Uploader struct {
	store     storage.System
	prefix    string
	gzipJSONL bool
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an uploader writing under prefix. When gzipJSONL is set,
// every .jsonl file also gets a gzip companion blob.
func New(store storage.System, prefix string, gzipJSONL bool, logger *slog.Logger) *Uploader {
	return &Uploader{
		store:     store,
		prefix:    strings.Trim(prefix, "/"),
		gzipJSONL: gzipJSONL,
		logger:    logger.With("system", "uploader"),
		now:       time.Now,
	}
}

// ExpandPaths resolves a mix of literal paths and globs into the sorted
// list of existing files. Patterns matching nothing are kept as literals
// so missing files surface as skips rather than vanishing silently.
func ExpandPaths(patterns []string) []string {
	var expanded []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			expanded = append(expanded, p)
			continue
		}
		sort.Strings(matches)
		expanded = append(expanded, matches...)
	}

	var files []string
	for _, p := range expanded {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			files = append(files, p)
		}
	}
	return files
}

// Run uploads every file and finishes with a manifest blob. The batch
// always runs to completion; the manifest lists only successful uploads.
func (u *Uploader) Run(ctx context.Context, paths []string) (*Manifest, Tally, error) {
	var tally Tally
	var entries []Entry

	for _, path := range paths {
		uploaded, err := u.uploadFile(ctx, path)
		if err != nil {
			tally.Skipped++
			u.logger.Warn("file skipped", "path", path, "error", err)
			continue
		}
		tally.Uploaded++
		entries = append(entries, uploaded...)
	}

	manifest, err := u.writeManifest(ctx, entries)
	if err != nil {
		return nil, tally, err
	}

	u.logger.Info("upload batch finished",
		"uploaded", tally.Uploaded,
		"skipped", tally.Skipped,
		"manifest", manifest.ID)

	return manifest, tally, nil
}

func (u *Uploader) uploadFile(ctx context.Context, path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	name := filepath.Base(path)
	meta := map[string]string{
		"sha256":      fmt.Sprintf("%x", sha256.Sum256(data)),
		"size_bytes":  strconv.Itoa(len(data)),
		"uploaded_at": u.now().UTC().Format(time.RFC3339),
	}

	var entries []Entry

	if u.gzipJSONL && strings.HasSuffix(name, ".jsonl") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}

		gzKey := u.prefix + "/" + name + ".gz"
		uri, err := u.store.Put(ctx, gzKey, buf.Bytes(), "application/gzip", meta)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", gzKey, err)
		}
		entries = append(entries, Entry{
			Local:       path,
			URI:         uri,
			ContentType: "application/gzip",
			SHA256:      meta["sha256"],
			SizeBytes:   int64(len(data)),
		})
	}

	contentType := ContentType(name)
	uri, err := u.store.Put(ctx, u.prefix+"/"+name, data, contentType, meta)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	u.logger.Info("file uploaded",
		"name", name,
		"size", formatting.FormatBytes(int64(len(data)), 1),
		"uri", uri)

	return append(entries, Entry{
		Local:       path,
		URI:         uri,
		ContentType: contentType,
		SHA256:      meta["sha256"],
		SizeBytes:   int64(len(data)),
	}), nil
}

func (u *Uploader) writeManifest(ctx context.Context, entries []Entry) (*Manifest, error) {
	now := u.now()
	if loc, err := time.LoadLocation(manifestZone); err == nil {
		now = now.In(loc)
	}

	manifest := &Manifest{
		ID:          uuid.NewString(),
		Prefix:      u.prefix,
		GeneratedAt: now.Format(time.RFC3339),
		Entries:     entries,
	}

	body, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	name := fmt.Sprintf("manifest_%s_%s.json", now.Format("20060102T150405"), manifest.ID)
	key := u.prefix + "/" + name
	if _, err := u.store.Put(ctx, key, body, "application/json; charset=utf-8", nil); err != nil {
		return nil, fmt.Errorf("upload manifest: %w", err)
	}

	return manifest, nil
}

// ContentType guesses a content type from the filename. Pipeline artifact
// extensions are special-cased ahead of the platform MIME table.
func ContentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".jsonl.gz"):
		return "application/gzip"
	case strings.HasSuffix(name, ".jsonl"):
		return "application/x-ndjson"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	case strings.HasSuffix(name, ".csv"):
		return "text/csv; charset=utf-8"
	case strings.HasSuffix(name, ".txt"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return "text/html; charset=utf-8"
	}

	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
