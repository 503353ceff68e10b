package uploader_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexgo-ia/lexgo/internal/uploader"
)

type memStore struct {
	blobs   map[string][]byte
	types   map[string]string
	meta    map[string]map[string]string
	failKey string
}

func newMemStore() *memStore {
	return &memStore{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
		meta:  make(map[string]map[string]string),
	}
}

func (m *memStore) EnsureContainer(context.Context) error { return nil }

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error) {
	if m.failKey != "" && strings.Contains(key, m.failKey) {
		return "", errors.New("injected put failure")
	}
	m.blobs[key] = data
	m.types[key] = contentType
	m.meta[key] = metadata
	return "azblob://test/" + key, nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.blobs[key]
	return ok, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "x")
	writeFile(t, dir, "b.csv", "y")
	writeFile(t, dir, "notas.txt", "z")

	files := uploader.ExpandPaths([]string{
		filepath.Join(dir, "*.csv"),
		filepath.Join(dir, "notas.txt"),
		filepath.Join(dir, "no-such-*.json"),
	})

	if len(files) != 3 {
		t.Fatalf("expanded to %d files, want 3: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.csv" || filepath.Base(files[1]) != "b.csv" {
		t.Errorf("glob matches not sorted: %v", files)
	}
}

func TestRunUploadsFilesWithIntegrityMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "metricas.csv", "train_accuracy\n0.95\n")

	store := newMemStore()
	u := uploader.New(store, "biblioteca/laboral", false, slog.Default())

	manifest, tally, err := u.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if tally.Uploaded != 1 || tally.Skipped != 0 {
		t.Fatalf("tally = %+v, want uploaded=1 skipped=0", tally)
	}

	key := "biblioteca/laboral/metricas.csv"
	data, ok := store.blobs[key]
	if !ok {
		t.Fatalf("blob %q not uploaded; have %v", key, blobKeys(store))
	}
	if store.types[key] != "text/csv; charset=utf-8" {
		t.Errorf("content type = %q", store.types[key])
	}

	wantSum := fmt.Sprintf("%x", sha256.Sum256(data))
	if store.meta[key]["sha256"] != wantSum {
		t.Errorf("sha256 metadata = %q, want %q", store.meta[key]["sha256"], wantSum)
	}
	if store.meta[key]["size_bytes"] == "" || store.meta[key]["uploaded_at"] == "" {
		t.Errorf("missing integrity metadata: %v", store.meta[key])
	}

	if len(manifest.Entries) != 1 || manifest.Entries[0].URI != "azblob://test/"+key {
		t.Errorf("manifest entries = %+v", manifest.Entries)
	}
	if manifest.ID == "" {
		t.Error("manifest has empty id")
	}
}

func TestRunGzipsJSONLAlongsideOriginal(t *testing.T) {
	dir := t.TempDir()
	content := `{"texto":"fallo uno"}` + "\n" + `{"texto":"fallo dos"}` + "\n"
	path := writeFile(t, dir, "rag_fulltexts.jsonl", content)

	store := newMemStore()
	u := uploader.New(store, "biblioteca", true, slog.Default())

	manifest, _, err := u.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	gz, ok := store.blobs["biblioteca/rag_fulltexts.jsonl.gz"]
	if !ok {
		t.Fatalf("gzip companion not uploaded; have %v", blobKeys(store))
	}
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		t.Fatalf("companion is not gzip: %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress companion: %v", err)
	}
	if string(decoded) != content {
		t.Error("gzip companion does not round-trip to the original bytes")
	}

	if _, ok := store.blobs["biblioteca/rag_fulltexts.jsonl"]; !ok {
		t.Error("original jsonl not uploaded alongside the gzip companion")
	}
	if store.types["biblioteca/rag_fulltexts.jsonl"] != "application/x-ndjson" {
		t.Errorf("jsonl content type = %q", store.types["biblioteca/rag_fulltexts.jsonl"])
	}
	if len(manifest.Entries) != 2 {
		t.Errorf("manifest has %d entries, want gzip + original", len(manifest.Entries))
	}
}

func TestRunSkipsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "bueno.txt", "contenido")
	missing := filepath.Join(dir, "no-existe.txt")

	store := newMemStore()
	u := uploader.New(store, "biblioteca", false, slog.Default())

	manifest, tally, err := u.Run(context.Background(), []string{missing, good})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if tally.Uploaded != 1 || tally.Skipped != 1 {
		t.Fatalf("tally = %+v, want uploaded=1 skipped=1", tally)
	}
	if len(manifest.Entries) != 1 {
		t.Errorf("manifest lists %d entries, want only the successful upload", len(manifest.Entries))
	}
}

func TestRunWritesManifestBlob(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notas.txt", "x")

	store := newMemStore()
	u := uploader.New(store, "biblioteca", false, slog.Default())

	manifest, _, err := u.Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	var manifestKey string
	for key := range store.blobs {
		if strings.Contains(key, "manifest_") {
			manifestKey = key
		}
	}
	if manifestKey == "" {
		t.Fatalf("no manifest blob among %v", blobKeys(store))
	}
	if !strings.Contains(manifestKey, manifest.ID) {
		t.Errorf("manifest key %q does not carry batch id %q", manifestKey, manifest.ID)
	}

	var decoded uploader.Manifest
	if err := json.Unmarshal(store.blobs[manifestKey], &decoded); err != nil {
		t.Fatalf("manifest blob is not valid JSON: %v", err)
	}
	if decoded.ID != manifest.ID || len(decoded.Entries) != 1 {
		t.Errorf("decoded manifest = %+v", decoded)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"datos.jsonl", "application/x-ndjson"},
		{"datos.jsonl.gz", "application/gzip"},
		{"resultado.json", "application/json"},
		{"tabla.csv", "text/csv; charset=utf-8"},
		{"pagina.html", "text/html; charset=utf-8"},
		{"binario.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := uploader.ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func blobKeys(m *memStore) []string {
	var keys []string
	for k := range m.blobs {
		keys = append(keys, k)
	}
	return keys
}
