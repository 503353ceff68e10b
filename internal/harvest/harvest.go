// Package harvest scrapes court-decision listings and archives each
// decision in blob storage: the linked document plus a metadata blob
// describing it. The batch is best-effort: a failing record is logged
// and skipped, never aborting the run.
package harvest

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/lexgo-ia/lexgo/pkg/formatting"
	"github.com/lexgo-ia/lexgo/pkg/storage"
	"github.com/lexgo-ia/lexgo/pkg/textproc"
)

// SlugLimit caps the title runes carried into storage keys.
const SlugLimit = 60

// MetadataFile is the per-decision metadata blob name.
const MetadataFile = "metadata.json"

// Tally summarizes a harvest batch. Existing counts records whose
// metadata blob was already in storage and were left untouched.
type Tally struct {
	Processed int
	Uploaded  int
	Existing  int
	Skipped   int
}

// Harvester downloads listed decisions and archives them in blob storage
// under prefix/year/id-slug folders.
type Harvester struct {
	client *http.Client
	store  storage.System
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// New creates a harvester writing under the given key prefix.
func New(store storage.System, prefix string, logger *slog.Logger) *Harvester {
	return &Harvester{
		client: &http.Client{Timeout: 30 * time.Second},
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		logger: logger.With("system", "harvest"),
		now:    time.Now,
	}
}

// FetchListing retrieves a listing page over HTTP and parses its records.
// Relative document links resolve against the listing URL.
func (h *Harvester) FetchListing(ctx context.Context, listingURL string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing: unexpected status %s", resp.Status)
	}

	base, err := url.Parse(listingURL)
	if err != nil {
		base = nil
	}

	records, err := ParseListing(resp.Body, base)
	if err != nil {
		return nil, err
	}

	h.logger.Info("listing fetched", "url", listingURL, "records", len(records))
	return records, nil
}

// Process archives every record. Each record gets a metadata blob and,
// when its link yields a downloadable document, the document bytes.
// Records already archived in a previous run keep their blobs untouched.
// A record failing at any step is logged and counted as skipped; the
// batch always runs to completion.
func (h *Harvester) Process(ctx context.Context, records []Record) Tally {
	var tally Tally

	for _, rec := range records {
		tally.Processed++

		folder := h.folder(rec)
		if exists, err := h.store.Exists(ctx, folder+"/"+MetadataFile); err == nil && exists {
			tally.Existing++
			h.logger.Info("record already archived", "titulo", rec.Title, "folder", folder)
			continue
		}

		if err := h.archive(ctx, rec); err != nil {
			tally.Skipped++
			h.logger.Warn("record skipped", "titulo", rec.Title, "error", err)
			continue
		}
		tally.Uploaded++
	}

	h.logger.Info("harvest batch finished",
		"processed", tally.Processed,
		"uploaded", tally.Uploaded,
		"existing", tally.Existing,
		"skipped", tally.Skipped)

	return tally
}

type decisionMeta struct {
	Record
	ID          string `json:"id"`
	SHA256      string `json:"sha256,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	FetchedAt   string `json:"fetched_at"`
	DocumentKey string `json:"document_key,omitempty"`
}

func (h *Harvester) archive(ctx context.Context, rec Record) error {
	folder := h.folder(rec)
	meta := decisionMeta{
		Record:    rec,
		ID:        DocumentID(rec.Title, rec.Link),
		FetchedAt: h.now().UTC().Format(time.RFC3339),
	}

	if strings.HasPrefix(rec.Link, "http") {
		data, contentType, err := h.download(ctx, rec.Link)
		if err != nil {
			h.logger.Warn("document download failed, archiving metadata only",
				"titulo", rec.Title, "error", err)
		} else {
			name := documentName(rec.Link, contentType)
			key := folder + "/" + name

			docMeta := map[string]string{
				"sha256":     fmt.Sprintf("%x", sha256.Sum256(data)),
				"size_bytes": strconv.Itoa(len(data)),
			}
			if _, err := h.store.Put(ctx, key, data, contentType, docMeta); err != nil {
				return fmt.Errorf("upload document: %w", err)
			}

			meta.SHA256 = docMeta["sha256"]
			meta.SizeBytes = int64(len(data))
			meta.DocumentKey = key

			h.logger.Info("document archived",
				"titulo", rec.Title,
				"size", formatting.FormatBytes(meta.SizeBytes, 1),
				"key", key)
		}
	}

	body, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if _, err := h.store.Put(ctx, folder+"/"+MetadataFile, body, "application/json; charset=utf-8", nil); err != nil {
		return fmt.Errorf("upload metadata: %w", err)
	}

	return nil
}

func (h *Harvester) download(ctx context.Context, link string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return data, contentType, nil
}

// folder builds the storage folder for a record: prefix/year/id-slug,
// with year falling back to sin-fecha when the record date is unusable.
func (h *Harvester) folder(rec Record) string {
	return fmt.Sprintf("%s/%s/%s-%s",
		h.prefix,
		formatting.Year(rec.Date),
		DocumentID(rec.Title, rec.Link),
		Slug(rec.Title))
}

// DocumentID derives a stable 16-hex identifier from a record's title
// and link.
func DocumentID(title, link string) string {
	sum := sha256.Sum256([]byte(title + "|" + link))
	return fmt.Sprintf("%x", sum)[:16]
}

// Slug turns a title into a storage-key-safe fragment: accent-folded,
// lowercased, non-alphanumeric runs collapsed to single hyphens, capped
// at SlugLimit runes of the original title. Empty titles yield
// "sin-titulo".
func Slug(title string) string {
	runes := []rune(title)
	if len(runes) > SlugLimit {
		title = string(runes[:SlugLimit])
	}
	title = strings.ToLower(textproc.FoldAccents(title))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return "sin-titulo"
	}
	return b.String()
}

// documentName derives a blob name for a downloaded document: the URL
// path basename when it carries an extension, else "documento" plus an
// extension guessed from the content type.
func documentName(link, contentType string) string {
	if u, err := url.Parse(link); err == nil {
		name := path.Base(u.Path)
		if name != "." && name != "/" && strings.Contains(name, ".") {
			return name
		}
	}
	return "documento" + extensionFor(contentType, link)
}

func extensionFor(contentType, link string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return ".pdf"
	case strings.Contains(ct, "html"):
		return ".html"
	case strings.Contains(ct, "text/plain"):
		return ".txt"
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}

	if strings.Contains(strings.ToLower(link), ".pdf") {
		return ".pdf"
	}
	return ".html"
}
