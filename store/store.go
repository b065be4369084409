package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"whop-automation/models"
	"whop-automation/utils"
)

// uploadedDir is the subdirectory a document moves into once its
// listing exists on the marketplace, so a re-run of the batch uploader
// cannot create duplicate remote listings.
const uploadedDir = "uploaded"

// Store is a directory of product documents acting as a durable queue
// between generation and upload. One JSON file per product, each file
// self-describing. Single-writer: concurrent external writers to the
// same directory are unsupported.
type Store struct {
	dir    string
	logger *utils.Logger
}

// New creates the store directory (and its uploaded/ subdirectory) if
// needed and returns a ready-to-use Store.
func New(dir string, logger *utils.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, uploadedDir), 0755); err != nil {
		return nil, fmt.Errorf("store: create directory %q: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save writes the document as a new pending file and returns its path.
// Documents are immutable once written.
func (s *Store) Save(doc *models.ProductDocument) (string, error) {
	if !doc.Type.Known() {
		return "", fmt.Errorf("store: unknown product type %q", doc.Type)
	}

	name := fmt.Sprintf("%s_%s_%s.json",
		doc.Type, slugify(doc.Title), doc.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("store: marshal %q: %w", doc.Title, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("store: write %q: %w", path, err)
	}

	s.logger.Info("[store] Saved product: %s", name)
	return path, nil
}

// Pending enumerates every document file waiting for upload, in stable
// lexical order.
func (s *Store) Pending() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("store: list pending: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads one document back from disk. The type tag must be one of
// the known variants.
func (s *Store) Load(path string) (*models.ProductDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %q: %w", path, err)
	}

	var doc models.ProductDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", path, err)
	}
	if !doc.Type.Known() {
		return nil, fmt.Errorf("store: %q has unknown product type %q", path, doc.Type)
	}
	return &doc, nil
}

// MarkUploaded moves a document into the uploaded/ subdirectory so it
// is no longer enumerated as pending.
func (s *Store) MarkUploaded(path string) error {
	dest := filepath.Join(s.dir, uploadedDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("store: mark uploaded %q: %w", path, err)
	}
	return nil
}

// CountCreatedOn counts documents (pending and uploaded) whose
// filename timestamp falls on the given day.
func (s *Store) CountCreatedOn(day time.Time) int {
	stamp := day.Format("20060102")
	count := 0

	for _, dir := range []string{s.dir, filepath.Join(s.dir, uploadedDir)} {
		paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			continue
		}
		for _, p := range paths {
			if strings.Contains(filepath.Base(p), stamp) {
				count++
			}
		}
	}
	return count
}

// slugify lowercases a title and collapses it into a filename-safe token.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	out := b.String()
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if out == "" {
		return "untitled"
	}
	return out
}
