package store

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"whop-automation/models"
	"whop-automation/utils"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), utils.NewLoggerTo(io.Discard, io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func sampleEbook() *models.ProductDocument {
	return &models.ProductDocument{
		Type:           models.TypeEbook,
		Title:          "Productivity Hacks",
		Description:    "A guide",
		Tags:           []string{"productivity", "PLR"},
		SuggestedPrice: 15,
		CreatedAt:      time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		PLRRights:      true,
		MRRRights:      true,
		Chapters: []models.Chapter{
			{Title: "Getting Started", Content: "First do this."},
			{Title: "Going Deeper", Content: "Then do that."},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	doc := sampleEbook()
	path, err := s.Save(doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Type != doc.Type {
		t.Errorf("Type: got %q, want %q", got.Type, doc.Type)
	}
	if got.Title != doc.Title {
		t.Errorf("Title: got %q, want %q", got.Title, doc.Title)
	}
	if got.SuggestedPrice != doc.SuggestedPrice {
		t.Errorf("SuggestedPrice: got %d, want %d", got.SuggestedPrice, doc.SuggestedPrice)
	}
	if len(got.Chapters) != len(doc.Chapters) {
		t.Fatalf("Chapters: got %d, want %d", len(got.Chapters), len(doc.Chapters))
	}
	for i := range doc.Chapters {
		if got.Chapters[i] != doc.Chapters[i] {
			t.Errorf("Chapter %d: got %+v, want %+v", i, got.Chapters[i], doc.Chapters[i])
		}
	}
}

func TestSaveRejectsUnknownType(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save(&models.ProductDocument{Type: "mystery", Title: "X", CreatedAt: time.Now()})
	if err == nil {
		t.Fatal("expected error for unknown product type")
	}
}

func TestPendingStableOrder(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	titles := []string{"Charlie", "Alpha", "Bravo"}
	for i, title := range titles {
		doc := sampleEbook()
		doc.Title = title
		doc.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := s.Save(doc); err != nil {
			t.Fatalf("Save %q: %v", title, err)
		}
	}

	first, err := s.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("Pending: got %d paths, want 3", len(first))
	}

	second, _ := s.Pending()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("enumeration not stable at %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestMarkUploadedRemovesFromPending(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Save(sampleEbook())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.MarkUploaded(path); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}

	pending, err := s.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending documents after MarkUploaded, got %d", len(pending))
	}
}

func TestCountCreatedOnIncludesUploaded(t *testing.T) {
	s := newTestStore(t)

	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	a := sampleEbook()
	a.CreatedAt = day
	pathA, _ := s.Save(a)

	b := sampleEbook()
	b.Title = "Second"
	b.CreatedAt = day.Add(time.Hour)
	if _, err := s.Save(b); err != nil {
		t.Fatalf("Save: %v", err)
	}

	c := sampleEbook()
	c.Title = "Other Day"
	c.CreatedAt = day.AddDate(0, 0, 1)
	if _, err := s.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.MarkUploaded(pathA); err != nil {
		t.Fatalf("MarkUploaded: %v", err)
	}

	if got := s.CountCreatedOn(day); got != 2 {
		t.Errorf("CountCreatedOn: got %d, want 2", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	s := newTestStore(t)

	bad := filepath.Join(s.Dir(), "ebook_broken_20260314_090000.json")
	if err := writeFile(bad, "{not json"); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.Load(bad); err == nil {
		t.Fatal("expected decode error for malformed file")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Productivity Hacks", "productivity_hacks"},
		{"  Spaced   Out  ", "spaced_out"},
		{"Social Media Marketing — 2026!", "social_media_marketing_2026"},
		{"", "untitled"},
	}

	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
