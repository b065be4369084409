package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"whop-automation/models"
	"whop-automation/store"
	"whop-automation/utils"
)

type captureSink struct {
	runID   string
	results []models.UploadResult
	calls   int
}

func (c *captureSink) WriteResults(runID string, results []models.UploadResult) error {
	c.runID = runID
	c.results = results
	c.calls++
	return nil
}

func saveDoc(t *testing.T, st *store.Store, title string, offset time.Duration) string {
	t.Helper()
	doc := &models.ProductDocument{
		Type:           models.TypeEbook,
		Title:          title,
		SuggestedPrice: 15,
		CreatedAt:      time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC).Add(offset),
		Chapters:       []models.Chapter{{Title: "A", Content: "x"}},
	}
	path, err := st.Save(doc)
	if err != nil {
		t.Fatalf("Save %q: %v", title, err)
	}
	return path
}

func newTestUploader(t *testing.T, market Marketplace, sinks ...ResultSink) (*BatchUploader, string, string) {
	t.Helper()
	storeDir := t.TempDir()
	outDir := t.TempDir()
	st := newTestStoreIn(t, storeDir)
	u := NewBatchUploader(st, market, NewRenderer(outDir), utils.NewPacer(0), testLogger(), sinks...)
	return u, storeDir, outDir
}

func TestUploadEmptyStore(t *testing.T) {
	u, _, _ := newTestUploader(t, newFakeMarketplace())

	result := u.UploadPending()
	if result.Success != 0 || result.Failed != 0 {
		t.Errorf("empty store: got success=%d failed=%d, want zeros", result.Success, result.Failed)
	}
	if len(result.Products) != 0 {
		t.Errorf("empty store: got %d results, want 0", len(result.Products))
	}
}

func TestUploadCountsAcrossFailures(t *testing.T) {
	market := newFakeMarketplace()
	market.failTitles["Doomed One"] = true
	market.failTitles["Doomed Two"] = true

	sink := &captureSink{}
	u, storeDir, _ := newTestUploader(t, market, sink)
	st := newTestStoreIn(t, storeDir)

	titles := []string{"Alpha", "Doomed One", "Bravo", "Doomed Two", "Charlie"}
	for i, title := range titles {
		saveDoc(t, st, title, time.Duration(i)*time.Minute)
	}

	result := u.UploadPending()
	if result.Success != 3 {
		t.Errorf("success: got %d, want 3", result.Success)
	}
	if result.Failed != 2 {
		t.Errorf("failed: got %d, want 2", result.Failed)
	}
	if len(result.Products) != 5 {
		t.Errorf("result list: got %d entries, want 5", len(result.Products))
	}

	if sink.calls != 1 {
		t.Fatalf("sink calls: got %d, want 1", sink.calls)
	}
	if sink.runID == "" {
		t.Error("sink should receive a run id")
	}
	if len(sink.results) != 5 {
		t.Errorf("sink results: got %d, want 5", len(sink.results))
	}
}

func TestUploadMalformedDocumentSkipped(t *testing.T) {
	market := newFakeMarketplace()
	u, storeDir, _ := newTestUploader(t, market)
	st := newTestStoreIn(t, storeDir)

	saveDoc(t, st, "Good", 0)
	bad := filepath.Join(storeDir, "ebook_zz_broken_20260314_090000.json")
	if err := os.WriteFile(bad, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := u.UploadPending()
	if result.Success != 1 || result.Failed != 1 {
		t.Errorf("got success=%d failed=%d, want 1/1", result.Success, result.Failed)
	}
}

func TestUploadRendersDeliverablesForSuccess(t *testing.T) {
	market := newFakeMarketplace()
	u, storeDir, outDir := newTestUploader(t, market)
	st := newTestStoreIn(t, storeDir)
	saveDoc(t, st, "Alpha", 0)

	result := u.UploadPending()
	if result.Success != 1 {
		t.Fatalf("success: got %d, want 1", result.Success)
	}

	listingID := result.Products[0].ListingID
	if listingID == "" {
		t.Fatal("successful result must carry the assigned listing id")
	}
	if _, err := os.Stat(filepath.Join(outDir, listingID, "ebook.html")); err != nil {
		t.Errorf("deliverable not rendered under listing id: %v", err)
	}
}

func TestUploadMarksDocumentsUploaded(t *testing.T) {
	market := newFakeMarketplace()
	market.failTitles["Doomed"] = true

	u, storeDir, _ := newTestUploader(t, market)
	st := newTestStoreIn(t, storeDir)
	saveDoc(t, st, "Alpha", 0)
	saveDoc(t, st, "Doomed", time.Minute)

	u.UploadPending()

	pending, err := st.Pending()
	if err != nil {
		t.Fatalf("Pending: %v", err)
	}
	// the failed document stays queued for the next run
	if len(pending) != 1 {
		t.Fatalf("pending after upload: got %d, want 1", len(pending))
	}

	second := u.UploadPending()
	if second.Success != 0 || second.Failed != 1 {
		t.Errorf("re-run must not duplicate uploads: got success=%d failed=%d",
			second.Success, second.Failed)
	}
}
