package marketplace

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"whop-automation/config"
	"whop-automation/models"
	"whop-automation/utils"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		WhopBaseURL:   server.URL,
		WhopAPIKey:    "test-key",
		WhopCompanyID: "co_123",
		LogsDir:       t.TempDir(),
	}
	client, err := New(cfg, utils.NewLoggerTo(io.Discard, io.Discard))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func ebookDoc() *models.ProductDocument {
	return &models.ProductDocument{
		Type:           models.TypeEbook,
		Title:          "T",
		Description:    "D",
		Tags:           []string{"PLR"},
		SuggestedPrice: 15,
		CreatedAt:      time.Now(),
		PLRRights:      true,
		MRRRights:      true,
		Chapters: []models.Chapter{
			{Title: "A", Content: "x"},
			{Title: "B", Content: "y"},
		},
	}
}

func TestCreateListingWirePayload(t *testing.T) {
	var received map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/co_123/products" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header: got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "p_1"})
	}))

	id, err := client.CreateListing(ebookDoc())
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}
	if id != "p_1" {
		t.Errorf("listing id: got %q, want %q", id, "p_1")
	}

	// suggested_price 15 whole units must cross the wire as 1500 cents
	if price, _ := received["price"].(float64); price != 1500 {
		t.Errorf("wire price: got %v, want 1500", received["price"])
	}
	if received["stock"].(float64) != -1 {
		t.Errorf("stock: got %v, want -1", received["stock"])
	}
	if received["category"] != "education" {
		t.Errorf("category: got %v, want education", received["category"])
	}

	metadata, ok := received["metadata"].(map[string]any)
	if !ok {
		t.Fatal("metadata missing from payload")
	}
	if metadata["auto_generated"] != true {
		t.Error("metadata.auto_generated must be true")
	}
	if chapters, _ := metadata["chapters"].(float64); chapters != 2 {
		t.Errorf("metadata.chapters: got %v, want 2", metadata["chapters"])
	}
}

func TestCreateListingFailureReturnsError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	if _, err := client.CreateListing(ebookDoc()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestUpdatePrice(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method: got %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/products/p_9" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		if body["price"] != 800 {
			t.Errorf("price: got %d, want 800", body["price"])
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.UpdatePrice("p_9", 800); err != nil {
		t.Fatalf("UpdatePrice: %v", err)
	}
}

func TestListListingsEmptyOnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	listings := client.ListListings()
	if listings == nil {
		t.Fatal("ListListings must never return nil")
	}
	if len(listings) != 0 {
		t.Errorf("got %d listings, want 0", len(listings))
	}
}

func TestListListingsDecodesData(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "p_1", "title": "One", "price": 1500,
					"metadata": map[string]any{"auto_generated": true}},
				{"id": "p_2", "title": "Two", "price": 900,
					"metadata": map[string]any{"auto_generated": false}},
			},
		})
	}))

	listings := client.ListListings()
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}
	if !listings[0].Metadata.AutoGenerated {
		t.Error("first listing should carry auto_generated marker")
	}
	if listings[1].Price != 900 {
		t.Errorf("second price: got %d, want 900", listings[1].Price)
	}
}

func TestAnalytics(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/p_1/analytics" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.Analytics{Views: 150, Purchases: 2, Revenue: 3000})
	}))

	analytics, err := client.Analytics("p_1")
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if analytics.Views != 150 || analytics.Purchases != 2 || analytics.Revenue != 3000 {
		t.Errorf("unexpected analytics: %+v", analytics)
	}
}

func TestRegisterWebhook(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/co_123/webhooks" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["active"] != true {
			t.Error("webhook must be registered active")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "wh_1"})
	}))

	id, err := client.RegisterWebhook("https://example.com/hook", []string{"purchase.created"})
	if err != nil {
		t.Fatalf("RegisterWebhook: %v", err)
	}
	if id != "wh_1" {
		t.Errorf("webhook id: got %q, want %q", id, "wh_1")
	}
}

func TestCategoryForTotal(t *testing.T) {
	tests := []struct {
		in   models.ProductType
		want string
	}{
		{models.TypeEbook, "education"},
		{models.TypeNotionTemplate, "productivity"},
		{models.TypeDigitalPlanner, "productivity"},
		{models.TypeEmailTemplates, "marketing"},
		{"course", "other"},
		{"", "other"},
	}

	for _, tt := range tests {
		if got := CategoryFor(tt.in); got != tt.want {
			t.Errorf("CategoryFor(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuditTrailAppends(t *testing.T) {
	dir := t.TempDir()
	audit, err := NewAuditLog(dir)
	if err != nil {
		t.Fatalf("NewAuditLog: %v", err)
	}
	audit.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	audit.Append("create_product", "success", map[string]any{"product_id": "p_1"})
	audit.Append("update_price", "error", map[string]any{"error": "boom"})

	f, err := os.Open(filepath.Join(dir, "whop_api_20260314.log"))
	if err != nil {
		t.Fatalf("open audit file: %v", err)
	}
	defer f.Close()

	var entries []auditEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e auditEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line not valid JSON: %v", err)
		}
		entries = append(entries, e)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d audit entries, want 2", len(entries))
	}
	if entries[0].Action != "create_product" || entries[0].Status != "success" {
		t.Errorf("first entry: %+v", entries[0])
	}
	if entries[1].Action != "update_price" || entries[1].Status != "error" {
		t.Errorf("second entry: %+v", entries[1])
	}
	if entries[0].RunID == "" || entries[0].RunID != entries[1].RunID {
		t.Error("entries from one run must share a run id")
	}
}
