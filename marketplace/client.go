package marketplace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"whop-automation/config"
	"whop-automation/models"
	"whop-automation/utils"
)

// Client wraps the Whop marketplace REST API. All operations are
// synchronous blocking calls with no built-in retry: a failure is
// logged, written to the audit trail, and surfaced to the caller as an
// error (or an empty slice for ListListings), never as a panic.
type Client struct {
	baseURL   string
	apiKey    string
	companyID string

	http   *http.Client
	logger *utils.Logger
	audit  *AuditLog
}

// New creates a marketplace client from the application config.
func New(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	audit, err := NewAuditLog(cfg.LogsDir)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:   cfg.WhopBaseURL,
		apiKey:    cfg.WhopAPIKey,
		companyID: cfg.WhopCompanyID,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    logger,
		audit:     audit,
	}, nil
}

// CreateListing serializes a product document into the marketplace
// schema and creates a listing. This is the single point where the
// whole-unit suggested price becomes minor units on the wire.
func (c *Client) CreateListing(doc *models.ProductDocument) (string, error) {
	c.logger.Info("[whop] Creating listing: %s", doc.Title)

	payload := formatListing(doc)

	var created struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/companies/%s/products", c.baseURL, c.companyID)
	if err := c.postJSON(url, payload, &created); err != nil {
		c.logger.Error("[whop] Create listing failed for %q: %v", doc.Title, err)
		c.audit.Append("create_product", "error", map[string]any{
			"title": doc.Title,
			"error": err.Error(),
		})
		return "", err
	}

	c.logger.Info("[whop] Listing created — id: %s", created.ID)
	c.audit.Append("create_product", "success", map[string]any{
		"product_id": created.ID,
		"title":      doc.Title,
		"price":      payload.Price,
	})
	return created.ID, nil
}

// CreateMembership creates a subscription product directly against the
// marketplace schema.
func (c *Client) CreateMembership(m *models.Membership) (string, error) {
	c.logger.Info("[whop] Creating membership: %s", m.Title)

	payload := formatMembership(m)

	var created struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/companies/%s/products", c.baseURL, c.companyID)
	if err := c.postJSON(url, payload, &created); err != nil {
		c.logger.Error("[whop] Create membership failed for %q: %v", m.Title, err)
		return "", err
	}

	c.logger.Info("[whop] Membership created — id: %s", created.ID)
	return created.ID, nil
}

// UpdatePrice changes a listing's price. The new price is already in
// minor units because it derives from the listing's wire price.
func (c *Client) UpdatePrice(listingID string, priceCents int) error {
	c.logger.Info("[whop] Updating price for %s to %d cents", listingID, priceCents)

	url := fmt.Sprintf("%s/products/%s", c.baseURL, listingID)
	err := c.patchJSON(url, map[string]int{"price": priceCents})
	if err != nil {
		c.logger.Error("[whop] Price update failed for %s: %v", listingID, err)
		c.audit.Append("update_price", "error", map[string]any{
			"product_id": listingID,
			"error":      err.Error(),
		})
		return err
	}

	c.audit.Append("update_price", "success", map[string]any{
		"product_id": listingID,
		"new_price":  priceCents,
	})
	return nil
}

// Analytics fetches the view/purchase/revenue counters for one listing.
func (c *Client) Analytics(listingID string) (*models.Analytics, error) {
	var analytics models.Analytics
	url := fmt.Sprintf("%s/products/%s/analytics", c.baseURL, listingID)
	if err := c.getJSON(url, &analytics); err != nil {
		c.logger.Error("[whop] Analytics fetch failed for %s: %v", listingID, err)
		return nil, err
	}
	return &analytics, nil
}

// ListListings returns every listing on the company account. On any
// failure it logs and returns an empty slice, so callers iterate
// unconditionally.
func (c *Client) ListListings() []models.Listing {
	var response struct {
		Data []models.Listing `json:"data"`
	}
	url := fmt.Sprintf("%s/companies/%s/products", c.baseURL, c.companyID)
	if err := c.getJSON(url, &response); err != nil {
		c.logger.Error("[whop] List listings failed: %v", err)
		return []models.Listing{}
	}
	if response.Data == nil {
		return []models.Listing{}
	}
	return response.Data
}

// RegisterWebhook registers a webhook endpoint for the given events and
// returns the assigned webhook id.
func (c *Client) RegisterWebhook(webhookURL string, events []string) (string, error) {
	c.logger.Info("[whop] Registering webhook: %s", webhookURL)

	payload := map[string]any{
		"url":    webhookURL,
		"events": events,
		"active": true,
	}

	var created struct {
		ID string `json:"id"`
	}
	url := fmt.Sprintf("%s/companies/%s/webhooks", c.baseURL, c.companyID)
	if err := c.postJSON(url, payload, &created); err != nil {
		c.logger.Error("[whop] Webhook registration failed: %v", err)
		return "", err
	}

	c.logger.Info("[whop] Webhook registered — id: %s", created.ID)
	return created.ID, nil
}

// UploadAsset uploads a deliverable file to a listing for download
// delivery and returns the assigned asset id.
func (c *Client) UploadAsset(filePath, listingID string) (string, error) {
	c.logger.Info("[whop] Uploading asset %s for listing %s", filepath.Base(filePath), listingID)

	file, err := os.Open(filePath)
	if err != nil {
		c.logger.Error("[whop] Asset open failed: %v", err)
		return "", fmt.Errorf("whop: open asset %q: %w", filePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("whop: build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("whop: read asset %q: %w", filePath, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("whop: finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/products/%s/assets", c.baseURL, listingID)
	req, err := http.NewRequest(http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("whop: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &created); err != nil {
		c.logger.Error("[whop] Asset upload failed: %v", err)
		return "", err
	}

	c.audit.Append("upload_asset", "success", map[string]any{
		"product_id": listingID,
		"asset_id":   created.ID,
		"file_path":  filePath,
	})
	return created.ID, nil
}

func (c *Client) getJSON(url string, out any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("whop: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return c.do(req, out)
}

func (c *Client) postJSON(url string, payload, out any) error {
	return c.sendJSON(http.MethodPost, url, payload, out)
}

func (c *Client) patchJSON(url string, payload any) error {
	return c.sendJSON(http.MethodPatch, url, payload, nil)
}

func (c *Client) sendJSON(method, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whop: encode payload: %w", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("whop: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whop: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("whop: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whop: %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, truncateBody(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("whop: decode response: %w", err)
		}
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
