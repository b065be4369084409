package models

import (
	"encoding/json"
	"time"
)

// ProductType is the closed set of product variants the pipeline can
// generate, render, and upload. Unknown values only ever appear when a
// store file was written by hand; they are rejected at load time.
type ProductType string

const (
	TypeEbook          ProductType = "ebook"
	TypeNotionTemplate ProductType = "notion_template"
	TypeDigitalPlanner ProductType = "digital_planner"
	TypeEmailTemplates ProductType = "email_templates"
)

// ProductTypes lists every known variant, in a stable order.
var ProductTypes = []ProductType{
	TypeEbook, TypeNotionTemplate, TypeDigitalPlanner, TypeEmailTemplates,
}

// Known reports whether t is one of the four supported product types.
func (t ProductType) Known() bool {
	switch t {
	case TypeEbook, TypeNotionTemplate, TypeDigitalPlanner, TypeEmailTemplates:
		return true
	}
	return false
}

// Chapter is one ordered section of an ebook.
type Chapter struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// EmailTemplate is one message in an email template pack.
type EmailTemplate struct {
	Kind                  string   `json:"type"`
	SubjectLine           string   `json:"subject_line"`
	Content               string   `json:"content"`
	CTA                   string   `json:"cta"`
	PersonalizationFields []string `json:"personalization_fields"`
}

// ProductDocument is the unit of work flowing through the pipeline:
// written once by the generator, read once by the batch uploader.
// Each store file is self-describing: the Type tag selects which of
// the variant payload fields below are populated.
//
// SuggestedPrice is in whole currency units; conversion to minor units
// happens exactly once, inside the marketplace client.
type ProductDocument struct {
	Type           ProductType `json:"type"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle,omitempty"`
	Description    string      `json:"description"`
	Topic          string      `json:"topic,omitempty"`
	TargetAudience string      `json:"target_audience,omitempty"`
	Tags           []string    `json:"tags"`
	SuggestedPrice int         `json:"suggested_price"`
	WordCount      int         `json:"word_count,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	PLRRights      bool        `json:"plr_rights"`
	MRRRights      bool        `json:"mrr_rights"`

	// ebook payload
	Chapters      []Chapter `json:"chapters,omitempty"`
	BonusSections []string  `json:"bonus_sections,omitempty"`

	// notion_template payload
	TemplateType string          `json:"template_type,omitempty"`
	UseCase      string          `json:"use_case,omitempty"`
	Structure    json.RawMessage `json:"structure,omitempty"`
	Instructions []string        `json:"instructions,omitempty"`

	// digital_planner payload
	PlannerType string          `json:"planner_type,omitempty"`
	Period      string          `json:"period,omitempty"`
	Layouts     json.RawMessage `json:"layouts,omitempty"`
	Formats     []string        `json:"formats,omitempty"`

	// email_templates payload
	Industry  string          `json:"industry,omitempty"`
	Templates []EmailTemplate `json:"templates,omitempty"`
}

// ListingMetadata is the marker block this system stamps on every
// listing it creates. AutoGenerated is how the optimizer and reporter
// tell the pipeline's own listings apart from the rest of the account.
type ListingMetadata struct {
	AutoGenerated bool   `json:"auto_generated"`
	ProductType   string `json:"product_type,omitempty"`
	PLRRights     bool   `json:"plr_rights,omitempty"`
	MRRRights     bool   `json:"mrr_rights,omitempty"`
	CreatedBy     string `json:"created_by,omitempty"`
}

// Listing is the marketplace's server-side representation of a product.
// Price is in minor currency units (cents), never whole units.
type Listing struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    int             `json:"price"`
	Metadata ListingMetadata `json:"metadata"`
}

// Analytics are the per-listing counters the marketplace tracks.
// Revenue is in minor currency units.
type Analytics struct {
	Views     int `json:"views"`
	Purchases int `json:"purchases"`
	Revenue   int `json:"revenue"`
}

// Membership describes a subscription product. Price is already in
// minor units because memberships are authored directly against the
// marketplace schema, not generated through the document pipeline.
type Membership struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PriceCents    int    `json:"price"`
	BillingPeriod string `json:"billing_period"`
}

// Upload result statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// UploadResult records the outcome for a single document in a batch run.
type UploadResult struct {
	Title     string `json:"title"`
	ListingID string `json:"whop_id,omitempty"`
	Status    string `json:"status"`
}

// BatchResult aggregates one batch-upload invocation.
type BatchResult struct {
	Success  int            `json:"success"`
	Failed   int            `json:"failed"`
	Products []UploadResult `json:"products"`
}

// DailyReport is the once-per-day performance snapshot. Revenue and
// average price are converted back to whole currency units.
type DailyReport struct {
	Date           string  `json:"date"`
	TotalProducts  int     `json:"total_products"`
	TotalSales     int     `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	AveragePrice   float64 `json:"average_price"`
	GeneratedToday int     `json:"generated_today"`
}

// PerformanceSummary is the on-demand console summary, extrapolated
// from a sample of the tracked listings.
type PerformanceSummary struct {
	TotalProducts    int       `json:"total_products"`
	EstimatedSales   float64   `json:"estimated_sales"`
	EstimatedRevenue float64   `json:"estimated_revenue"`
	LastUpdated      time.Time `json:"last_updated"`
}
