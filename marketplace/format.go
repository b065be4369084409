package marketplace

import (
	"whop-automation/models"
)

const createdBy = "whop_automation"

// listingPayload is the marketplace's product-creation schema. Price is
// in minor currency units.
type listingPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       int            `json:"price"`
	Type        string         `json:"type"`
	Visibility  string         `json:"visibility"`
	Stock       int            `json:"stock"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`

	BillingPeriod string `json:"billing_period,omitempty"`
}

// formatListing converts a product document into the marketplace
// schema: one-time purchase, public, unlimited stock, category from the
// fixed type table, and a metadata map that always carries the
// auto_generated marker.
func formatListing(doc *models.ProductDocument) *listingPayload {
	metadata := map[string]any{
		"auto_generated": true,
		"product_type":   string(doc.Type),
		"plr_rights":     doc.PLRRights,
		"mrr_rights":     doc.MRRRights,
		"created_by":     createdBy,
		"word_count":     doc.WordCount,
	}

	switch doc.Type {
	case models.TypeEbook:
		metadata["chapters"] = len(doc.Chapters)
		metadata["formats"] = []string{"PDF", "EPUB", "DOCX"}
	case models.TypeNotionTemplate:
		metadata["template_type"] = doc.TemplateType
		metadata["use_case"] = doc.UseCase
	case models.TypeDigitalPlanner:
		metadata["planner_type"] = doc.PlannerType
		metadata["period"] = doc.Period
		metadata["formats"] = doc.Formats
	case models.TypeEmailTemplates:
		metadata["industry"] = doc.Industry
		metadata["template_count"] = len(doc.Templates)
	}

	return &listingPayload{
		Title:       doc.Title,
		Description: doc.Description,
		Price:       doc.SuggestedPrice * 100, // whole units → cents, converted exactly here
		Type:        "one_time",
		Visibility:  "public",
		Stock:       -1,
		Category:    CategoryFor(doc.Type),
		Tags:        doc.Tags,
		Metadata:    metadata,
	}
}

// formatMembership builds the subscription variant of the product
// schema. Membership prices are authored in minor units already.
func formatMembership(m *models.Membership) *listingPayload {
	billing := m.BillingPeriod
	if billing == "" {
		billing = "monthly"
	}

	return &listingPayload{
		Title:         m.Title,
		Description:   m.Description,
		Price:         m.PriceCents,
		Type:          "subscription",
		BillingPeriod: billing,
		Visibility:    "public",
		Stock:         -1,
		Category:      "community",
		Metadata: map[string]any{
			"auto_generated": true,
			"product_type":   "membership",
			"created_by":     createdBy,
		},
	}
}

var categories = map[models.ProductType]string{
	models.TypeEbook:          "education",
	models.TypeNotionTemplate: "productivity",
	models.TypeDigitalPlanner: "productivity",
	models.TypeEmailTemplates: "marketing",
}

// CategoryFor maps a product type to its marketplace category. The
// mapping is total: unknown types fall back to "other".
func CategoryFor(t models.ProductType) string {
	if category, ok := categories[t]; ok {
		return category
	}
	return "other"
}
