package generator

import (
	"strings"

	"whop-automation/models"
)

var basePrices = map[models.ProductType]int{
	models.TypeEbook:          15,
	models.TypeNotionTemplate: 25,
	models.TypeDigitalPlanner: 20,
	models.TypeEmailTemplates: 3, // per template
}

// SuggestPrice returns the whole-unit suggested price for a product
// type and quantity (chapters or templates). Email packs price per
// template; other comprehensive products (more than 5 sections) get a
// 1.5x value multiplier.
func SuggestPrice(t models.ProductType, quantity int) int {
	base, ok := basePrices[t]
	if !ok {
		base = 20
	}

	if t == models.TypeEmailTemplates {
		return base * quantity
	}
	if quantity > 5 {
		return base * 3 / 2
	}
	return base
}

var tagCategories = []struct {
	keywords []string
	tags     []string
}{
	{[]string{"business"}, []string{"business", "entrepreneur", "startup"}},
	{[]string{"productivity"}, []string{"productivity", "organization", "planning"}},
	{[]string{"health", "wellness"}, []string{"health", "wellness", "fitness"}},
	{[]string{"finance", "money"}, []string{"finance", "money", "investing"}},
	{[]string{"social", "media"}, []string{"social media", "content", "marketing"}},
	{[]string{"real", "estate"}, []string{"real estate", "property", "investing"}},
}

var genericTags = []string{"PLR", "MRR", "digital product", "template", "instant download"}

// DeriveTags derives up to 10 SEO tags from topic text: the first
// three tags of every matching keyword category, then the generic
// resell-rights tags, deduplicated in insertion order.
func DeriveTags(content string) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]struct{})
	tags := make([]string, 0, 10)

	add := func(tag string) {
		if len(tags) >= 10 {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, cat := range tagCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				for _, tag := range cat.tags {
					add(tag)
				}
				break
			}
		}
	}
	for _, tag := range genericTags {
		add(tag)
	}
	return tags
}
