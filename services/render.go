package services

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"whop-automation/models"
)

const licenseNotice = "This product comes with Private Label Rights (PLR). " +
	"You may edit, rebrand, and resell this content."

// Renderer writes the deliverable files for an uploaded product into
// the output root, one subdirectory per remote listing id. Which files
// are produced depends on the product type.
type Renderer struct {
	outputDir string
}

// NewRenderer creates a Renderer rooted at outputDir.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Render dispatches on the document's type tag and writes its
// deliverables into outputDir/listingID. Every known variant has a
// handler; an unknown type is an error, never a silent skip.
func (r *Renderer) Render(doc *models.ProductDocument, listingID string) error {
	dir := filepath.Join(r.outputDir, listingID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("render: create output dir %q: %w", dir, err)
	}

	switch doc.Type {
	case models.TypeEbook:
		return r.renderEbook(doc, dir)
	case models.TypeNotionTemplate:
		return r.renderNotionTemplate(doc, dir)
	case models.TypeDigitalPlanner:
		return r.renderPlanner(doc, dir)
	case models.TypeEmailTemplates:
		return r.renderEmailTemplates(doc, dir)
	default:
		return fmt.Errorf("render: unknown product type %q", doc.Type)
	}
}

func (r *Renderer) renderEbook(doc *models.ProductDocument, dir string) error {
	files := map[string]string{
		"ebook.html": RenderEbookHTML(doc),
		"ebook.txt":  RenderEbookText(doc),
		"ebook.md":   RenderEbookMarkdown(doc),
	}
	for name, content := range files {
		if err := writeDeliverable(dir, name, content); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNotionTemplate(doc *models.ProductDocument, dir string) error {
	structure := string(doc.Structure)
	if structure == "" {
		structure = "{}"
	}
	if err := writeDeliverable(dir, "notion_structure.json", structure); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s - Setup Instructions\n\n", doc.Title)
	for i, instruction := range doc.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
	}
	return writeDeliverable(dir, "setup_instructions.md", b.String())
}

func (r *Renderer) renderPlanner(doc *models.ProductDocument, dir string) error {
	layouts := string(doc.Layouts)
	if layouts == "" {
		layouts = "{}"
	}
	if err := writeDeliverable(dir, "planner_layouts.json", layouts); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	b.WriteString("## How to Use This Planner\n\n")
	b.WriteString("This digital planner can be used with:\n")
	for _, format := range doc.Formats {
		fmt.Fprintf(&b, "- %s\n", format)
	}
	return writeDeliverable(dir, "planner_instructions.md", b.String())
}

func (r *Renderer) renderEmailTemplates(doc *models.ProductDocument, dir string) error {
	for i, tpl := range doc.Templates {
		var htmlBody strings.Builder
		fmt.Fprintf(&htmlBody, "<!DOCTYPE html>\n<html>\n<head>\n<title>%s</title>\n</head>\n<body>\n",
			html.EscapeString(tpl.SubjectLine))
		htmlBody.WriteString(strings.ReplaceAll(html.EscapeString(tpl.Content), "\n", "<br>\n"))
		htmlBody.WriteString("\n</body>\n</html>\n")

		htmlName := fmt.Sprintf("template_%d_%s.html", i+1, tpl.Kind)
		if err := writeDeliverable(dir, htmlName, htmlBody.String()); err != nil {
			return err
		}

		text := fmt.Sprintf("Subject: %s\n\n%s\n", tpl.SubjectLine, tpl.Content)
		textName := fmt.Sprintf("template_%d_%s.txt", i+1, tpl.Kind)
		if err := writeDeliverable(dir, textName, text); err != nil {
			return err
		}
	}
	return nil
}

func writeDeliverable(dir, name, content string) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("render: write %q: %w", path, err)
	}
	return nil
}

// RenderEbookHTML renders the HTML edition: title, optional subtitle,
// table of contents in chapter order, every chapter in order, and the
// trailing license notice.
func RenderEbookHTML(doc *models.ProductDocument) string {
	var b strings.Builder

	title := html.EscapeString(doc.Title)
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"UTF-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	b.WriteString(`<style>
body { font-family: Georgia, serif; line-height: 1.6; max-width: 800px; margin: 0 auto; padding: 20px; }
h1 { color: #333; border-bottom: 3px solid #007acc; padding-bottom: 10px; }
h2 { color: #555; margin-top: 30px; }
.subtitle { font-style: italic; color: #666; margin-bottom: 30px; }
.chapter { margin-bottom: 40px; page-break-after: always; }
.toc { background: #f9f9f9; padding: 20px; margin-bottom: 30px; }
.footer { text-align: center; margin-top: 50px; font-size: 0.9em; color: #666; }
</style>
`)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "<p class=\"subtitle\">%s</p>\n", html.EscapeString(doc.Subtitle))
	}

	b.WriteString("<div class=\"toc\">\n<h2>Table of Contents</h2>\n<ul>\n")
	for i, ch := range doc.Chapters {
		fmt.Fprintf(&b, "<li>Chapter %d: %s</li>\n", i+1, html.EscapeString(ch.Title))
	}
	b.WriteString("</ul>\n</div>\n")

	for i, ch := range doc.Chapters {
		fmt.Fprintf(&b, "<div class=\"chapter\">\n<h2>Chapter %d: %s</h2>\n<div>%s</div>\n</div>\n",
			i+1, html.EscapeString(ch.Title), html.EscapeString(ch.Content))
	}

	b.WriteString("<div class=\"footer\">\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", licenseNotice)
	b.WriteString("</div>\n</body>\n</html>\n")
	return b.String()
}

// RenderEbookText renders the plain-text edition with the same
// structural contract as the HTML one.
func RenderEbookText(doc *models.ProductDocument) string {
	var b strings.Builder

	b.WriteString(doc.Title + "\n")
	b.WriteString(strings.Repeat("=", len(doc.Title)) + "\n\n")
	if doc.Subtitle != "" {
		b.WriteString(doc.Subtitle + "\n\n")
	}

	b.WriteString("TABLE OF CONTENTS\n-----------------\n")
	for i, ch := range doc.Chapters {
		fmt.Fprintf(&b, "Chapter %d: %s\n", i+1, ch.Title)
	}
	b.WriteString("\n\n")

	for i, ch := range doc.Chapters {
		heading := fmt.Sprintf("Chapter %d: %s", i+1, ch.Title)
		b.WriteString(heading + "\n")
		b.WriteString(strings.Repeat("-", len(heading)) + "\n\n")
		b.WriteString(ch.Content + "\n\n")
	}

	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString(licenseNotice + "\n")
	return b.String()
}

// RenderEbookMarkdown renders the Markdown edition.
func RenderEbookMarkdown(doc *models.ProductDocument) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", doc.Subtitle)
	}

	b.WriteString("## Table of Contents\n\n")
	for i, ch := range doc.Chapters {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ch.Title)
	}
	b.WriteString("\n---\n\n")

	for i, ch := range doc.Chapters {
		fmt.Fprintf(&b, "## Chapter %d: %s\n\n", i+1, ch.Title)
		b.WriteString(ch.Content + "\n\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "**PLR License**: %s\n", licenseNotice)
	return b.String()
}
