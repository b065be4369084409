package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"whop-automation/config"
	"whop-automation/models"
	"whop-automation/store"
	"whop-automation/utils"
)

// ChatClient is the slice of the OpenAI client the generator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator turns (topic, audience, product-type) tuples into product
// documents by prompting a generative text service and assembling the
// results. Every generated document is persisted to the store before
// being returned.
type Generator struct {
	client ChatClient
	store  *store.Store
	logger *utils.Logger
	now    func() time.Time
}

// New creates a Generator backed by the OpenAI API.
func New(cfg *config.Config, st *store.Store, logger *utils.Logger) *Generator {
	return NewWithClient(openai.NewClient(cfg.OpenAIKey), st, logger)
}

// NewWithClient creates a Generator with an explicit chat client.
func NewWithClient(client ChatClient, st *store.Store, logger *utils.Logger) *Generator {
	return &Generator{client: client, store: st, logger: logger, now: time.Now}
}

// GenerateEbook produces a complete ebook document: outline first, then
// one content call per chapter. A malformed outline aborts this single
// generation with ErrMalformedResponse; a failed chapter call degrades
// to placeholder content so one flaky call does not waste the outline.
func (g *Generator) GenerateEbook(ctx context.Context, topic, audience string) (*models.ProductDocument, error) {
	g.logger.Info("[generator] Generating ebook: %s", topic)

	outlineRaw, err := g.complete(ctx, openai.GPT4, 0.7, 0, ebookOutlinePrompt(topic, audience))
	if err != nil {
		return nil, fmt.Errorf("generator: ebook outline for %q: %w", topic, err)
	}

	outline, err := parseOutline(outlineRaw)
	if err != nil {
		g.logger.Warn("[generator] Outline for %q unparseable: %v", topic, err)
		return nil, err
	}

	chapters := make([]models.Chapter, 0, len(outline.Chapters))
	wordCount := 0
	for _, ch := range outline.Chapters {
		content, err := g.complete(ctx, openai.GPT3Dot5Turbo, 0.7, 1500,
			chapterPrompt(topic, audience, ch.Title, ch.Description))
		if err != nil {
			g.logger.Error("[generator] Chapter %q failed: %v", ch.Title, err)
			content = fmt.Sprintf("Chapter content for %s - [Content generation failed]", ch.Title)
		}
		chapters = append(chapters, models.Chapter{Title: ch.Title, Content: content})
		wordCount += len(strings.Fields(content))
	}

	doc := &models.ProductDocument{
		Type:           models.TypeEbook,
		Title:          outline.Title,
		Subtitle:       outline.Subtitle,
		Topic:          topic,
		TargetAudience: audience,
		Chapters:       chapters,
		BonusSections:  outline.BonusSections,
		WordCount:      wordCount,
		CreatedAt:      g.now(),
		PLRRights:      true,
		MRRRights:      true,
		SuggestedPrice: SuggestPrice(models.TypeEbook, len(chapters)),
		Tags:           DeriveTags(topic),
		Description:    g.describe(ctx, outline.Title, topic),
	}

	if _, err := g.store.Save(doc); err != nil {
		return nil, err
	}
	g.logger.Info("[generator] Ebook generated: %s (%d chapters, %d words)",
		doc.Title, len(doc.Chapters), doc.WordCount)
	return doc, nil
}

// GenerateNotionTemplate produces a Notion template document. The
// model's whole response is kept as the structure blob; name,
// description, and setup instructions are lifted out of it.
func (g *Generator) GenerateNotionTemplate(ctx context.Context, templateType, useCase string) (*models.ProductDocument, error) {
	g.logger.Info("[generator] Generating Notion template: %s for %s", templateType, useCase)

	raw, err := g.complete(ctx, openai.GPT4, 0.6, 0, notionPrompt(templateType, useCase))
	if err != nil {
		return nil, fmt.Errorf("generator: notion template %q: %w", templateType, err)
	}

	tpl, structure, err := parseNotionTemplate(raw)
	if err != nil {
		g.logger.Warn("[generator] Notion template %q unparseable: %v", templateType, err)
		return nil, err
	}

	name := tpl.Name
	if name == "" {
		name = fmt.Sprintf("%s Template", titleCase(templateType))
	}

	doc := &models.ProductDocument{
		Type:           models.TypeNotionTemplate,
		Title:          name,
		Description:    tpl.Description,
		TemplateType:   templateType,
		UseCase:        useCase,
		Structure:      structure,
		Instructions:   tpl.Instructions,
		CreatedAt:      g.now(),
		PLRRights:      true,
		SuggestedPrice: SuggestPrice(models.TypeNotionTemplate, 1),
		Tags:           DeriveTags(templateType + " " + useCase),
	}

	if _, err := g.store.Save(doc); err != nil {
		return nil, err
	}
	g.logger.Info("[generator] Notion template generated: %s", doc.Title)
	return doc, nil
}

// GeneratePlanner produces a digital planner document for the given
// planner type and period (daily/weekly/monthly).
func (g *Generator) GeneratePlanner(ctx context.Context, plannerType, period string) (*models.ProductDocument, error) {
	g.logger.Info("[generator] Generating %s %s planner", period, plannerType)

	raw, err := g.complete(ctx, openai.GPT4, 0.6, 0, plannerPrompt(plannerType, period))
	if err != nil {
		return nil, fmt.Errorf("generator: planner %q: %w", plannerType, err)
	}

	description, layouts, err := parsePlanner(raw)
	if err != nil {
		g.logger.Warn("[generator] Planner %q unparseable: %v", plannerType, err)
		return nil, err
	}

	doc := &models.ProductDocument{
		Type:           models.TypeDigitalPlanner,
		Title:          fmt.Sprintf("%s %s Planner", titleCase(period), titleCase(plannerType)),
		Description:    description,
		PlannerType:    plannerType,
		Period:         period,
		Layouts:        layouts,
		Formats:        []string{"PDF", "PNG", "Notion", "GoodNotes"},
		CreatedAt:      g.now(),
		PLRRights:      true,
		SuggestedPrice: SuggestPrice(models.TypeDigitalPlanner, 1),
		Tags:           DeriveTags(fmt.Sprintf("%s planner %s", plannerType, period)),
	}

	if _, err := g.store.Save(doc); err != nil {
		return nil, err
	}
	g.logger.Info("[generator] Planner generated: %s", doc.Title)
	return doc, nil
}

// emailTemplateKinds rotate across the templates of one pack.
var emailTemplateKinds = []string{
	"welcome_series", "sales_sequence", "nurture_campaign",
	"abandoned_cart", "promotional", "newsletter", "follow_up",
	"onboarding", "feedback_request", "seasonal_campaign",
}

// GenerateEmailTemplates produces a pack of count email templates for
// the given industry. Individual failed template calls are skipped; the
// pack is only an error when every template failed.
func (g *Generator) GenerateEmailTemplates(ctx context.Context, industry string, count int) (*models.ProductDocument, error) {
	g.logger.Info("[generator] Generating %d email templates for %s", count, industry)

	templates := make([]models.EmailTemplate, 0, count)
	for i := 0; i < count; i++ {
		kind := emailTemplateKinds[i%len(emailTemplateKinds)]

		content, err := g.complete(ctx, openai.GPT4, 0.7, 0, emailPrompt(kind, industry))
		if err != nil {
			g.logger.Error("[generator] Email template %d (%s) failed: %v", i+1, kind, err)
			continue
		}

		templates = append(templates, models.EmailTemplate{
			Kind:                  kind,
			SubjectLine:           ExtractSubjectLine(content),
			Content:               content,
			CTA:                   ExtractCTA(content),
			PersonalizationFields: []string{"[FIRST_NAME]", "[COMPANY]", "[PRODUCT]"},
		})
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("generator: all %d email templates for %q failed", count, industry)
	}

	doc := &models.ProductDocument{
		Type:           models.TypeEmailTemplates,
		Title:          fmt.Sprintf("%s Email Templates Pack", titleCase(industry)),
		Description:    fmt.Sprintf("Collection of %d high-converting email templates for %s businesses, with full PLR rights.", len(templates), industry),
		Industry:       industry,
		Templates:      templates,
		Formats:        []string{"HTML", "Plain Text", "Mailchimp", "ConvertKit"},
		CreatedAt:      g.now(),
		PLRRights:      true,
		SuggestedPrice: SuggestPrice(models.TypeEmailTemplates, len(templates)),
		Tags:           DeriveTags("email templates " + industry),
	}

	if _, err := g.store.Save(doc); err != nil {
		return nil, err
	}
	g.logger.Info("[generator] Email template pack generated: %s (%d templates)",
		doc.Title, len(doc.Templates))
	return doc, nil
}

// describe asks the model for a marketplace description, falling back
// to a canned one so a description failure never blocks a product.
func (g *Generator) describe(ctx context.Context, title, topic string) string {
	description, err := g.complete(ctx, openai.GPT3Dot5Turbo, 0.8, 300, descriptionPrompt(title, topic))
	if err != nil {
		g.logger.Warn("[generator] Description for %q failed, using fallback: %v", title, err)
		return fmt.Sprintf("Professional PLR digital product about %s. Includes full resell rights and ready-to-use content.", topic)
	}
	return description
}

func (g *Generator) complete(ctx context.Context, model string, temperature float32, maxTokens int, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
