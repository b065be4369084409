package generator

import "fmt"

func ebookOutlinePrompt(topic, audience string) string {
	return fmt.Sprintf(`Create a detailed outline for a PLR ebook about "%s" targeting %s.

Include:
- Compelling title
- 8-12 chapter titles
- Brief description of each chapter
- Target word count (2000-5000 words)
- 3 bonus sections
- Call-to-action ideas

Format as JSON with keys: title, subtitle, chapters, target_words, bonus_sections, cta_ideas.
Each chapter is an object with keys: title, description.`, topic, audience)
}

func chapterPrompt(topic, audience, title, description string) string {
	return fmt.Sprintf(`Write a comprehensive chapter for a PLR ebook about "%s" targeting %s.

Chapter: %s
Description: %s

Requirements:
- 800-1200 words
- Actionable advice
- Professional tone
- Include examples
- Add bullet points and subheadings
- End with key takeaways

Make it valuable and engaging.`, topic, audience, title, description)
}

func notionPrompt(templateType, useCase string) string {
	return fmt.Sprintf(`Create a comprehensive Notion template for %s designed for %s.

Include:
- Template name and description
- Database structures with properties
- Page layouts and sections
- Formulas and automations
- Instructions for customization
- Use case examples

Make it professional and highly functional.
Format as JSON with keys: name, description, databases, pages, instructions.`, templateType, useCase)
}

func plannerPrompt(plannerType, period string) string {
	return fmt.Sprintf(`Create a comprehensive %s %s planner template.

Include:
- Cover design concepts
- Monthly/weekly/daily layouts
- Goal-setting sections
- Tracking pages
- Reflection prompts
- Customizable elements

Make it visually appealing and highly functional.
Format as JSON with keys: description, layouts, sections.`, period, plannerType)
}

func emailPrompt(kind, industry string) string {
	return fmt.Sprintf(`Create a high-converting %s email template for %s businesses.

Include:
- Compelling subject line
- Email body with personalization
- Clear call-to-action
- Mobile-optimized format

Make it professional and conversion-focused.`, kind, industry)
}

func descriptionPrompt(title, topic string) string {
	return fmt.Sprintf(`Write a compelling product description for a PLR digital product:

Title: %s
Topic: %s

Include:
- Hook that grabs attention
- Key benefits and features
- What's included in the package
- PLR/MRR rights explanation
- Call-to-action

Keep it under 200 words, sales-focused, and professional.`, title, topic)
}
