package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks a generative response that did not decode
// into the expected shape. The single generation attempt is abandoned;
// the surrounding batch continues.
var ErrMalformedResponse = errors.New("malformed generative response")

// ebookOutline is the schema the outline prompt asks the model for.
type ebookOutline struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Chapters []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"chapters"`
	TargetWords   int      `json:"target_words"`
	BonusSections []string `json:"bonus_sections"`
	CTAIdeas      []string `json:"cta_ideas"`
}

// parseOutline decodes and validates an ebook outline response.
func parseOutline(raw string) (*ebookOutline, error) {
	var outline ebookOutline
	if err := json.Unmarshal([]byte(stripFences(raw)), &outline); err != nil {
		return nil, fmt.Errorf("%w: outline: %v", ErrMalformedResponse, err)
	}
	if outline.Title == "" {
		return nil, fmt.Errorf("%w: outline missing title", ErrMalformedResponse)
	}
	if len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("%w: outline has no chapters", ErrMalformedResponse)
	}
	for i, ch := range outline.Chapters {
		if ch.Title == "" {
			return nil, fmt.Errorf("%w: chapter %d missing title", ErrMalformedResponse, i+1)
		}
	}
	return &outline, nil
}

// notionTemplate holds the fields lifted out of a Notion template
// response; the full JSON blob is preserved separately as the structure.
type notionTemplate struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Instructions []string `json:"instructions"`
}

func parseNotionTemplate(raw string) (*notionTemplate, json.RawMessage, error) {
	cleaned := stripFences(raw)

	var tpl notionTemplate
	if err := json.Unmarshal([]byte(cleaned), &tpl); err != nil {
		return nil, nil, fmt.Errorf("%w: notion template: %v", ErrMalformedResponse, err)
	}
	return &tpl, json.RawMessage(cleaned), nil
}

// parsePlanner validates a planner response and returns its description
// plus the full layout blob.
func parsePlanner(raw string) (string, json.RawMessage, error) {
	cleaned := stripFences(raw)

	var planner struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal([]byte(cleaned), &planner); err != nil {
		return "", nil, fmt.Errorf("%w: planner: %v", ErrMalformedResponse, err)
	}
	return planner.Description, json.RawMessage(cleaned), nil
}

// stripFences removes a surrounding Markdown code fence, which chat
// models often wrap JSON answers in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ExtractSubjectLine pulls the subject line out of generated email
// prose, looking for a "Subject: ..." line.
func ExtractSubjectLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "subject") && strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			return strings.TrimSpace(parts[1])
		}
	}
	return "[Subject Line Not Found]"
}

var ctaPatterns = []string{"click here", "get started", "buy now", "learn more", "sign up"}

// ExtractCTA pulls a call-to-action line out of generated email prose
// by matching common CTA phrasings.
func ExtractCTA(content string) string {
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		for _, pattern := range ctaPatterns {
			if strings.Contains(lower, pattern) {
				return strings.TrimSpace(line)
			}
		}
	}
	return "Get Started Today"
}
