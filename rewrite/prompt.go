package rewrite

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/pagesmith"
)

// metaDescriptionChars is the target length of a generated meta description.
const metaDescriptionChars = 155

// SystemPrompt is the system instruction sent with every batch.
const SystemPrompt = "You are a senior conversion copywriter rewriting the text of an existing HTML landing page for a new business. You return only JSON."

// Item is one entry of the batch prompt.
type Item struct {
	ID          string `json:"id"`
	Hint        string `json:"hint"`
	TargetChars int    `json:"targetChars"`
	Text        string `json:"text"`
}

// NewItem builds the prompt item for g.
func NewItem(g *pagesmith.RewriteGroup) Item {
	target := utf8.RuneCountInString(g.Original)
	if g.IsMetaDescription() && target == 0 {
		target = metaDescriptionChars
	}
	return Item{ID: g.ID, Hint: g.Hint, TargetChars: target, Text: g.Original}
}

// BuildRequest builds the completion request for groups.
func BuildRequest(groups []*pagesmith.RewriteGroup, brief pagesmith.Brief, maxTokens int) (*pagesmith.CompletionRequest, error) {
	prompt, err := BuildPrompt(groups, brief)
	if err != nil {
		return nil, err
	}
	return &pagesmith.CompletionRequest{
		System:    SystemPrompt,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	}, nil
}

// BuildPrompt builds the user prompt: the brief, the rewriting rules, and
// the items to rewrite as a JSON array.
func BuildPrompt(groups []*pagesmith.RewriteGroup, brief pagesmith.Brief) (string, error) {
	items := make([]Item, 0, len(groups))
	for _, g := range groups {
		items = append(items, NewItem(g))
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<brief>\n")
	fmt.Fprintf(&sb, "Business: %s\n", strings.TrimSpace(brief.UserInput))
	if v := strings.TrimSpace(brief.CompanyName); v != "" {
		fmt.Fprintf(&sb, "Company name: %s\n", v)
	}
	if v := strings.TrimSpace(brief.Tone); v != "" {
		fmt.Fprintf(&sb, "Tone: %s\n", v)
	}
	if v := strings.TrimSpace(brief.Location); v != "" {
		fmt.Fprintf(&sb, "Location: %s\n", v)
	}
	sb.WriteString("</brief>\n\n")

	sb.WriteString("<rules>\n")
	sb.WriteString("- Rewrite every item's text for the business in the brief.\n")
	sb.WriteString("- Keep each rewrite within 15% of its targetChars, longer or shorter.\n")
	sb.WriteString("- Return plain text only. Do not add HTML, markdown, emojis or line breaks, and do not merge or split items.\n")
	sb.WriteString("- Match the voice of the section named in the hint: hero and sub-hero are bold and concise, features and benefits are concrete, testimonials read as a real customer quote, pricing is clear and factual, faq reads as a question or a direct answer, cta is action oriented.\n")
	sb.WriteString("- Write for SEO and readability: use natural keywords from the brief, short sentences and active voice.\n")
	sb.WriteString("- Take the topic from the brief only. Never keep the original product, brand, names or claims.\n")
	sb.WriteString("- The meta description item summarizes the business in 140 to 160 characters.\n")
	sb.WriteString("- Write in English only.\n")
	sb.WriteString("- Respond with a single JSON object mapping every id to its rewritten text, for example {\"t1\":\"...\"}. Include every id.\n")
	sb.WriteString("</rules>\n\n")

	sb.WriteString("<items>\n")
	sb.Write(data)
	sb.WriteString("\n</items>")
	return sb.String(), nil
}

// ParseReplies decodes a JSON object of id to text. Markdown code fences
// around the object are tolerated. Non-string values are skipped.
func ParseReplies(raw string) (map[string]string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, pagesmith.Errorf(pagesmith.EINTERNAL, "generation response is not a JSON object: %v", err)
	}

	replies := make(map[string]string, len(values))
	for id, v := range values {
		if text, ok := v.(string); ok {
			replies[id] = text
		}
	}
	return replies, nil
}
