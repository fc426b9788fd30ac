package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt frames every content generation call
const SystemPrompt = "You are an expert SEO copywriter. Write well-structured, original content that reads naturally and ranks well in search engines."

// ContentBrief describes the text a user asked for
type ContentBrief struct {
	ContentType string
	Language    string
	WordCount   int
	Keywords    []string
}

// languageNames spells out common language codes inside prompts
var languageNames = map[string]string{
	"fr": "French",
	"en": "English",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
}

// LanguageName returns the English name of a language code, or the code itself
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// BuildContentPrompt creates the instruction for an SEO content generation
func BuildContentPrompt(brief ContentBrief) string {
	return fmt.Sprintf(`Generate a %s article in %s of about %d words on the following keywords: %s.
The article must be optimized for SEO.`,
		brief.ContentType,
		LanguageName(brief.Language),
		brief.WordCount,
		strings.Join(brief.Keywords, ", "),
	)
}

// TokenBudget caps the completion length at twice the requested word count
func TokenBudget(wordCount, ceiling int) int {
	budget := wordCount * 2
	if ceiling > 0 && budget > ceiling {
		return ceiling
	}
	return budget
}

// CleanCompletion strips surrounding whitespace and a wrapping markdown fence
func CleanCompletion(content string) string {
	text := strings.TrimSpace(content)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
