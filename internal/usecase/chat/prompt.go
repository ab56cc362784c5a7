package chat

import (
	"fmt"
	"strings"
)

// promptPreamble is the fixed safety system message. It is prepended to every
// prompt regardless of context or question content.
const promptPreamble = `System: "You are an educational finance assistant. THIS IS NOT FINANCIAL ADVICE. If user asks for personalised recommendations, respond with 'Consult a licensed financial advisor' and provide educational resources."`

// BuildPrompt assembles the completion prompt: safety preamble, an optional
// numbered context block, then the sanitized user question. Pure function;
// never fails. Empty sources yield a prompt with no context section.
func BuildPrompt(sanitizedQuery string, sources []string) string {
	var b strings.Builder

	b.WriteString(promptPreamble)
	b.WriteString("\n\n")

	if len(sources) > 0 {
		b.WriteString("Context from knowledge base:\n")
		for i, source := range sources {
			fmt.Fprintf(&b, "%d. %s\n", i+1, source)
		}
		b.WriteString("\n")
	}

	b.WriteString("User question: ")
	b.WriteString(sanitizedQuery)

	return b.String()
}
