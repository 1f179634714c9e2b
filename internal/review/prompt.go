package review

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/mhaywood/review-raven/internal/prcontext"
)

//go:embed prompt_template.tmpl
var promptTemplate string

//go:embed system_prompt.md
var systemPrompt string

// SystemPrompt returns the fixed system prompt, including the JSON schema the
// model is instructed to follow.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt assembles the review prompt from the collected PR context
func BuildPrompt(prCtx prcontext.Context) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, prCtx); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}
