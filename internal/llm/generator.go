package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/pagesmith/internal/prompts"
)

// Generator turns a brief into a single-page web application using an
// LLM client. The returned markup is opaque: it is never parsed or
// structurally validated here or downstream.
type Generator struct {
	client Client
}

// NewGenerator creates a Generator on top of an LLM client.
func NewGenerator(client Client) *Generator {
	return &Generator{client: client}
}

// GenerateApp generates a self-contained HTML application for the brief.
// The brief is embedded verbatim into the instruction prompt. Fails if
// the model call errors or returns no usable content; there is no retry
// at this layer.
func (g *Generator) GenerateApp(ctx context.Context, brief string) (string, error) {
	tmpl, err := prompts.Get("generation.json", "web_app")
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}

	prompt := prompts.Format(tmpl, map[string]string{"Brief": brief})

	text, err := g.client.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}

	artifact := strings.TrimSpace(text)
	if artifact == "" {
		return "", fmt.Errorf("LLM generation failed: model returned no usable content")
	}

	return artifact, nil
}
